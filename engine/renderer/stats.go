package renderer

// FrameStats counts the work of one Render call.
type FrameStats struct {
	// Frame is the number of frames rendered so far, including this one.
	Frame uint64

	// Passes and Queues count the passes and queues that had content.
	Passes int
	Queues int

	// DrawCalls counts device draws, ProgramBinds the programs bound.
	DrawCalls    int
	ProgramBinds int
}
