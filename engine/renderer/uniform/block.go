package uniform

// Aggregate is a struct or array member of a block, addressed as a whole.
type Aggregate struct {
	// Name is the member name without the block prefix and without any index.
	Name       string
	EditorName string
	Offset     int
	// Size is the byte size of the whole aggregate.
	Size int
	// Stride is the byte distance between array elements, 0 for structs.
	Stride int
	// ElementCount is the number of array elements, 1 for structs.
	ElementCount int
	// Members holds the members of one element, sorted by offset.
	Members []*Info
}

// Block describes one reflected constant block.
type Block struct {
	Name     string
	Category Category
	// Index is the block index inside the owning program.
	Index uint32
	// Size is the byte size reported by the driver.
	Size int
	// Offset is the running offset of this block among the program's blocks.
	Offset int
	// Slot is the binding slot, -1 until the block is registered.
	Slot int32
	// Members holds every member sorted by offset.
	Members []*Info
	// Singles holds scalar, vector and matrix members keyed by their name without the block prefix.
	Singles map[string]*Info
	// Structs holds struct members keyed by name.
	Structs map[string]*Aggregate
	// Arrays holds array members keyed by name.
	Arrays map[string]*Aggregate
}

// NewBlock creates an empty, unregistered block.
func NewBlock(name string, index uint32, size int) *Block {
	return &Block{
		Name:     name,
		Category: CategoryOf(name),
		Index:    index,
		Size:     size,
		Slot:     -1,
		Singles:  map[string]*Info{},
		Structs:  map[string]*Aggregate{},
		Arrays:   map[string]*Aggregate{},
	}
}

// Clone returns a copy of the block sharing its member descriptions.
func (b *Block) Clone() *Block {
	c := *b
	return &c
}
