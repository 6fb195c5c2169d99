package program

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// PreprocessResult is the outcome of preprocessing one source.
type PreprocessResult struct {
	Path   string
	Result Preprocessed
	Err    error
}

// PreprocessAll resolves the includes of many sources in parallel. Only file reads happen on
// the workers, so this is safe to call before a graphics context exists.
//
// Parameters:
//   - fsys: the file system sources are read from
//   - includeDirs: additional include directories
//   - sources: the source paths to preprocess
//   - workers: the number of parallel workers, at least 1
//   - progress: optional callback invoked once per finished source, may be nil
//
// Returns:
//   - []PreprocessResult: one result per source, in the order of sources
//   - error: every failure joined, nil if all sources resolved
func PreprocessAll(fsys fs.FS, includeDirs []string, sources []string, workers int, progress func(PreprocessResult)) ([]PreprocessResult, error) {
	results := make([]PreprocessResult, len(sources))
	if len(sources) == 0 {
		return results, nil
	}

	pool := worker.NewDynamicWorkerPool(max(workers, 1), len(sources), 1*time.Second)
	defer pool.Stop()

	var (
		wg         sync.WaitGroup
		progressMu sync.Mutex
	)
	for i, source := range sources {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID:      i,
			Payload: source,
			Do: func() (any, error) {
				defer wg.Done()

				pre, err := Preprocess(fsys, source, includeDirs)
				results[i] = PreprocessResult{Path: source, Result: pre, Err: err}
				if progress != nil {
					progressMu.Lock()
					progress(results[i])
					progressMu.Unlock()
				}
				return pre, err
			},
		})
	}
	wg.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Path, r.Err))
		}
	}
	return results, errors.Join(errs...)
}
