package renderer

import (
	"context"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// TileTask represents one sample batch of one tile
type TileTask struct {
	Tile        *Tile
	Batch       int // Index of the sample batch within the tile
	SampleStart int // First sample index of the batch
	SampleCount int // Samples per pixel in this batch
	TaskID      int
}

// TileResult contains the partial sums from rendering a tile task
type TileResult struct {
	TaskID  int
	Tile    *Tile
	Batch   int
	Samples int         // Samples per pixel included in Sums
	Sums    []core.Vec3 // Row-major over Tile.Bounds
	Error   error
}

// WorkerPool manages parallel tile rendering
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
	seed        int64
	seeded      bool
}

// Worker handles individual tile rendering tasks
type Worker struct {
	ID          int
	renderer    *TileRenderer
	sampler     core.Sampler // Used when the pool is not seeded
	taskQueue   chan TileTask
	resultQueue chan TileResult
	pool        *WorkerPool
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// queueSize bounds the number of tasks that can be in flight without blocking.
func NewWorkerPool(renderer *TileRenderer, numWorkers, queueSize int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if queueSize <= 0 {
		queueSize = numWorkers
	}

	wp := &WorkerPool{
		taskQueue:   make(chan TileTask, queueSize),
		resultQueue: make(chan TileResult, queueSize),
		numWorkers:  numWorkers,
	}

	clock := time.Now().UnixNano()
	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:          i,
			renderer:    renderer,
			sampler:     core.NewRandomSampler(rand.New(rand.NewSource(core.MixSeed(clock, i)))),
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
			pool:        wp,
		}
		wp.workers = append(wp.workers, worker)
	}

	return wp
}

// SetSeed makes every task draw from a stream derived from seed, tile and batch.
// Must be called before Start.
func (wp *WorkerPool) SetSeed(seed int64) {
	wp.seed = seed
	wp.seeded = true
}

// Start begins all workers. Tasks received after ctx is done are
// answered with ctx.Err() instead of being rendered.
func (wp *WorkerPool) Start(ctx context.Context) {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(ctx, &wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed tile result
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// samplerFor returns the sampler a worker uses for task
func (w *Worker) samplerFor(task TileTask) core.Sampler {
	if w.pool.seeded {
		return core.NewSeededSampler(core.MixSeed(w.pool.seed, task.Tile.ID, task.Batch))
	}
	return w.sampler
}

// run is the main worker loop
func (w *Worker) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		result := TileResult{
			TaskID:  task.TaskID,
			Tile:    task.Tile,
			Batch:   task.Batch,
			Samples: task.SampleCount,
		}

		if err := ctx.Err(); err != nil {
			result.Error = err
		} else {
			result.Sums = w.renderer.RenderTile(task, w.samplerFor(task))
		}

		w.resultQueue <- result
	}
}
