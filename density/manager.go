package density

import (
	"runtime"

	"github.com/phil-mansfield/gopm/geom"
)

// Manager runs an Interpolator across a fixed pool of workers. Each
// worker deposits into its own grid copy and the copies are merged in
// worker order, so the result does not depend on goroutine scheduling.
type Manager struct {
	g       *geom.Grid
	intr    Interpolator
	workers int
	bufs    [][]float64
}

func NewManager(kernel Kernel, width, workers int) *Manager {
	if workers <= 0 { workers = runtime.NumCPU() }

	man := &Manager{
		g:       geom.NewGrid(width),
		workers: workers,
		bufs:    make([][]float64, workers),
	}
	man.intr = NewInterpolator(kernel, man.g)

	for i := range man.bufs {
		man.bufs[i] = make([]float64, man.g.Volume)
	}

	return man
}

// Interpolate adds ptVal to the grid around every position in xs.
func (man *Manager) Interpolate(rhos []float64, xs []geom.Vec, ptVal float64) {
	if len(rhos) != man.g.Volume {
		panic("Length of rhos doesn't match grid volume.")
	}

	out := make(chan int, man.workers)

	for id := 0; id < man.workers-1; id++ {
		go man.chanInterpolate(id, xs, ptVal, out)
	}
	man.chanInterpolate(man.workers-1, xs, ptVal, out)
	for i := 0; i < man.workers; i++ { <-out }

	for id := 0; id < man.workers-1; id++ {
		go man.chanMerge(id, rhos, out)
	}
	man.chanMerge(man.workers-1, rhos, out)
	for i := 0; i < man.workers; i++ { <-out }
}

// Eval samples a grid field at every position in xs. Workers write
// disjoint ranges of out, so no merge is needed.
func (man *Manager) Eval(field []float64, xs []geom.Vec, out []float64) {
	if len(field) != man.g.Volume {
		panic("Length of field doesn't match grid volume.")
	}
	if len(out) != len(xs) {
		panic("Length of out doesn't match length of xs.")
	}

	done := make(chan int, man.workers)

	for id := 0; id < man.workers-1; id++ {
		go man.chanEval(id, field, xs, out, done)
	}
	man.chanEval(man.workers-1, field, xs, out, done)
	for i := 0; i < man.workers; i++ { <-done }
}

func (man *Manager) chanInterpolate(
	id int, xs []geom.Vec, ptVal float64, out chan<- int,
) {
	buf := man.bufs[id]
	for i := range buf { buf[i] = 0 }

	low, high := span(len(xs), man.workers, id)
	man.intr.Interpolate(buf, xs, ptVal, low, high)

	out <- id
}

func (man *Manager) chanMerge(id int, rhos []float64, out chan<- int) {
	low, high := span(len(rhos), man.workers, id)

	for i := low; i < high; i++ {
		s := rhos[i]
		for _, buf := range man.bufs { s += buf[i] }
		rhos[i] = s
	}

	out <- id
}

func (man *Manager) chanEval(
	id int, field []float64, xs []geom.Vec, out []float64, done chan<- int,
) {
	low, high := span(len(xs), man.workers, id)
	man.intr.Eval(field, xs, out, low, high)
	done <- id
}

// span splits n units of work into contiguous per worker chunks.
func span(n, workers, id int) (low, high int) {
	chunk := n / workers
	low, high = chunk*id, chunk*(id+1)
	if id == workers-1 { high = n }
	return low, high
}
