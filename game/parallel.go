package game

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum plant count to use the worker pool.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 16

// workChunk represents a range of plants for a worker to process.
type workChunk struct {
	start, end int
}

// parallelState holds the worker pool for the moss contact query.
type parallelState struct {
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState() *parallelState {
	return &parallelState{
		numWorkers: runtime.GOMAXPROCS(0),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(g *Game) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(g)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker(g *Game) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			g.computeContacts(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// updateContacts fills g.contact with each plant's moss contact for this tick.
// The query only reads plants and colonies; the results are committed in
// plant order by updatePlants, so scheduling never changes the outcome.
func (g *Game) updateContacts() {
	n := len(g.plants)
	if cap(g.contact) < n {
		g.contact = make([]bool, n)
	}
	g.contact = g.contact[:n]

	pooled := n >= parallelThreshold
	g.perfCollector.RecordContacts(n, pooled)
	if !pooled {
		g.computeContacts(0, n)
		return
	}
	g.computeParallel(n)
}

// computeParallel dispatches work to the worker pool.
func (g *Game) computeParallel(n int) {
	// Ensure workers are running
	if !g.parallel.running {
		g.parallel.startWorkers(g)
	}

	numWorkers := g.parallel.numWorkers
	chunkSize := (n + numWorkers - 1) / numWorkers

	// Dispatch chunks to workers
	chunksDispatched := 0
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}

		g.parallel.workChan <- workChunk{start: start, end: end}
		chunksDispatched++
	}

	// Wait for all chunks to complete
	for i := 0; i < chunksDispatched; i++ {
		<-g.parallel.doneChan
	}
}

// computeContacts processes a range of plants for a single worker.
func (g *Game) computeContacts(i0, i1 int) {
	for i := i0; i < i1; i++ {
		g.contact[i] = g.plants[i].ContactWithMoss(g.colonies)
	}
}

// stopParallelWorkers should be called when shutting down the game.
func (g *Game) stopParallelWorkers() {
	if g.parallel != nil {
		g.parallel.stopWorkers()
	}
}
