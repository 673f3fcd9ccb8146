package worker

import "sync"

// Job is a unit of work executed by the pool. Invoice delivery runs its
// simulated provider calls here so handlers can bound them with a context.
type Job func()

// Pool is a fixed-size goroutine pool.
type Pool interface {
	Submit(Job)
	Stop()
}

// NewPool starts a pool with n workers. n <= 0 defaults to 1.
func NewPool(n int) Pool {
	if n <= 0 {
		n = 1
	}
	p := &pool{jobs: make(chan Job)}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.work()
	}
	return p
}

type pool struct {
	jobs chan Job
	wg   sync.WaitGroup
}

func (p *pool) work() {
	defer p.wg.Done()
	for job := range p.jobs {
		if job != nil {
			job()
		}
	}
}

func (p *pool) Submit(j Job) {
	p.jobs <- j
}

// Stop closes the queue and waits for in-flight jobs to finish.
func (p *pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}
