// Package pool implements the bounded worker pool with fail-fast
// overflow described in spec.md §4.7 / §5.
package pool

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/prakashgarg91/truckopti/internal/coreerr"
	"github.com/prakashgarg91/truckopti/internal/domain"
)

// QueueDepth tracks how many jobs are currently queued (not yet picked
// up by a worker).
var QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "truckopti_worker_pool_queue_depth",
	Help: "Current number of jobs queued in the packing worker pool",
})

type job struct {
	fn   func() (domain.PackResponse, *coreerr.Error)
	resp chan result
}

type result struct {
	resp domain.PackResponse
	err  *coreerr.Error
}

// Pool runs packing jobs across a fixed number of workers, backed by a
// bounded queue. Submit never blocks waiting for queue space: once the
// queue is full it returns Overloaded immediately so a caller under
// load sheds work instead of piling up latency (spec.md §5).
type Pool struct {
	jobs chan job
}

// New starts workers goroutines draining a queue of depth queueDepth.
func New(workers, queueDepth int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueDepth <= 0 {
		queueDepth = workers
	}
	p := &Pool{jobs: make(chan job, queueDepth)}
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for j := range p.jobs {
		QueueDepth.Set(float64(len(p.jobs)))
		resp, err := j.fn()
		j.resp <- result{resp: resp, err: err}
	}
}

// Submit enqueues fn and blocks until it has run, returning its
// result. If the queue is already full, Submit returns an Overloaded
// error immediately instead of enqueuing.
func (p *Pool) Submit(fn func() (domain.PackResponse, *coreerr.Error)) (domain.PackResponse, *coreerr.Error) {
	j := job{fn: fn, resp: make(chan result, 1)}
	select {
	case p.jobs <- j:
	default:
		return domain.PackResponse{}, coreerr.New(coreerr.Overloaded, "worker pool queue is full", nil)
	}
	QueueDepth.Set(float64(len(p.jobs)))
	r := <-j.resp
	return r.resp, r.err
}

// Close stops the pool from accepting further work. It does not wait
// for in-flight jobs to finish; callers must drain in-flight Submit
// calls themselves before calling Close.
func (p *Pool) Close() { close(p.jobs) }
