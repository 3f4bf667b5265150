// Package pathplan schedules path searches away from the agents that need
// them and hands results back on the simulation goroutine.
//
// Every accepted request is answered through its callback exactly once, from
// Update, unless its Ticket is cancelled first, in which case it is never
// answered. Requests never call back from inside Request.
package pathplan

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Pathfinder answers path queries. Implementations must be safe for
// concurrent use when the Planner runs workers.
type Pathfinder interface {
	FindPath(from, to mgl64.Vec3) []mgl64.Vec3
}

// Callback receives a finished search. An empty path means the target is not
// currently reachable.
type Callback func(t *Ticket, path []mgl64.Vec3)

// Ticket is the handle for one outstanding request.
type Ticket struct {
	id         uint64
	from, to   mgl64.Vec3
	onComplete Callback
	cancelled  atomic.Bool
	delivered  bool
}

// ID returns the ticket's sequence number.
func (t *Ticket) ID() uint64 { return t.id }

// Cancel withdraws the request. A cancelled ticket is never delivered.
// Safe to call on a nil ticket and more than once.
func (t *Ticket) Cancel() {
	if t != nil {
		t.cancelled.Store(true)
	}
}

// Cancelled reports whether Cancel has been called.
func (t *Ticket) Cancelled() bool { return t != nil && t.cancelled.Load() }

// Delivered reports whether the callback has run.
func (t *Ticket) Delivered() bool { return t != nil && t.delivered }

type result struct {
	ticket *Ticket
	path   []mgl64.Vec3
}

// Options configures a Planner.
type Options struct {
	// Workers is the number of search goroutines started by Start. Zero runs
	// searches inside Update.
	Workers int
	// QueueSize bounds the worker job and result queues.
	QueueSize int
	// Budget caps the searches Update runs inline per call. Zero is unbounded.
	Budget int
	Logger *zap.Logger
}

// Planner queues path requests and delivers their results.
type Planner struct {
	finder Pathfinder
	opts   Options
	logger *zap.Logger

	nextID  atomic.Uint64
	pending atomic.Int64

	// inline holds requests searched by Update; only touched by the
	// simulation goroutine.
	inline []*Ticket

	mu       sync.Mutex
	running  bool
	workCtx  context.Context
	stranded []*Ticket
	jobs     chan *Ticket
	results  chan result
	group    *errgroup.Group
}

// NewPlanner creates a Planner over finder.
//
// Precondition: finder must not be nil.
func NewPlanner(finder Pathfinder, opts Options) *Planner {
	if finder == nil {
		panic("pathplan.NewPlanner: finder must not be nil")
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{
		finder:  finder,
		opts:    opts,
		logger:  logger,
		jobs:    make(chan *Ticket, opts.QueueSize),
		results: make(chan result, opts.QueueSize),
	}
}

// Start launches the configured worker goroutines. They exit when ctx is
// cancelled. Start is a no-op when Workers is zero or workers are running.
func (p *Planner) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.opts.Workers <= 0 || p.running {
		return
	}
	p.running = true
	g, gctx := errgroup.WithContext(ctx)
	p.workCtx = gctx
	for i := 0; i < p.opts.Workers; i++ {
		g.Go(func() error { return p.work(gctx) })
	}
	p.group = g
	p.logger.Info("path planner workers started", zap.Int("workers", p.opts.Workers))
}

// Wait blocks until the workers launched by Start have exited.
func (p *Planner) Wait() error {
	p.mu.Lock()
	g := p.group
	p.mu.Unlock()
	if g == nil {
		return nil
	}
	err := g.Wait()
	p.mu.Lock()
	p.running = false
	p.group = nil
	p.workCtx = nil
	p.strandQueuedLocked()
	p.mu.Unlock()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (p *Planner) work(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-p.jobs:
			if ctx.Err() != nil {
				p.strand(t)
				return ctx.Err()
			}
			var path []mgl64.Vec3
			if !t.Cancelled() {
				path = p.finder.FindPath(t.from, t.to)
			}
			select {
			case p.results <- result{ticket: t, path: path}:
			case <-ctx.Done():
				p.strand(t)
				return ctx.Err()
			}
		}
	}
}

// Request submits a search from "from" to "to".
//
// Precondition: onComplete must not be nil.
// Postcondition: the returned Ticket is pending; onComplete has not run.
func (p *Planner) Request(from, to mgl64.Vec3, onComplete Callback) *Ticket {
	if onComplete == nil {
		panic("pathplan.Planner.Request: callback must not be nil")
	}
	t := &Ticket{id: p.nextID.Add(1), from: from, to: to, onComplete: onComplete}
	p.pending.Add(1)

	p.mu.Lock()
	accepting := p.running && p.workCtx.Err() == nil
	p.mu.Unlock()
	if accepting {
		select {
		case p.jobs <- t:
			return t
		default:
			p.logger.Debug("path planner queue full; searching inline", zap.Uint64("ticket", t.id))
		}
	}
	p.inline = append(p.inline, t)
	return t
}

// Pending returns the number of requests not yet delivered or dropped.
func (p *Planner) Pending() int { return int(p.pending.Load()) }

// Update delivers finished searches and runs inline searches. It must be
// called from the simulation goroutine. Requests made by callbacks during
// Update are handled on a later call.
func (p *Planner) Update() {
	p.reclaim()
drain:
	for {
		select {
		case r := <-p.results:
			p.deliver(r.ticket, r.path)
		default:
			break drain
		}
	}

	n := len(p.inline)
	if p.opts.Budget > 0 && n > p.opts.Budget {
		n = p.opts.Budget
	}
	batch := p.inline[:n:n]
	p.inline = append([]*Ticket(nil), p.inline[n:]...)
	for _, t := range batch {
		var path []mgl64.Vec3
		if !t.Cancelled() {
			path = p.finder.FindPath(t.from, t.to)
		}
		p.deliver(t, path)
	}
}

// strand hands a job a stopping worker will not finish back to Update.
func (p *Planner) strand(t *Ticket) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stranded = append(p.stranded, t)
}

// strandQueuedLocked moves every job still queued for workers to the
// stranded list. p.mu must be held.
func (p *Planner) strandQueuedLocked() {
	for {
		select {
		case t := <-p.jobs:
			p.stranded = append(p.stranded, t)
		default:
			return
		}
	}
}

// reclaim moves jobs that no worker will take onto the inline queue, so
// they are still answered once the workers have stopped.
func (p *Planner) reclaim() {
	p.mu.Lock()
	if !p.running || p.workCtx.Err() != nil {
		p.strandQueuedLocked()
	}
	stranded := p.stranded
	p.stranded = nil
	p.mu.Unlock()
	if len(stranded) > 0 {
		p.logger.Debug("searching requests left by stopped workers", zap.Int("requests", len(stranded)))
		p.inline = append(p.inline, stranded...)
	}
}

func (p *Planner) deliver(t *Ticket, path []mgl64.Vec3) {
	if t.delivered {
		return
	}
	p.pending.Add(-1)
	if t.Cancelled() {
		p.logger.Debug("dropping cancelled path request", zap.Uint64("ticket", t.id))
		return
	}
	t.delivered = true
	if len(path) == 0 {
		p.logger.Debug("no path found",
			zap.Uint64("ticket", t.id),
			zap.Float64s("from", t.from[:]),
			zap.Float64s("to", t.to[:]),
		)
	}
	t.onComplete(t, path)
}
