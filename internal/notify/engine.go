package notify

import (
	"container/heap"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Engine is the in-process delivery service behind the scheduler: a min-heap
// of activations drained by a single timer loop. Cancellation is lazy; heap
// entries whose identifier or generation no longer matches the pending map
// are skipped.
type Engine struct {
	mu      sync.Mutex
	pending map[string]*pendingItem
	queue   activationQueue
	genSeq  uint64
	out     chan Delivery
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
	now     func() time.Time
}

type pendingItem struct {
	req  Request
	next time.Time
	gen  uint64
}

type activation struct {
	id  string
	at  time.Time
	gen uint64
}

type activationQueue []activation

func (q activationQueue) Len() int { return len(q) }

func (q activationQueue) Less(i, j int) bool {
	return q[i].at.Before(q[j].at)
}

func (q activationQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *activationQueue) Push(x any) {
	*q = append(*q, x.(activation))
}

func (q *activationQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[0 : n-1]
	return item
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		pending: make(map[string]*pendingItem),
		queue:   make(activationQueue, 0),
		out:     make(chan Delivery, bufferSize),
		wakeup:  make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		now:     time.Now,
	}
}

func (e *Engine) C() <-chan Delivery {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Submit registers a request under its identifier, replacing any pending
// request already scheduled under it.
func (e *Engine) Submit(req Request) error {
	if req.ID == "" {
		return ErrMissingIdentifier
	}
	if !req.Trigger.valid() {
		return ErrInvalidTrigger
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return errors.New("notify: engine stopped")
	}

	e.genSeq++
	item := &pendingItem{
		req:  req,
		next: req.Trigger.Next(e.now()),
		gen:  e.genSeq,
	}
	e.pending[req.ID] = item
	heap.Push(&e.queue, activation{id: req.ID, at: item.next, gen: item.gen})
	e.signalWakeup()
	return nil
}

// Cancel removes the pending request under the exact identifier. Unknown
// identifiers are ignored.
func (e *Engine) Cancel(id string) {
	e.mu.Lock()
	delete(e.pending, id)
	e.mu.Unlock()
	e.signalWakeup()
}

// PendingIDs lists the identifiers of all pending requests, sorted.
func (e *Engine) PendingIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.pending))
	for id := range e.pending {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// NextActivation reports when the request under id will next fire.
func (e *Engine) NextActivation(id string) (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	item, ok := e.pending[id]
	if !ok {
		return time.Time{}, false
	}
	return item.next, true
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := next.at.Sub(e.now())
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := e.popDue(e.now())
			for _, d := range due {
				select {
				case e.out <- d:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

// peek returns the earliest live activation, pruning stale heap entries left
// behind by Cancel and re-Submit.
func (e *Engine) peek() (activation, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for len(e.queue) > 0 {
		top := e.queue[0]
		item, ok := e.pending[top.id]
		if !ok || item.gen != top.gen || !item.next.Equal(top.at) {
			heap.Pop(&e.queue)
			continue
		}
		return top, true
	}
	return activation{}, false
}

func (e *Engine) popDue(now time.Time) []Delivery {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Delivery, 0)
	for len(e.queue) > 0 {
		top := e.queue[0]
		if top.at.After(now) {
			break
		}
		heap.Pop(&e.queue)

		item, ok := e.pending[top.id]
		if !ok || item.gen != top.gen || !item.next.Equal(top.at) {
			continue
		}

		out = append(out, Delivery{
			ID:    item.req.ID,
			Title: item.req.Title,
			Body:  item.req.Body,
			Kind:  item.req.Kind,
			At:    item.next,
		})

		if item.req.Trigger.Repeats() {
			item.next = item.req.Trigger.Next(now)
			heap.Push(&e.queue, activation{id: top.id, at: item.next, gen: item.gen})
		} else {
			delete(e.pending, top.id)
		}
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
