package websocket

// Semaphore bounds the number of concurrent screening connections. Acquire is
// non-blocking: an upgrade over the budget is rejected outright rather than
// queued, so a flood of sockets cannot back up the HTTP accept loop.
type Semaphore struct {
	connections chan struct{}
}

func NewSemaphore(maxConnections int) *Semaphore {
	return &Semaphore{
		connections: make(chan struct{}, maxConnections),
	}
}

func (s *Semaphore) Acquire() bool {
	select {
	case s.connections <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release frees one slot. Safe to call more times than Acquire succeeded;
// extra releases are dropped.
func (s *Semaphore) Release() {
	select {
	case <-s.connections:
	default:
	}
}

// ActiveConnections reports how many screening sessions currently hold a slot.
func (s *Semaphore) ActiveConnections() int {
	return len(s.connections)
}
