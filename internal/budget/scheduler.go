package budget

import (
	"sync"
	"time"
)

// WorkItem is a named unit of deferred per-frame work with an estimated cost.
type WorkItem struct {
	ID          string
	Run         func()
	EstimatedMs float64
	ScheduledAt time.Time
}

// Scheduler is a FIFO registry of not-yet-executed work items. It never runs
// callbacks itself; the caller pops the next item and decides whether it fits
// the remaining frame budget.
type Scheduler struct {
	mu    sync.Mutex
	now   func() time.Time
	items []*WorkItem
	byID  map[string]*WorkItem
}

// NewScheduler creates an empty work scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{
		now:  time.Now,
		byID: make(map[string]*WorkItem),
	}
}

// ScheduleWork upserts an item. Re-scheduling an existing id replaces its
// callback and estimate in place, keeping its queue position.
func (s *Scheduler) ScheduleWork(id string, run func(), estimatedMs float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item, ok := s.byID[id]; ok {
		item.Run = run
		item.EstimatedMs = estimatedMs
		item.ScheduledAt = s.now()
		return
	}

	item := &WorkItem{
		ID:          id,
		Run:         run,
		EstimatedMs: estimatedMs,
		ScheduledAt: s.now(),
	}
	s.byID[id] = item
	s.items = append(s.items, item)
}

// CancelWork removes the item for id, if present.
func (s *Scheduler) CancelWork(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return
	}
	delete(s.byID, id)
	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
}

// ExecuteNext pops and returns the earliest-scheduled item without invoking
// its callback, or nil when the queue is empty.
func (s *Scheduler) ExecuteNext() *WorkItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return nil
	}
	item := s.items[0]
	s.items = s.items[1:]
	delete(s.byID, item.ID)
	return item
}

// PendingCount returns the number of live items.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
