package shaped

import (
	"slices"
	"time"
)

// Scheduler defers a callback onto the rendering loop. Elements use it
// for the idle-remipmap check; anything driving a frame loop can provide
// one.
type Scheduler interface {
	// After schedules fn to run no sooner than d from now. The returned
	// cancel function drops the task if it has not run yet, and is a
	// no-op afterwards.
	After(d time.Duration, fn func()) (cancel func())
}

// LoopScheduler is a Scheduler driven by the host event loop: the loop
// calls Run once per iteration and due tasks execute right there, on the
// loop's thread. There is no locking; all calls must come from that same
// thread.
type LoopScheduler struct {
	// Now provides the current time. Defaults to time.Now.
	Now func() time.Time

	nextID int
	tasks  []loopTask
}

type loopTask struct {
	id  int
	due time.Time
	fn  func()
}

func NewLoopScheduler() *LoopScheduler {
	return &LoopScheduler{Now: time.Now}
}

func (s *LoopScheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}

	return time.Now()
}

func (s *LoopScheduler) After(d time.Duration, fn func()) (cancel func()) {
	s.nextID++
	id := s.nextID

	s.tasks = append(s.tasks, loopTask{
		id:  id,
		due: s.now().Add(d),
		fn:  fn,
	})

	return func() {
		s.tasks = slices.DeleteFunc(s.tasks, func(task loopTask) bool {
			return task.id == id
		})
	}
}

// Pending returns the number of tasks not yet run or cancelled.
func (s *LoopScheduler) Pending() int {
	return len(s.tasks)
}

// Run executes every task that is due and returns how many ran. Tasks
// are removed before their callback runs, so a callback is free to
// schedule again.
func (s *LoopScheduler) Run() int {
	now := s.now()

	var due []loopTask
	s.tasks = slices.DeleteFunc(s.tasks, func(task loopTask) bool {
		if task.due.After(now) {
			return false
		}

		due = append(due, task)
		return true
	})

	for _, task := range due {
		task.fn()
	}

	return len(due)
}
