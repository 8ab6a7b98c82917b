package handler

import "sync"

// DefaultBacklog is the number of updates a user may have waiting before
// further ones are dropped.
const DefaultBacklog = 32

// userQueue runs submitted tasks one at a time per user, in submission order.
// Different users run in parallel.
type userQueue struct {
	mu      sync.Mutex
	pending map[int64][]func()
	backlog int
	wg      sync.WaitGroup
}

func newUserQueue(backlog int) *userQueue {
	if backlog <= 0 {
		backlog = DefaultBacklog
	}
	return &userQueue{pending: make(map[int64][]func()), backlog: backlog}
}

// Submit queues task for userID. It returns false, without queueing, when the
// user already has backlog tasks waiting.
func (q *userQueue) Submit(userID int64, task func()) bool {
	q.mu.Lock()
	tasks, running := q.pending[userID]
	if len(tasks) >= q.backlog {
		q.mu.Unlock()
		return false
	}
	q.pending[userID] = append(tasks, task)
	q.mu.Unlock()

	if !running {
		q.wg.Add(1)
		go q.drain(userID)
	}
	return true
}

func (q *userQueue) drain(userID int64) {
	defer q.wg.Done()
	for {
		q.mu.Lock()
		tasks := q.pending[userID]
		if len(tasks) == 0 {
			delete(q.pending, userID)
			q.mu.Unlock()
			return
		}
		task := tasks[0]
		q.pending[userID] = tasks[1:]
		q.mu.Unlock()

		task()
	}
}

// Wait blocks until every submitted task has run.
func (q *userQueue) Wait() {
	q.wg.Wait()
}
