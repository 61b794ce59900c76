package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrQueueEmpty  = errors.New("queue is empty")
	ErrQueueClosed = errors.New("queue is closed")
)

// Task is one product URL waiting to be fetched. Position is the zero-based
// index in the input list; result ordering follows it.
type Task struct {
	ID        string
	URL       string
	Position  int
	CreatedAt time.Time
}

func NewTask(url string, position int) *Task {
	return &Task{
		ID:        uuid.New().String(),
		URL:       url,
		Position:  position,
		CreatedAt: time.Now(),
	}
}

type Queue interface {
	Push(task *Task) error
	Pop(ctx context.Context) (*Task, error)
	Size() int
	Close() error
}

// InMemoryQueue is a FIFO queue; input order is preserved so the rendered
// ranking matches the source list. A closed queue drains its remaining
// tasks before Pop starts failing.
type InMemoryQueue struct {
	tasks  []*Task
	mu     sync.Mutex
	signal chan struct{}
	closed bool
}

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		tasks:  make([]*Task, 0),
		signal: make(chan struct{}, 1),
	}
}

func (q *InMemoryQueue) Push(task *Task) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()

	q.wake()
	return nil
}

// Pop blocks until a task is available, the queue is closed and drained, or
// the context is cancelled.
func (q *InMemoryQueue) Pop(ctx context.Context) (*Task, error) {
	for {
		q.mu.Lock()
		if len(q.tasks) > 0 {
			task := q.tasks[0]
			q.tasks = q.tasks[1:]
			q.mu.Unlock()
			return task, nil
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return nil, ErrQueueClosed
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-q.signal:
		}
	}
}

func (q *InMemoryQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.wake()
	return nil
}

func (q *InMemoryQueue) wake() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}
