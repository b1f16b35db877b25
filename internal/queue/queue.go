package queue

import (
	"errors"
	"sync"

	"crypto_news/internal/logger"
)

var (
	// ErrQueueFull возвращается Publish, когда буфер заполнен.
	ErrQueueFull = errors.New("queue is full")
	// ErrQueueClosed возвращается Publish после Close.
	ErrQueueClosed = errors.New("queue is closed")
)

// Queue реализует ограниченную очередь задач в памяти процесса с пулом обработчиков.
type Queue struct {
	mu      sync.RWMutex
	closed  bool
	tasks   chan []byte
	workers int
	wg      sync.WaitGroup
}

// New создаёт очередь на size задач, которую обрабатывают workers горутин.
func New(size, workers int) *Queue {
	if size < 1 {
		size = 1
	}
	if workers < 1 {
		workers = 1
	}
	return &Queue{
		tasks:   make(chan []byte, size),
		workers: workers,
	}
}

// Publish ставит задачу в очередь, не блокируясь.
func (q *Queue) Publish(body []byte) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.tasks <- body:
		return nil
	default:
		return ErrQueueFull
	}
}

// Consume запускает обработчиков. Ошибка handler логируется, задача не повторяется.
func (q *Queue) Consume(handler func([]byte) error) {
	logger.Log.Infof("Consuming archive queue (workers: %d)", q.workers)

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			for body := range q.tasks {
				if err := handler(body); err != nil {
					logger.Log.Errorf("Task failed: %v", err)
				}
			}
		}()
	}
}

// Close закрывает очередь и ждёт, пока обработчики разберут оставшиеся задачи.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()

	q.wg.Wait()
}

// Len возвращает число задач, ожидающих обработки.
func (q *Queue) Len() int {
	return len(q.tasks)
}
