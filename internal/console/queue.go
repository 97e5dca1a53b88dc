/*
Package console
File: queue.go
Description:
    The input side of the terminal front end.

    Lines arrive from two producers (the stdin reader and the HTTP command
    endpoint) and are consumed by the tick loop, one per tick at most. The
    queue is unbounded so producers never wait, and TryPop never blocks so
    the tick loop never waits either.
*/

package console

import (
	"bufio"
	"io"
	"log"
	"sync"
)

// Queue is an unbounded FIFO of input lines, safe for concurrent use.
type Queue struct {
	mu    sync.Mutex
	lines []string
}

// NewQueue returns an empty queue.
func NewQueue() *Queue { return &Queue{} }

// Push appends a line.
func (q *Queue) Push(line string) {
	q.mu.Lock()
	q.lines = append(q.lines, line)
	q.mu.Unlock()
}

// TryPop removes the oldest line, or reports false immediately when empty.
func (q *Queue) TryPop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.lines) == 0 {
		return "", false
	}
	line := q.lines[0]
	q.lines[0] = ""
	q.lines = q.lines[1:]
	if len(q.lines) == 0 {
		// Drop the backing array once drained
		q.lines = nil
	}
	return line, true
}

// Len is the number of queued lines.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.lines)
}

// StartReader scans r line by line into q on its own goroutine. The
// returned channel is closed when r is exhausted; the game keeps running.
func StartReader(r io.Reader, q *Queue, logger *log.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			q.Push(sc.Text())
		}
		if err := sc.Err(); err != nil && logger != nil {
			logger.Printf("[INPUT] reader stopped: %v", err)
		}
	}()
	return done
}
