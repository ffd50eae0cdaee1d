package main

import (
	"context"
	"errors"
)

// ErrQueueClosed is returned by Pop once the queue is closed and drained.
var ErrQueueClosed = errors.New("report queue closed")

// Ensure *chanQueue implements Queuer.
var _ Queuer = (*chanQueue)(nil)

// Queuer describes the hand-off of report entries between the runner
// and the archive consumer.
type Queuer interface {
	Push(ctx context.Context, entry ReportEntry) error
	Pop(ctx context.Context) (ReportEntry, error)
	Close()
}

// chanQueue is a channel-backed queue of report entries. The runner and
// the archiver live in the same process, so the queue does not need to
// survive a restart.
type chanQueue struct {
	entries chan ReportEntry
}

func NewReportQueue(size int) Queuer {
	return &chanQueue{entries: make(chan ReportEntry, size)}
}

// Push enqueues a report entry. It blocks when the queue is full until
// the archiver catches up or the context ends.
func (q *chanQueue) Push(ctx context.Context, entry ReportEntry) error {
	select {
	case q.entries <- entry:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pop returns the next queued entry. Once the queue is closed it keeps
// draining buffered entries then returns ErrQueueClosed.
func (q *chanQueue) Pop(ctx context.Context) (ReportEntry, error) {
	select {
	case entry, ok := <-q.entries:
		if !ok {
			return ReportEntry{}, ErrQueueClosed
		}
		return entry, nil
	case <-ctx.Done():
		return ReportEntry{}, ctx.Err()
	}
}

// Close marks the end of the run. Push must not be called afterwards.
func (q *chanQueue) Close() {
	close(q.entries)
}
