package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure the queue hands entries back in push order and reports its end.
func TestReportQueue(t *testing.T) {
	queue := NewReportQueue(4)

	first := ReportEntry{RunID: "run:a", Number: 1, Name: "fiction books"}
	second := ReportEntry{RunID: "run:a", Number: 2, Name: "reprice 1984"}
	require.NoError(t, queue.Push(context.Background(), first))
	require.NoError(t, queue.Push(context.Background(), second))
	queue.Close()

	entry, err := queue.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, entry)

	entry, err = queue.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, second, entry)

	// closed and drained.
	_, err = queue.Pop(context.Background())
	assert.Equal(t, ErrQueueClosed, err)
}

// Ensure a done context unblocks both queue calls.
func TestReportQueueContextDone(t *testing.T) {
	queue := NewReportQueue(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := queue.Push(ctx, ReportEntry{RunID: "run:a", Number: 1})
	assert.Equal(t, context.Canceled, err)

	_, err = queue.Pop(ctx)
	assert.Equal(t, context.Canceled, err)
}
