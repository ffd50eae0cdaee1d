package main

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

type Consumer interface {
	Consume(ctx context.Context) error
}

type boltArchiveConsumer struct {
	logger  *zap.Logger
	queue   Queuer
	archive ReportArchiver
}

func NewBoltArchiveConsumer(logger *zap.Logger, q Queuer, archive ReportArchiver) Consumer {
	return &boltArchiveConsumer{logger, q, archive}
}

// Consume drains report entries from the queue into the bolt archive. It
// exits cleanly once the runner closed the queue or the context is done.
// A failed archive write is logged and never stops the consumption.
func (bc *boltArchiveConsumer) Consume(ctx context.Context) error {
	for {
		entry, err := bc.queue.Pop(ctx)
		if errors.Is(err, ErrQueueClosed) {
			bc.logger.Info("archiver: report queue closed: exit")
			return nil
		}

		if err != nil && ctx.Err() != nil {
			bc.logger.Info("archiver: queue pop call: context is done: exit", zap.String("reason", ctx.Err().Error()))
			return nil
		}

		if err != nil {
			bc.logger.Error("archiver: error on queue pop call", zap.Error(err))
			continue
		}

		if err = bc.archive.Save(ctx, entry); err != nil {
			bc.logger.Error("archiver: failed to save report entry",
				zap.String("run.id", entry.RunID),
				zap.Int("step.number", entry.Number),
				zap.Error(err),
			)
		}
	}
}
