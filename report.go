package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const RunIDPrefix string = "run"

// ReportEntry is the archived outcome of one executed report step.
type ReportEntry struct {
	RunID   string `json:"runId"`
	Number  int    `json:"number"`
	Name    string `json:"name"`
	Outcome string `json:"outcome"`
	At      string `json:"at"`
}

// ReportStep names one operation of the report and produces its outcome line.
type ReportStep struct {
	Name string
	Run  func(ctx context.Context) (string, error)
}

// ReportRunner executes the fixed ordered list of queries, updates,
// aggregations, index creations and explains against the books collection.
// Steps are independent and run strictly one after the other; the first
// error aborts the remainder of the sequence.
type ReportRunner struct {
	logger  *zap.Logger
	config  *Config
	clock   Clocker
	ids     UIDHandler
	storage BookStorage
	queue   Queuer
}

// NewReportRunner provides an instance of the report runner.
func NewReportRunner(logger *zap.Logger, config *Config, clock Clocker, ids UIDHandler, storage BookStorage, queue Queuer) *ReportRunner {
	return &ReportRunner{
		logger:  logger,
		config:  config,
		clock:   clock,
		ids:     ids,
		storage: storage,
		queue:   queue,
	}
}

// Steps returns the report operations in their execution order.
func (rr *ReportRunner) Steps() []ReportStep {
	return []ReportStep{
		{"fiction books", func(ctx context.Context) (string, error) {
			books, err := rr.storage.Find(ctx, FieldEquals{Field: "genre", Value: "Fiction"})
			if err != nil {
				return "", err
			}
			return renderBooks(books), nil
		}},
		{"books published after 1950", func(ctx context.Context) (string, error) {
			books, err := rr.storage.Find(ctx, FieldGreaterThan{Field: "published_year", Value: 1950})
			if err != nil {
				return "", err
			}
			return renderBooks(books), nil
		}},
		{"books by george orwell", func(ctx context.Context) (string, error) {
			books, err := rr.storage.Find(ctx, FieldEquals{Field: "author", Value: "George Orwell"})
			if err != nil {
				return "", err
			}
			return renderBooks(books), nil
		}},
		{"reprice 1984", func(ctx context.Context) (string, error) {
			modified, err := rr.storage.SetPriceByTitle(ctx, "1984", 15.99)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("modified %d book(s)", modified), nil
		}},
		{"remove animal farm", func(ctx context.Context) (string, error) {
			deleted, err := rr.storage.DeleteByTitle(ctx, "Animal Farm")
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("deleted %d book(s)", deleted), nil
		}},
		{"in stock books published after 2010", func(ctx context.Context) (string, error) {
			books, err := rr.storage.Find(ctx, AllOf{
				FieldEquals{Field: "in_stock", Value: true},
				FieldGreaterThan{Field: "published_year", Value: 2010},
			})
			if err != nil {
				return "", err
			}
			return renderBooks(books), nil
		}},
		{"title author price summary", func(ctx context.Context) (string, error) {
			summaries, err := rr.storage.FindSummaries(ctx, MatchAll{})
			if err != nil {
				return "", err
			}
			return renderSummaries(summaries), nil
		}},
		{"books cheapest first", func(ctx context.Context) (string, error) {
			books, err := rr.storage.FindSorted(ctx, MatchAll{}, Sort{Field: "price"})
			if err != nil {
				return "", err
			}
			return renderBooks(books), nil
		}},
		{"books priciest first", func(ctx context.Context) (string, error) {
			books, err := rr.storage.FindSorted(ctx, MatchAll{}, Sort{Field: "price", Descending: true})
			if err != nil {
				return "", err
			}
			return renderBooks(books), nil
		}},
		{"page of books", func(ctx context.Context) (string, error) {
			page := Page{Size: rr.config.Report.PageSize, Number: rr.config.Report.PageNumber}
			books, err := rr.storage.FindPage(ctx, MatchAll{}, page)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("page %d (size %d): %s", page.Number, page.Size, renderBooks(books)), nil
		}},
		{"average price per genre", func(ctx context.Context) (string, error) {
			rows, err := rr.storage.AveragePriceByGenre(ctx)
			if err != nil {
				return "", err
			}
			return renderGenrePricings(rows), nil
		}},
		{"author with most books", func(ctx context.Context) (string, error) {
			rows, err := rr.storage.MostProlificAuthor(ctx)
			if err != nil {
				return "", err
			}
			if len(rows) == 0 {
				return "no authors found", nil
			}
			return fmt.Sprintf("%s leads with %d book(s)", rows[0].Author, rows[0].BookCount), nil
		}},
		{"books per decade", func(ctx context.Context) (string, error) {
			rows, err := rr.storage.CountByDecade(ctx)
			if err != nil {
				return "", err
			}
			return renderDecadeCounts(rows), nil
		}},
		{"index on title", func(ctx context.Context) (string, error) {
			name, err := rr.storage.CreateTitleIndex(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("created index %q", name), nil
		}},
		{"index on author and year", func(ctx context.Context) (string, error) {
			name, err := rr.storage.CreateAuthorYearIndex(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("created index %q", name), nil
		}},
		{"explain title lookup", func(ctx context.Context) (string, error) {
			report, err := rr.storage.Explain(ctx, FieldEquals{Field: "title", Value: "1984"})
			if err != nil {
				return "", err
			}
			return renderExplain(report), nil
		}},
		{"explain author and year lookup", func(ctx context.Context) (string, error) {
			report, err := rr.storage.Explain(ctx, AllOf{
				FieldEquals{Field: "author", Value: "George Orwell"},
				FieldEquals{Field: "published_year", Value: 1949},
			})
			if err != nil {
				return "", err
			}
			return renderExplain(report), nil
		}},
	}
}

// Run executes all report steps in order and stops at the first failure.
// Each outcome is logged and handed to the archive queue. The queue is
// closed whatever the way the sequence ends, so the archiver can drain
// pending entries and exit.
func (rr *ReportRunner) Run(ctx context.Context) error {
	defer rr.queue.Close()

	runID := rr.ids.Generate(RunIDPrefix)
	logger := rr.logger.With(zap.String("run.id", runID))
	started := rr.clock.Now()

	steps := rr.Steps()
	logger.Info("report run starting",
		zap.String("mongo.database", rr.config.Mongo.Database),
		zap.String("mongo.collection", rr.config.Mongo.Collection),
		zap.Int("steps.total", len(steps)),
	)

	for i, step := range steps {
		number := i + 1
		outcome, err := step.Run(ctx)
		if err != nil {
			logger.Error("report step failed",
				zap.Int("step.number", number),
				zap.String("step.name", step.Name),
				zap.Error(err),
			)
			return fmt.Errorf("step %d (%s): %w", number, step.Name, err)
		}

		logger.Info("report step completed",
			zap.Int("step.number", number),
			zap.String("step.name", step.Name),
			zap.String("step.outcome", outcome),
		)

		entry := ReportEntry{
			RunID:   runID,
			Number:  number,
			Name:    step.Name,
			Outcome: outcome,
			At:      rr.clock.Now().UTC().String(),
		}
		if err := rr.queue.Push(ctx, entry); err != nil {
			logger.Warn("failed to queue report entry for archiving",
				zap.Int("step.number", number),
				zap.Error(err),
			)
		}
	}

	logger.Info("report run completed",
		zap.Int("steps.total", len(steps)),
		zap.Duration("elapsed", rr.clock.Now().Sub(started)),
	)
	return nil
}
