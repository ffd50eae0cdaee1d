package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newReportTestConfig provides the hard-coded report parameters used by the tests.
func newReportTestConfig() *Config {
	return &Config{
		Mongo:  MongoConfig{Database: "library", Collection: "books"},
		Report: ReportConfig{PageSize: 5, PageNumber: 2, QueueSize: 32},
	}
}

// newRecordingStorage returns a mock storage where every operation
// succeeds with empty results and records its name in the given slice.
func newRecordingStorage(calls *[]string) *MockBookStorage {
	record := func(name string) { *calls = append(*calls, name) }
	return &MockBookStorage{
		AddFunc: func(_ context.Context, _ Book) error {
			record("Add")
			return nil
		},
		FindFunc: func(_ context.Context, _ Filter) ([]Book, error) {
			record("Find")
			return []Book{}, nil
		},
		FindSummariesFunc: func(_ context.Context, _ Filter) ([]BookSummary, error) {
			record("FindSummaries")
			return []BookSummary{}, nil
		},
		FindSortedFunc: func(_ context.Context, _ Filter, _ Sort) ([]Book, error) {
			record("FindSorted")
			return []Book{}, nil
		},
		FindPageFunc: func(_ context.Context, _ Filter, _ Page) ([]Book, error) {
			record("FindPage")
			return []Book{}, nil
		},
		SetPriceByTitleFunc: func(_ context.Context, _ string, _ float64) (int64, error) {
			record("SetPriceByTitle")
			return 1, nil
		},
		DeleteByTitleFunc: func(_ context.Context, _ string) (int64, error) {
			record("DeleteByTitle")
			return 1, nil
		},
		AveragePriceByGenreFunc: func(_ context.Context) ([]GenrePricing, error) {
			record("AveragePriceByGenre")
			return []GenrePricing{}, nil
		},
		MostProlificAuthorFunc: func(_ context.Context) ([]AuthorCount, error) {
			record("MostProlificAuthor")
			return []AuthorCount{}, nil
		},
		CountByDecadeFunc: func(_ context.Context) ([]DecadeCount, error) {
			record("CountByDecade")
			return []DecadeCount{}, nil
		},
		CreateTitleIndexFunc: func(_ context.Context) (string, error) {
			record("CreateTitleIndex")
			return "title_1", nil
		},
		CreateAuthorYearIndexFunc: func(_ context.Context) (string, error) {
			record("CreateAuthorYearIndex")
			return "author_1_published_year_-1", nil
		},
		ExplainFunc: func(_ context.Context, _ Filter) (ExplainReport, error) {
			record("Explain")
			return ExplainReport{WinningStage: "COLLSCAN"}, nil
		},
	}
}

// Ensure the runner executes every operation once, in source order, and
// hands one archive entry per step to the queue.
func TestReportRunnerOrder(t *testing.T) {
	calls := []string{}
	queue := &MockQueuer{}
	runner := NewReportRunner(zap.NewNop(), newReportTestConfig(), NewMockClocker(), NewMockUIDHandler("fixed", true), newRecordingStorage(&calls), queue)

	err := runner.Run(context.Background())
	require.NoError(t, err)

	expected := []string{
		"Find", "Find", "Find",
		"SetPriceByTitle", "DeleteByTitle",
		"Find", "FindSummaries",
		"FindSorted", "FindSorted", "FindPage",
		"AveragePriceByGenre", "MostProlificAuthor", "CountByDecade",
		"CreateTitleIndex", "CreateAuthorYearIndex",
		"Explain", "Explain",
	}
	assert.Equal(t, expected, calls)

	require.Len(t, queue.Entries, len(expected))
	for i, entry := range queue.Entries {
		assert.Equal(t, i+1, entry.Number)
		assert.Equal(t, "run:fixed", entry.RunID)
		assert.NotEmpty(t, entry.Outcome)
	}
	assert.True(t, queue.Closed)
}

// Ensure the runner hands the right literals to the point operations.
func TestReportRunnerLiterals(t *testing.T) {
	calls := []string{}
	storage := newRecordingStorage(&calls)

	var firstFilter Filter
	storage.FindFunc = func(_ context.Context, filter Filter) ([]Book, error) {
		if firstFilter == nil {
			firstFilter = filter
		}
		return []Book{}, nil
	}

	var updatedTitle string
	var updatedPrice float64
	storage.SetPriceByTitleFunc = func(_ context.Context, title string, price float64) (int64, error) {
		updatedTitle, updatedPrice = title, price
		return 1, nil
	}

	var deletedTitle string
	storage.DeleteByTitleFunc = func(_ context.Context, title string) (int64, error) {
		deletedTitle = title
		return 1, nil
	}

	var page Page
	storage.FindPageFunc = func(_ context.Context, _ Filter, p Page) ([]Book, error) {
		page = p
		return []Book{}, nil
	}

	runner := NewReportRunner(zap.NewNop(), newReportTestConfig(), NewMockClocker(), NewMockUIDHandler("fixed", true), storage, &MockQueuer{})
	require.NoError(t, runner.Run(context.Background()))

	assert.Equal(t, FieldEquals{Field: "genre", Value: "Fiction"}, firstFilter)
	assert.Equal(t, "1984", updatedTitle)
	assert.Equal(t, 15.99, updatedPrice)
	assert.Equal(t, "Animal Farm", deletedTitle)
	assert.Equal(t, Page{Size: 5, Number: 2}, page)
}

// Ensure the first failing step aborts the remainder of the sequence
// while the queue still gets closed for the archiver to exit.
func TestReportRunnerAbortsOnError(t *testing.T) {
	calls := []string{}
	storage := newRecordingStorage(&calls)
	storage.SetPriceByTitleFunc = func(_ context.Context, _ string, _ float64) (int64, error) {
		calls = append(calls, "SetPriceByTitle")
		return 0, errors.New("write concern error")
	}

	queue := &MockQueuer{}
	runner := NewReportRunner(zap.NewNop(), newReportTestConfig(), NewMockClocker(), NewMockUIDHandler("fixed", true), storage, queue)

	err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 4 (reprice 1984)")

	// the three reads before the failing update, nothing after.
	assert.Equal(t, []string{"Find", "Find", "Find", "SetPriceByTitle"}, calls)
	assert.Len(t, queue.Entries, 3)
	assert.True(t, queue.Closed)
}
