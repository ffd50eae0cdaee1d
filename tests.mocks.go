package main

import (
	"context"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

type MockBookStorage struct {
	AddFunc                   func(ctx context.Context, book Book) error
	FindFunc                  func(ctx context.Context, filter Filter) ([]Book, error)
	FindSummariesFunc         func(ctx context.Context, filter Filter) ([]BookSummary, error)
	FindSortedFunc            func(ctx context.Context, filter Filter, sort Sort) ([]Book, error)
	FindPageFunc              func(ctx context.Context, filter Filter, page Page) ([]Book, error)
	SetPriceByTitleFunc       func(ctx context.Context, title string, price float64) (int64, error)
	DeleteByTitleFunc         func(ctx context.Context, title string) (int64, error)
	AveragePriceByGenreFunc   func(ctx context.Context) ([]GenrePricing, error)
	MostProlificAuthorFunc    func(ctx context.Context) ([]AuthorCount, error)
	CountByDecadeFunc         func(ctx context.Context) ([]DecadeCount, error)
	CreateTitleIndexFunc      func(ctx context.Context) (string, error)
	CreateAuthorYearIndexFunc func(ctx context.Context) (string, error)
	ExplainFunc               func(ctx context.Context, filter Filter) (ExplainReport, error)
}

// Add mocks the behavior of book insertion by the repository.
func (m *MockBookStorage) Add(ctx context.Context, book Book) error {
	return m.AddFunc(ctx, book)
}

// Find mocks the behavior of a filtered find by the repository.
func (m *MockBookStorage) Find(ctx context.Context, filter Filter) ([]Book, error) {
	return m.FindFunc(ctx, filter)
}

// FindSummaries mocks the behavior of a projected find by the repository.
func (m *MockBookStorage) FindSummaries(ctx context.Context, filter Filter) ([]BookSummary, error) {
	return m.FindSummariesFunc(ctx, filter)
}

// FindSorted mocks the behavior of a sorted find by the repository.
func (m *MockBookStorage) FindSorted(ctx context.Context, filter Filter, sort Sort) ([]Book, error) {
	return m.FindSortedFunc(ctx, filter, sort)
}

// FindPage mocks the behavior of a paginated find by the repository.
func (m *MockBookStorage) FindPage(ctx context.Context, filter Filter, page Page) ([]Book, error) {
	return m.FindPageFunc(ctx, filter, page)
}

// SetPriceByTitle mocks the behavior of the point update by the repository.
func (m *MockBookStorage) SetPriceByTitle(ctx context.Context, title string, price float64) (int64, error) {
	return m.SetPriceByTitleFunc(ctx, title, price)
}

// DeleteByTitle mocks the behavior of the point delete by the repository.
func (m *MockBookStorage) DeleteByTitle(ctx context.Context, title string) (int64, error) {
	return m.DeleteByTitleFunc(ctx, title)
}

// AveragePriceByGenre mocks the genre pricing aggregation.
func (m *MockBookStorage) AveragePriceByGenre(ctx context.Context) ([]GenrePricing, error) {
	return m.AveragePriceByGenreFunc(ctx)
}

// MostProlificAuthor mocks the books per author aggregation.
func (m *MockBookStorage) MostProlificAuthor(ctx context.Context) ([]AuthorCount, error) {
	return m.MostProlificAuthorFunc(ctx)
}

// CountByDecade mocks the books per decade aggregation.
func (m *MockBookStorage) CountByDecade(ctx context.Context) ([]DecadeCount, error) {
	return m.CountByDecadeFunc(ctx)
}

// CreateTitleIndex mocks the title index creation.
func (m *MockBookStorage) CreateTitleIndex(ctx context.Context) (string, error) {
	return m.CreateTitleIndexFunc(ctx)
}

// CreateAuthorYearIndex mocks the compound index creation.
func (m *MockBookStorage) CreateAuthorYearIndex(ctx context.Context) (string, error) {
	return m.CreateAuthorYearIndexFunc(ctx)
}

// Explain mocks the execution stats retrieval.
func (m *MockBookStorage) Explain(ctx context.Context, filter Filter) (ExplainReport, error) {
	return m.ExplainFunc(ctx, filter)
}

// MockQueuer implements a fake Queuer recording pushed entries.
type MockQueuer struct {
	Entries []ReportEntry
	Closed  bool
	PushErr error
}

// Push records the pushed entry or returns the configured error.
func (m *MockQueuer) Push(_ context.Context, entry ReportEntry) error {
	if m.PushErr != nil {
		return m.PushErr
	}
	m.Entries = append(m.Entries, entry)
	return nil
}

// Pop is not used by the runner tests.
func (m *MockQueuer) Pop(_ context.Context) (ReportEntry, error) {
	return ReportEntry{}, ErrQueueClosed
}

// Close records that the runner marked the end of the run.
func (m *MockQueuer) Close() {
	m.Closed = true
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
// equals to `2023-07-02 00:00:00 +0000 UTC` in String format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

// IsValid mocks IsValid behavior by providing configured status.
func (muid *MockUIDHandler) IsValid(_, _ string) bool {
	return muid.Valid
}
