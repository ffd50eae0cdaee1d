package main

import "context"

// Book represents a book document as stored in the collection.
type Book struct {
	Title         string  `bson:"title" json:"title"`
	Author        string  `bson:"author" json:"author"`
	Genre         string  `bson:"genre" json:"genre"`
	PublishedYear int     `bson:"published_year" json:"publishedYear"`
	Price         float64 `bson:"price" json:"price"`
	InStock       bool    `bson:"in_stock" json:"inStock"`
}

// BookSummary is the trimmed view of a book returned by projected finds.
type BookSummary struct {
	Title  string  `bson:"title" json:"title"`
	Author string  `bson:"author" json:"author"`
	Price  float64 `bson:"price" json:"price"`
}

// GenrePricing is one row of the average price per genre aggregation.
type GenrePricing struct {
	Genre        string  `bson:"_id" json:"genre"`
	AveragePrice float64 `bson:"avgPrice" json:"averagePrice"`
}

// AuthorCount is one row of the books per author aggregation.
type AuthorCount struct {
	Author    string `bson:"_id" json:"author"`
	BookCount int64  `bson:"bookCount" json:"bookCount"`
}

// DecadeCount is one row of the books per decade aggregation. The
// decade is a string key like "1940s" so its ordering is lexicographic.
type DecadeCount struct {
	Decade    string `bson:"_id" json:"decade"`
	BookCount int64  `bson:"bookCount" json:"bookCount"`
}

// BookStorage defines possible operations on the books collection.
type BookStorage interface {
	Add(ctx context.Context, book Book) error
	Find(ctx context.Context, filter Filter) ([]Book, error)
	FindSummaries(ctx context.Context, filter Filter) ([]BookSummary, error)
	FindSorted(ctx context.Context, filter Filter, sort Sort) ([]Book, error)
	FindPage(ctx context.Context, filter Filter, page Page) ([]Book, error)
	SetPriceByTitle(ctx context.Context, title string, price float64) (int64, error)
	DeleteByTitle(ctx context.Context, title string) (int64, error)
	AveragePriceByGenre(ctx context.Context) ([]GenrePricing, error)
	MostProlificAuthor(ctx context.Context) ([]AuthorCount, error)
	CountByDecade(ctx context.Context) ([]DecadeCount, error)
	CreateTitleIndex(ctx context.Context) (string, error)
	CreateAuthorYearIndex(ctx context.Context) (string, error)
	Explain(ctx context.Context, filter Filter) (ExplainReport, error)
}
