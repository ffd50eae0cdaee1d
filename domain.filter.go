package main

import "go.mongodb.org/mongo-driver/bson"

// Filter is a typed query predicate. Each variant compiles itself into
// the driver document handed to the collection, so the shape of every
// filter the report sends is checked at compile time instead of being
// assembled from freeform maps at call sites.
type Filter interface {
	Document() bson.D
}

// Ensure all filter variants implement Filter.
var (
	_ Filter = MatchAll{}
	_ Filter = FieldEquals{}
	_ Filter = FieldGreaterThan{}
	_ Filter = AllOf{}
)

// MatchAll selects every document of the collection.
type MatchAll struct{}

func (MatchAll) Document() bson.D { return bson.D{} }

// FieldEquals selects documents whose field holds exactly the given value.
type FieldEquals struct {
	Field string
	Value interface{}
}

func (f FieldEquals) Document() bson.D {
	return bson.D{{Key: f.Field, Value: f.Value}}
}

// FieldGreaterThan selects documents whose field holds a value strictly
// greater than the given one.
type FieldGreaterThan struct {
	Field string
	Value interface{}
}

func (f FieldGreaterThan) Document() bson.D {
	return bson.D{{Key: f.Field, Value: bson.D{{Key: "$gt", Value: f.Value}}}}
}

// AllOf combines its filters with a logical AND.
type AllOf []Filter

func (f AllOf) Document() bson.D {
	clauses := bson.A{}
	for _, sub := range f {
		clauses = append(clauses, sub.Document())
	}
	return bson.D{{Key: "$and", Value: clauses}}
}

// Sort orders results on a single field. Ties keep natural storage order.
type Sort struct {
	Field      string
	Descending bool
}

func (s Sort) Document() bson.D {
	order := 1
	if s.Descending {
		order = -1
	}
	return bson.D{{Key: s.Field, Value: order}}
}

// Page selects one slice of the result set. Numbering starts at 1.
type Page struct {
	Size   int
	Number int
}

// Offset returns the number of documents to skip before the page starts.
func (p Page) Offset() int64 {
	return int64(p.Size) * int64(p.Number-1)
}

// Limit returns the maximum number of documents the page holds.
func (p Page) Limit() int64 {
	return int64(p.Size)
}
