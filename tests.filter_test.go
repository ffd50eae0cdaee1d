package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

// Ensure each filter variant compiles to the exact driver document.
func TestFilterDocuments(t *testing.T) {
	t.Run("Match All", func(t *testing.T) {
		assert.Equal(t, bson.D{}, MatchAll{}.Document())
	})

	t.Run("Field Equals", func(t *testing.T) {
		f := FieldEquals{Field: "genre", Value: "Fiction"}
		assert.Equal(t, bson.D{{Key: "genre", Value: "Fiction"}}, f.Document())
	})

	t.Run("Field Greater Than", func(t *testing.T) {
		f := FieldGreaterThan{Field: "published_year", Value: 1950}
		assert.Equal(t, bson.D{{Key: "published_year", Value: bson.D{{Key: "$gt", Value: 1950}}}}, f.Document())
	})

	t.Run("All Of", func(t *testing.T) {
		f := AllOf{
			FieldEquals{Field: "in_stock", Value: true},
			FieldGreaterThan{Field: "published_year", Value: 2010},
		}
		expected := bson.D{{Key: "$and", Value: bson.A{
			bson.D{{Key: "in_stock", Value: true}},
			bson.D{{Key: "published_year", Value: bson.D{{Key: "$gt", Value: 2010}}}},
		}}}
		assert.Equal(t, expected, f.Document())
	})
}

// Ensure sort specifications carry the right direction.
func TestSortDocuments(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "price", Value: 1}}, Sort{Field: "price"}.Document())
	assert.Equal(t, bson.D{{Key: "price", Value: -1}}, Sort{Field: "price", Descending: true}.Document())
}

// Ensure the page math skips size*(number-1) documents.
func TestPageOffsets(t *testing.T) {
	assert.Equal(t, int64(0), Page{Size: 5, Number: 1}.Offset())
	assert.Equal(t, int64(5), Page{Size: 5, Number: 2}.Offset())
	assert.Equal(t, int64(20), Page{Size: 10, Number: 3}.Offset())
	assert.Equal(t, int64(5), Page{Size: 5, Number: 2}.Limit())
}
