package main

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ExplainReport carries the execution plan details of one explained query.
// The raw server output is kept as-is; the named fields are the only parts
// the report renders.
type ExplainReport struct {
	WinningStage  string
	DocsExamined  int64
	ReturnedCount int64
	Raw           bson.M
}

type mongoBookStorage struct {
	logger *zap.Logger
	db     *mongo.Database
	coll   *mongo.Collection
}

// GetMongoClient provides a ready to use mongodb client. A client whose
// test connection failed is disconnected here, never handed to the caller.
func GetMongoClient(ctx context.Context, config *Config) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(config.Mongo.URI).
		SetConnectTimeout(config.Mongo.ConnectTimeout).
		SetServerSelectionTimeout(config.Mongo.ConnectTimeout))
	if err != nil {
		return nil, err
	}

	// test connection.
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		dCtx, dCancel := context.WithTimeout(context.Background(), config.Mongo.CloseTimeout)
		defer dCancel()
		if derr := client.Disconnect(dCtx); derr != nil {
			return nil, fmt.Errorf("test connection failed: %v: and failed to disconnect: %v", err, derr)
		}
		return nil, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// NewMongoBookStorage provides an instance of mongodb-based book storage.
func NewMongoBookStorage(logger *zap.Logger, client *mongo.Client, database, collection string) BookStorage {
	db := client.Database(database)
	return &mongoBookStorage{
		logger: logger,
		db:     db,
		coll:   db.Collection(collection),
	}
}

// Add inserts a new book document.
func (ms *mongoBookStorage) Add(ctx context.Context, book Book) error {
	_, err := ms.coll.InsertOne(ctx, book)
	return err
}

// Find retrieves all books matching the filter.
func (ms *mongoBookStorage) Find(ctx context.Context, filter Filter) ([]Book, error) {
	return ms.findBooks(ctx, filter)
}

// FindSummaries retrieves matching books restricted to title, author and
// price, with the document identity left out.
func (ms *mongoBookStorage) FindSummaries(ctx context.Context, filter Filter) ([]BookSummary, error) {
	projection := bson.D{{Key: "_id", Value: 0}, {Key: "title", Value: 1}, {Key: "author", Value: 1}, {Key: "price", Value: 1}}
	cursor, err := ms.coll.Find(ctx, filter.Document(), options.Find().SetProjection(projection))
	if err != nil {
		return nil, err
	}
	summaries := []BookSummary{}
	if err = cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// FindSorted retrieves matching books in the requested order.
func (ms *mongoBookStorage) FindSorted(ctx context.Context, filter Filter, sort Sort) ([]Book, error) {
	return ms.findBooks(ctx, filter, options.Find().SetSort(sort.Document()))
}

// FindPage retrieves one page of the matching books under natural order.
func (ms *mongoBookStorage) FindPage(ctx context.Context, filter Filter, page Page) ([]Book, error) {
	return ms.findBooks(ctx, filter, options.Find().SetSkip(page.Offset()).SetLimit(page.Limit()))
}

func (ms *mongoBookStorage) findBooks(ctx context.Context, filter Filter, opts ...*options.FindOptions) ([]Book, error) {
	cursor, err := ms.coll.Find(ctx, filter.Document(), opts...)
	if err != nil {
		return nil, err
	}
	books := []Book{}
	if err = cursor.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// SetPriceByTitle sets the price of the book carrying the given title and
// reports how many documents were effectively modified.
func (ms *mongoBookStorage) SetPriceByTitle(ctx context.Context, title string, price float64) (int64, error) {
	result, err := ms.coll.UpdateOne(ctx,
		FieldEquals{Field: "title", Value: title}.Document(),
		bson.D{{Key: "$set", Value: bson.D{{Key: "price", Value: price}}}})
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// DeleteByTitle removes the book carrying the given title and reports how
// many documents were effectively removed.
func (ms *mongoBookStorage) DeleteByTitle(ctx context.Context, title string) (int64, error) {
	result, err := ms.coll.DeleteOne(ctx, FieldEquals{Field: "title", Value: title}.Document())
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// AveragePriceByGenre computes the average book price of each genre,
// most expensive genre first.
func (ms *mongoBookStorage) AveragePriceByGenre(ctx context.Context) ([]GenrePricing, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$genre"},
			{Key: "avgPrice", Value: bson.D{{Key: "$avg", Value: "$price"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "avgPrice", Value: -1}}}},
	}
	rows := []GenrePricing{}
	if err := ms.aggregate(ctx, pipeline, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// MostProlificAuthor returns the single author with the highest number of
// books. When several authors share the maximum, the server's group
// ordering decides which one is kept.
func (ms *mongoBookStorage) MostProlificAuthor(ctx context.Context) ([]AuthorCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$author"},
			{Key: "bookCount", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "bookCount", Value: -1}}}},
		{{Key: "$limit", Value: 1}},
	}
	rows := []AuthorCount{}
	if err := ms.aggregate(ctx, pipeline, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByDecade counts books per publication decade. The decade key is
// built server-side as `published_year - (published_year mod 10)` with a
// literal "s" suffix, so the ascending sort is on the string key.
func (ms *mongoBookStorage) CountByDecade(ctx context.Context) ([]DecadeCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$concat", Value: bson.A{
				bson.D{{Key: "$toString", Value: bson.D{{Key: "$subtract", Value: bson.A{
					"$published_year",
					bson.D{{Key: "$mod", Value: bson.A{"$published_year", 10}}},
				}}}}},
				"s",
			}}}},
			{Key: "bookCount", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	rows := []DecadeCount{}
	if err := ms.aggregate(ctx, pipeline, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (ms *mongoBookStorage) aggregate(ctx context.Context, pipeline mongo.Pipeline, rows interface{}) error {
	cursor, err := ms.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	return cursor.All(ctx, rows)
}

// CreateTitleIndex creates an ascending index on the title field and
// returns the server-assigned index name.
func (ms *mongoBookStorage) CreateTitleIndex(ctx context.Context) (string, error) {
	return ms.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "title", Value: 1}},
	})
}

// CreateAuthorYearIndex creates a compound index on author ascending and
// published_year descending and returns the server-assigned index name.
func (ms *mongoBookStorage) CreateAuthorYearIndex(ctx context.Context) (string, error) {
	return ms.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "author", Value: 1}, {Key: "published_year", Value: -1}},
	})
}

// Explain asks the server for the execution statistics of a find carrying
// the given filter. The plan is reported, not interpreted.
func (ms *mongoBookStorage) Explain(ctx context.Context, filter Filter) (ExplainReport, error) {
	command := bson.D{
		{Key: "explain", Value: bson.D{
			{Key: "find", Value: ms.coll.Name()},
			{Key: "filter", Value: filter.Document()},
		}},
		{Key: "verbosity", Value: "executionStats"},
	}
	var raw bson.M
	err := ms.db.RunCommand(ctx, command, options.RunCmd().SetReadPreference(readpref.Primary())).Decode(&raw)
	if err != nil {
		return ExplainReport{}, err
	}

	report := ExplainReport{Raw: raw}
	if planner, ok := raw["queryPlanner"].(bson.M); ok {
		if plan, ok := planner["winningPlan"].(bson.M); ok {
			report.WinningStage, _ = plan["stage"].(string)
		}
	}
	if stats, ok := raw["executionStats"].(bson.M); ok {
		report.DocsExamined = toInt64(stats["totalDocsExamined"])
		report.ReturnedCount = toInt64(stats["nReturned"])
	}
	return report, nil
}

// toInt64 normalizes the numeric types the server may use in explain output.
func toInt64(value interface{}) int64 {
	switch v := value.(type) {
	case int32:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}
