package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"voterdata-service/internal/domain/entity"
	"voterdata-service/internal/domain/repository"
)

const searchResultLimit = 100

// MongoVoterRepository implements the VoterRepository interface
type MongoVoterRepository struct {
	collection *mongo.Collection
}

// NewMongoVoterRepository creates a new MongoDB voter repository. Index
// creation is idempotent; none of the indexes carries a uniqueness
// constraint because no voter field is globally unique in the source data.
func NewMongoVoterRepository(db *mongo.Database) repository.VoterRepository {
	collection := db.Collection("voterdata")

	ctx := context.Background()

	// Text search over both name scripts
	textIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "name", Value: "text"},
			{Key: "name_mr", Value: "text"},
		},
	}

	// Single-field lookup indexes
	serialIndex := mongo.IndexModel{Keys: bson.M{"serialNumber": 1}}
	epicIndex := mongo.IndexModel{Keys: bson.M{"voterIdCard": 1}}
	mobileIndex := mongo.IndexModel{Keys: bson.M{"mobileNumber": 1}}
	houseIndex := mongo.IndexModel{Keys: bson.M{"houseNumber": 1}}

	// Newest-first listing
	createdAtIndex := mongo.IndexModel{Keys: bson.M{"createdAt": -1}}

	// Constituency-scoped queries
	constituencyIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "AC_NO", Value: 1},
			{Key: "PART_NO", Value: 1},
		},
	}

	nameIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "name", Value: 1},
			{Key: "name_mr", Value: 1},
		},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		textIndex,
		serialIndex,
		epicIndex,
		mobileIndex,
		houseIndex,
		createdAtIndex,
		constituencyIndex,
		nameIndex,
	})

	return &MongoVoterRepository{
		collection: collection,
	}
}

// BulkInsert writes records as one unordered InsertMany. Duplicates against
// existing records are not filtered; source files are re-issued full
// extracts and repeat uploads are tolerated. A rejected document surfaces as
// a per-index failure without blocking its siblings.
func (r *MongoVoterRepository) BulkInsert(ctx context.Context, records []*entity.VoterRecord) (*repository.BulkOutcome, error) {
	if len(records) == 0 {
		return &repository.BulkOutcome{}, nil
	}

	now := time.Now()
	docs := make([]interface{}, 0, len(records))
	for _, record := range records {
		if record.ID == "" {
			record.ID = primitive.NewObjectID().Hex()
		}
		record.CreatedAt = now
		record.UpdatedAt = now
		docs = append(docs, record)
	}

	outcome := &repository.BulkOutcome{}
	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		var bulkErr mongo.BulkWriteException
		if !errors.As(err, &bulkErr) {
			return nil, err
		}
		for _, we := range bulkErr.WriteErrors {
			outcome.Failures = append(outcome.Failures, repository.BulkFailure{
				Index:   we.Index,
				Message: we.Message,
			})
		}
	}
	outcome.Inserted = len(records) - len(outcome.Failures)

	return outcome, nil
}

// FindByID finds a voter record by its hex id
func (r *MongoVoterRepository) FindByID(ctx context.Context, id string) (*entity.VoterRecord, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, fmt.Errorf("%w: invalid id %q", entity.ErrBadRequest, id)
	}

	var record entity.VoterRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindAll lists voter records newest first. page is 1-based.
func (r *MongoVoterRepository) FindAll(ctx context.Context, page, limit int) ([]*entity.VoterRecord, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := make([]*entity.VoterRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Search runs a ranked $text search over name/name_mr, then unions in
// case-insensitive prefix matches on the identifier fields. Text hits come
// first; duplicates are dropped by id.
func (r *MongoVoterRepository) Search(ctx context.Context, query string) ([]*entity.VoterRecord, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", entity.ErrBadRequest)
	}

	results := make([]*entity.VoterRecord, 0)
	seen := make(map[string]bool)

	textOpts := options.Find().
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSort(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetLimit(searchResultLimit)

	cursor, err := r.collection.Find(ctx, bson.M{"$text": bson.M{"$search": query}}, textOpts)
	if err != nil {
		return nil, err
	}
	var textHits []*entity.VoterRecord
	if err := cursor.All(ctx, &textHits); err != nil {
		return nil, err
	}
	for _, hit := range textHits {
		seen[hit.ID] = true
		results = append(results, hit)
	}

	prefix := primitive.Regex{Pattern: "^" + regexp.QuoteMeta(query), Options: "i"}
	idFilter := bson.M{"$or": []bson.M{
		{"serialNumber": prefix},
		{"voterIdCard": prefix},
		{"mobileNumber": prefix},
	}}

	cursor, err = r.collection.Find(ctx, idFilter, options.Find().SetLimit(searchResultLimit))
	if err != nil {
		return nil, err
	}
	var idHits []*entity.VoterRecord
	if err := cursor.All(ctx, &idHits); err != nil {
		return nil, err
	}
	for _, hit := range idHits {
		if seen[hit.ID] {
			continue
		}
		results = append(results, hit)
	}

	return results, nil
}

// DeleteAll wipes the collection and reports how many records were removed.
// Deleting an already-empty collection returns zero.
func (r *MongoVoterRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
