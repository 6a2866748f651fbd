package storage

import (
	"context"
	"fmt"

	"lever2lever/migrator/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// LeverDataCollection holds the staged source records with their sync state.
	LeverDataCollection = "leverData"
	// migrationRunsCollection holds one summary row per migration run.
	migrationRunsCollection = "migrationRuns"
)

// MongoRepository is the persisted-state gateway backed by MongoDB.
type MongoRepository struct {
	provider CollectionProvider
}

// NewMongoRepository creates a new MongoRepository.
func NewMongoRepository(provider CollectionProvider) *MongoRepository {
	return &MongoRepository{
		provider: provider,
	}
}

// FindUnsynced selects a bounded page of records not yet marked synced,
// ordered by identifier ascending. Records marked synced, successfully or
// with a logged failure, are never re-returned; that bound terminates the
// batch loop.
func (r *MongoRepository) FindUnsynced(ctx context.Context, limit int64) ([]model.Record, error) {
	collection := r.provider.Collection(LeverDataCollection)

	findOptions := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(limit)

	cursor, err := collection.Find(ctx, bson.M{"isSynced": false}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to query unsynced records: %w", err)
	}

	var records []model.Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode unsynced records: %w", err)
	}

	return records, nil
}

// Save writes the mutable sync fields of one record back to the store. Only
// the sync fields are written; the captured record data is never rewritten.
func (r *MongoRepository) Save(ctx context.Context, record *model.Record) error {
	collection := r.provider.Collection(LeverDataCollection)

	update := bson.M{"$set": bson.M{
		"isSynced":         record.IsSynced,
		"hasError":         record.HasError,
		"failureLog":       record.FailureLog,
		"targetOppLeverId": record.TargetOppLeverID,
		"noteId":           record.NoteID,
		"migrateDate":      record.MigrateDate,
		"resumeUrl":        record.ResumeURLs,
		"otherFileUrls":    record.OtherFileURLs,
	}}

	_, err := collection.UpdateOne(ctx, bson.M{"_id": record.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to save record %d: %w", record.ID, err)
	}

	return nil
}

// SaveAll writes the sync fields of every given record.
func (r *MongoRepository) SaveAll(ctx context.Context, records []*model.Record) error {
	for _, record := range records {
		if err := r.Save(ctx, record); err != nil {
			return err
		}
	}

	return nil
}

// LogRun records one migration run summary.
func (r *MongoRepository) LogRun(ctx context.Context, entry model.RunLog) error {
	collection := r.provider.Collection(migrationRunsCollection)

	_, err := collection.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to insert into migrationRuns collection: %w", err)
	}

	return nil
}
