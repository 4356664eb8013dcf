package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/domain"
)

// CollectionName is where coverage runs are stored
const CollectionName = "coverage_runs"

// RunRepository implements domain.RunRepository on a MongoDB collection.
// Runs are stored whole, keyed by their ID, with an index on createdAt.
type RunRepository struct {
	client *mongo.Client
	runs   *mongo.Collection
}

// NewRunRepository connects to uri and prepares the runs collection in database db
func NewRunRepository(ctx context.Context, uri, db string) (*RunRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	repo := &RunRepository{
		client: client,
		runs:   client.Database(db).Collection(CollectionName),
	}

	if _, err := repo.runs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	}); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return repo, nil
}

// SaveRun upserts a run by ID
func (r *RunRepository) SaveRun(ctx context.Context, run *domain.CoverageRun) error {
	_, err := r.runs.ReplaceOne(ctx, bson.M{"_id": run.ID}, run, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID
func (r *RunRepository) GetRun(ctx context.Context, id string) (*domain.CoverageRun, error) {
	var run domain.CoverageRun
	if err := r.runs.FindOne(ctx, bson.M{"_id": id}).Decode(&run); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to find run: %w", err)
	}
	return &run, nil
}

// GetRunsInRange returns all runs created within [start, end), oldest first
func (r *RunRepository) GetRunsInRange(ctx context.Context, start, end time.Time) ([]*domain.CoverageRun, error) {
	filter := bson.M{"createdAt": bson.M{"$gte": start, "$lt": end}}
	cur, err := r.runs.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer cur.Close(ctx)

	var runs []*domain.CoverageRun
	if err := cur.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("failed to decode runs: %w", err)
	}
	return runs, nil
}

// GetLatestRun returns the most recent run
func (r *RunRepository) GetLatestRun(ctx context.Context) (*domain.CoverageRun, error) {
	var run domain.CoverageRun
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if err := r.runs.FindOne(ctx, bson.M{}, opts).Decode(&run); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to find latest run: %w", err)
	}
	return &run, nil
}

// DeleteOldRuns removes runs older than specified duration
func (r *RunRepository) DeleteOldRuns(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	if _, err := r.runs.DeleteMany(ctx, bson.M{"createdAt": bson.M{"$lt": cutoff}}); err != nil {
		return fmt.Errorf("failed to delete old runs: %w", err)
	}
	return nil
}

// Close disconnects the client
func (r *RunRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
