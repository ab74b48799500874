package pipelineRepo

import (
	"context"
	"fmt"
	"time"

	"neira/database"
	"neira/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPipelineRepo implements PipelineRepository using MongoDB.
type MongoPipelineRepo struct {
	coll *mongo.Collection
}

// NewMongoPipelineRepo creates a new instance of PipelineRepository using MongoDB.
func NewMongoPipelineRepo() PipelineRepository {
	coll := database.MongoClient.Database("neira").Collection("pipeline_states")
	repo := &MongoPipelineRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoPipelineRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Save upserts a snapshot by its session ID.
func (r *MongoPipelineRepo) Save(ctx context.Context, state *models.PipelineState) error {
	state.UpdatedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"id": state.ID}, state, opts); err != nil {
		return fmt.Errorf("failed to save pipeline state %s: %w", state.ID, err)
	}
	return nil
}

// GetByID fetches a snapshot, returning nil when none exists.
func (r *MongoPipelineRepo) GetByID(ctx context.Context, id string) (*models.PipelineState, error) {
	var state models.PipelineState
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&state); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch pipeline state %s: %w", id, err)
	}
	return &state, nil
}

// ListByUser returns all snapshots saved by a user, most recent first.
func (r *MongoPipelineRepo) ListByUser(ctx context.Context, userID string) ([]models.PipelineState, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list pipeline states for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var states []models.PipelineState
	if err := cursor.All(ctx, &states); err != nil {
		return nil, fmt.Errorf("failed to decode pipeline states: %w", err)
	}
	return states, nil
}

// Delete removes a snapshot.
func (r *MongoPipelineRepo) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete pipeline state %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("pipeline state %s not found", id)
	}
	return nil
}
