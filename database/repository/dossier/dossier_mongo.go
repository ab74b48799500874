package dossierRepo

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

// MongoDossierRepo implements DossierRepository using MongoDB.
type MongoDossierRepo struct {
	coll *mongo.Collection
}

// NewMongoDossierRepo creates a new instance of DossierRepository using MongoDB.
func NewMongoDossierRepo() DossierRepository {
	coll := database.MongoClient.Database("neira").Collection("dossiers")
	repo := &MongoDossierRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoDossierRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "cabinet_id", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new dossier document.
func (r *MongoDossierRepo) Create(dossier *models.Dossier) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	dossier.CreatedAt = now
	dossier.UpdatedAt = now
	if dossier.Status == "" {
		dossier.Status = "ouvert"
	}

	if _, err := r.coll.InsertOne(ctx, dossier); err != nil {
		return fmt.Errorf("failed to create dossier: %w", err)
	}
	return nil
}

// GetByID retrieves a dossier by its unique ID. Returns nil when no dossier matches.
func (r *MongoDossierRepo) GetByID(id string) (*models.Dossier, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var dossier models.Dossier
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&dossier); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch dossier with id %s: %w", id, err)
	}
	return &dossier, nil
}

// ListByCabinet returns all dossiers belonging to the cabinet, newest first.
func (r *MongoDossierRepo) ListByCabinet(cabinetID string) ([]models.Dossier, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"cabinet_id": cabinetID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list dossiers of cabinet %s: %w", cabinetID, err)
	}
	defer cursor.Close(ctx)

	var dossiers []models.Dossier
	if err := cursor.All(ctx, &dossiers); err != nil {
		return nil, fmt.Errorf("failed to decode dossiers: %w", err)
	}
	return dossiers, nil
}

// Update modifies an existing dossier document.
func (r *MongoDossierRepo) Update(dossier *models.Dossier) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	dossier.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": dossier.ID}, bson.M{"$set": dossier})
	if err != nil {
		return fmt.Errorf("failed to update dossier with id %s: %w", dossier.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("dossier with id %s not found", dossier.ID)
	}
	return nil
}

// AddDocument appends an uploaded document to the dossier.
func (r *MongoDossierRepo) AddDocument(dossierID string, doc models.Document) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"documents": doc},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": dossierID}, update)
	if err != nil {
		return fmt.Errorf("failed to add document to dossier %s: %w", dossierID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("dossier with id %s not found", dossierID)
	}
	return nil
}

// RemoveDocument removes a document entry from the dossier.
func (r *MongoDossierRepo) RemoveDocument(dossierID, documentID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{
		"$pull": bson.M{"documents": bson.M{"id": documentID}},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": dossierID}, update)
	if err != nil {
		return fmt.Errorf("failed to remove document %s from dossier %s: %w", documentID, dossierID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("dossier with id %s not found", dossierID)
	}
	return nil
}

// Delete removes a dossier document by its ID.
func (r *MongoDossierRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete dossier with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("dossier with id %s not found", id)
	}
	return nil
}
