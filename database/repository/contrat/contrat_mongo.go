package contratRepo

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

// MongoContratRepo implements ContratRepository using MongoDB.
type MongoContratRepo struct {
	coll *mongo.Collection
}

// NewMongoContratRepo creates a new instance of ContratRepository using MongoDB.
func NewMongoContratRepo() ContratRepository {
	coll := database.MongoClient.Database("neira").Collection("contrats")
	repo := &MongoContratRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoContratRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "cabinet_id", Value: 1}}},
		{Keys: bson.D{{Key: "dossier_id", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new contrat document.
func (r *MongoContratRepo) Create(contrat *models.Contrat) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	contrat.CreatedAt = now
	contrat.UpdatedAt = now
	if contrat.Status == "" {
		contrat.Status = models.ContratStatusBrouillon
	}

	if _, err := r.coll.InsertOne(ctx, contrat); err != nil {
		return fmt.Errorf("failed to create contrat: %w", err)
	}
	return nil
}

// GetByID retrieves a contrat by its unique ID. Returns nil when no contrat matches.
func (r *MongoContratRepo) GetByID(id string) (*models.Contrat, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var contrat models.Contrat
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&contrat); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch contrat with id %s: %w", id, err)
	}
	return &contrat, nil
}

// ListByCabinet returns all contrats belonging to the cabinet, newest first.
func (r *MongoContratRepo) ListByCabinet(cabinetID string) ([]models.Contrat, error) {
	return r.list(bson.M{"cabinet_id": cabinetID})
}

// ListByDossier returns all contrats attached to the dossier, newest first.
func (r *MongoContratRepo) ListByDossier(dossierID string) ([]models.Contrat, error) {
	return r.list(bson.M{"dossier_id": dossierID})
}

func (r *MongoContratRepo) list(filter bson.M) ([]models.Contrat, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list contrats: %w", err)
	}
	defer cursor.Close(ctx)

	var contrats []models.Contrat
	if err := cursor.All(ctx, &contrats); err != nil {
		return nil, fmt.Errorf("failed to decode contrats: %w", err)
	}
	return contrats, nil
}

// Update modifies an existing contrat document.
func (r *MongoContratRepo) Update(contrat *models.Contrat) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	contrat.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": contrat.ID}, bson.M{"$set": contrat})
	if err != nil {
		return fmt.Errorf("failed to update contrat with id %s: %w", contrat.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("contrat with id %s not found", contrat.ID)
	}
	return nil
}

// UpdateStatus sets only the status of a contrat.
func (r *MongoContratRepo) UpdateStatus(id, status string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update status of contrat %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("contrat with id %s not found", id)
	}
	return nil
}

// Delete removes a contrat document by its ID.
func (r *MongoContratRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete contrat with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("contrat with id %s not found", id)
	}
	return nil
}
