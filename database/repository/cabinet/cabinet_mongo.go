package cabinetRepo

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

// MongoCabinetRepo implements CabinetRepository using MongoDB. Cabinets and
// their members live in two collections of the same database.
type MongoCabinetRepo struct {
	cabinets *mongo.Collection
	members  *mongo.Collection
}

// NewMongoCabinetRepo creates a new instance of CabinetRepository using MongoDB.
func NewMongoCabinetRepo() CabinetRepository {
	db := database.MongoClient.Database("neira")
	repo := &MongoCabinetRepo{
		cabinets: db.Collection("cabinets"),
		members:  db.Collection("cabinet_members"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoCabinetRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if _, err := r.cabinets.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create cabinet indexes: %w", err)
	}

	memberIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "cabinet_id", Value: 1}, {Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "invitation_token", Value: 1}}, Options: options.Index().SetSparse(true)},
	}
	if _, err := r.members.Indexes().CreateMany(ctx, memberIndexes); err != nil {
		return fmt.Errorf("failed to create member indexes: %w", err)
	}
	return nil
}

// Create inserts a new cabinet document.
func (r *MongoCabinetRepo) Create(cabinet *models.Cabinet) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	cabinet.CreatedAt = now
	cabinet.UpdatedAt = now

	if _, err := r.cabinets.InsertOne(ctx, cabinet); err != nil {
		return fmt.Errorf("failed to create cabinet: %w", err)
	}
	return nil
}

// GetByID retrieves a cabinet by its unique ID.
func (r *MongoCabinetRepo) GetByID(id string) (*models.Cabinet, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var cabinet models.Cabinet
	if err := r.cabinets.FindOne(ctx, bson.M{"id": id}).Decode(&cabinet); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch cabinet with id %s: %w", id, err)
	}
	return &cabinet, nil
}

// Update modifies an existing cabinet document.
func (r *MongoCabinetRepo) Update(cabinet *models.Cabinet) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	cabinet.UpdatedAt = time.Now()
	result, err := r.cabinets.UpdateOne(ctx, bson.M{"id": cabinet.ID}, bson.M{"$set": cabinet})
	if err != nil {
		return fmt.Errorf("failed to update cabinet with id %s: %w", cabinet.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("cabinet with id %s not found", cabinet.ID)
	}
	return nil
}

// UpdateSetDocument applies a partial $set update to a cabinet document.
func (r *MongoCabinetRepo) UpdateSetDocument(id string, updateDoc bson.M) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.cabinets.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": updateDoc})
	if err != nil {
		return fmt.Errorf("failed to update cabinet with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("cabinet with id %s not found", id)
	}
	return nil
}

// Delete removes a cabinet and all of its member documents.
func (r *MongoCabinetRepo) Delete(id string) error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	result, err := r.cabinets.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete cabinet with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("cabinet with id %s not found", id)
	}
	if _, err := r.members.DeleteMany(ctx, bson.M{"cabinet_id": id}); err != nil {
		return fmt.Errorf("failed to delete members of cabinet %s: %w", id, err)
	}
	return nil
}

// AddMember inserts a new membership document.
func (r *MongoCabinetRepo) AddMember(member *models.CabinetMember) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	member.CreatedAt = now
	member.UpdatedAt = now

	if _, err := r.members.InsertOne(ctx, member); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// GetMember retrieves a membership by cabinet and user.
func (r *MongoCabinetRepo) GetMember(cabinetID, userID string) (*models.CabinetMember, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var member models.CabinetMember
	filter := bson.M{"cabinet_id": cabinetID, "user_id": userID}
	if err := r.members.FindOne(ctx, filter).Decode(&member); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch member: %w", err)
	}
	return &member, nil
}

// GetMemberByID retrieves a membership by its unique ID.
func (r *MongoCabinetRepo) GetMemberByID(memberID string) (*models.CabinetMember, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var member models.CabinetMember
	if err := r.members.FindOne(ctx, bson.M{"id": memberID}).Decode(&member); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch member with id %s: %w", memberID, err)
	}
	return &member, nil
}

// GetMemberByInvitationToken retrieves a pending membership by its token.
func (r *MongoCabinetRepo) GetMemberByInvitationToken(token string) (*models.CabinetMember, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var member models.CabinetMember
	if err := r.members.FindOne(ctx, bson.M{"invitation_token": token}).Decode(&member); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch member by invitation token: %w", err)
	}
	return &member, nil
}

// ListMembers returns all members of a cabinet.
func (r *MongoCabinetRepo) ListMembers(cabinetID string) ([]models.CabinetMember, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.members.Find(ctx, bson.M{"cabinet_id": cabinetID})
	if err != nil {
		return nil, fmt.Errorf("failed to list members of cabinet %s: %w", cabinetID, err)
	}
	defer cursor.Close(ctx)

	var members []models.CabinetMember
	if err := cursor.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("failed to decode members: %w", err)
	}
	return members, nil
}

// UpdateMember modifies an existing membership document.
func (r *MongoCabinetRepo) UpdateMember(member *models.CabinetMember) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	member.UpdatedAt = time.Now()
	result, err := r.members.UpdateOne(ctx, bson.M{"id": member.ID}, bson.M{"$set": member})
	if err != nil {
		return fmt.Errorf("failed to update member with id %s: %w", member.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("member with id %s not found", member.ID)
	}
	return nil
}

// RemoveMember deletes a membership document.
func (r *MongoCabinetRepo) RemoveMember(memberID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.members.DeleteOne(ctx, bson.M{"id": memberID})
	if err != nil {
		return fmt.Errorf("failed to remove member with id %s: %w", memberID, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("member with id %s not found", memberID)
	}
	return nil
}

// CountActiveMembers counts the active members of a cabinet, used for
// subscription seat quantity updates.
func (r *MongoCabinetRepo) CountActiveMembers(cabinetID string) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	count, err := r.members.CountDocuments(ctx, bson.M{
		"cabinet_id": cabinetID,
		"status":     models.MemberStatusActive,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count members of cabinet %s: %w", cabinetID, err)
	}
	return count, nil
}
