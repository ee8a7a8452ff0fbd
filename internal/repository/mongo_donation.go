package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/givebridge/givebridge/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDonationRepository struct {
	collection *mongo.Collection
}

func NewMongoDonationRepository(db *mongo.Database) *MongoDonationRepository {
	coll := db.Collection("donations")

	// Create Index
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mod := mongo.IndexModel{
		Keys: bson.D{{Key: "available", Value: 1}, {Key: "created_at", Value: -1}},
	}
	coll.Indexes().CreateOne(ctx, mod)

	return &MongoDonationRepository{
		collection: coll,
	}
}

func (r *MongoDonationRepository) Insert(ctx context.Context, donation *domain.Donation) error {
	donation.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, donation)
	if err != nil {
		return fmt.Errorf("failed to insert donation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		donation.ID = oid.Hex()
	}
	return nil
}

func (r *MongoDonationRepository) FindAvailable(ctx context.Context) ([]*domain.Donation, error) {
	return r.find(ctx, bson.M{"available": true})
}

func (r *MongoDonationRepository) FindAll(ctx context.Context) ([]*domain.Donation, error) {
	return r.find(ctx, bson.M{})
}

// find returns donations newest first. The _id tiebreak keeps the order
// stable when two documents share a created_at millisecond.
func (r *MongoDonationRepository) find(ctx context.Context, query bson.M) ([]*domain.Donation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	defer cursor.Close(ctx)

	donations := []*domain.Donation{}
	if err := cursor.All(ctx, &donations); err != nil {
		return nil, fmt.Errorf("failed to decode donations: %w", err)
	}
	return donations, nil
}

func (r *MongoDonationRepository) FindByID(ctx context.Context, id string) (*domain.Donation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var donation domain.Donation
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&donation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find donation: %w", err)
	}
	return &donation, nil
}

func (r *MongoDonationRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	update := bson.M{"$set": bson.M{"available": available}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update donation: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoDonationRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete donation: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
