package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pawtracker/pet-care-api/models"
)

type refundRepo struct {
	col *mongo.Collection
}

func (r *refundRepo) Create(ctx context.Context, refund *models.Refund) error {
	result, err := r.col.InsertOne(ctx, refund)
	if err != nil {
		return err
	}
	refund.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *refundRepo) All(ctx context.Context) ([]models.Refund, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var refunds []models.Refund
	if err = cursor.All(ctx, &refunds); err != nil {
		return nil, err
	}
	return refunds, nil
}

func (r *refundRepo) ByID(ctx context.Context, id primitive.ObjectID) (*models.Refund, error) {
	var refund models.Refund
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&refund)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &refund, nil
}

func (r *refundRepo) ByEmail(ctx context.Context, email string) ([]models.Refund, error) {
	cursor, err := r.col.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var refunds []models.Refund
	if err = cursor.All(ctx, &refunds); err != nil {
		return nil, err
	}
	return refunds, nil
}

func (r *refundRepo) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	result, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
