package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pawtracker/pet-care-api/models"
)

type notificationRepo struct {
	col *mongo.Collection
}

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	result, err := r.col.InsertOne(ctx, n)
	if err != nil {
		return err
	}
	n.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *notificationRepo) ByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	var n models.Notification
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepo) ByEmail(ctx context.Context, email string) ([]models.Notification, error) {
	cursor, err := r.col.Find(ctx, bson.M{"email": email}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isRead": true}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, email string) error {
	_, err := r.col.UpdateMany(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"isRead": true}})
	return err
}
