package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pawtracker/pet-care-api/models"
)

type feedbackRepo struct {
	col *mongo.Collection
}

func (r *feedbackRepo) Create(ctx context.Context, f *models.Feedback) error {
	result, err := r.col.InsertOne(ctx, f)
	if err != nil {
		return err
	}
	f.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *feedbackRepo) All(ctx context.Context) ([]models.Feedback, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var feedback []models.Feedback
	if err = cursor.All(ctx, &feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

func (r *feedbackRepo) ByID(ctx context.Context, id primitive.ObjectID) (*models.Feedback, error) {
	var f models.Feedback
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&f)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *feedbackRepo) Reply(ctx context.Context, id primitive.ObjectID, reply models.FeedbackReply) error {
	result, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"reply": reply}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *feedbackRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
