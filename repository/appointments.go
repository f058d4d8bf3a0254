package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pawtracker/pet-care-api/models"
)

type appointmentRepo struct {
	col *mongo.Collection
}

func (r *appointmentRepo) Create(ctx context.Context, a *models.Appointment) error {
	result, err := r.col.InsertOne(ctx, a)
	if err != nil {
		return err
	}
	a.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *appointmentRepo) All(ctx context.Context) ([]models.Appointment, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"date": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var appointments []models.Appointment
	if err = cursor.All(ctx, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepo) ByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	var a models.Appointment
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *appointmentRepo) ByEmail(ctx context.Context, email string) ([]models.Appointment, error) {
	cursor, err := r.col.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var appointments []models.Appointment
	if err = cursor.All(ctx, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepo) Update(ctx context.Context, id primitive.ObjectID, a *models.Appointment) error {
	update := bson.M{"$set": bson.M{
		"name":          a.Name,
		"email":         a.Email,
		"contactNumber": a.ContactNumber,
		"service":       a.Service,
		"date":          a.Date,
		"notes":         a.Notes,
	}}
	result, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *appointmentRepo) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	result, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *appointmentRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
