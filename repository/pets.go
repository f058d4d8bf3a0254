package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pawtracker/pet-care-api/models"
)

type petRepo struct {
	col *mongo.Collection
}

func (r *petRepo) Create(ctx context.Context, p *models.Pet) error {
	result, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	p.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *petRepo) ByID(ctx context.Context, id primitive.ObjectID) (*models.Pet, error) {
	var p models.Pet
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *petRepo) ByOwner(ctx context.Context, email string) ([]models.Pet, error) {
	cursor, err := r.col.Find(ctx, bson.M{"ownerEmail": email})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var pets []models.Pet
	if err = cursor.All(ctx, &pets); err != nil {
		return nil, err
	}
	return pets, nil
}

func (r *petRepo) Update(ctx context.Context, id primitive.ObjectID, p *models.Pet) error {
	update := bson.M{"$set": bson.M{
		"name":    p.Name,
		"species": p.Species,
		"breed":   p.Breed,
		"age":     p.Age,
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

func (r *petRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
