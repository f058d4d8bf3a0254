package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pawtracker/pet-care-api/models"
)

type advertisementRepo struct {
	col *mongo.Collection
}

func (r *advertisementRepo) Create(ctx context.Context, ad *models.Advertisement) error {
	result, err := r.col.InsertOne(ctx, ad)
	if err != nil {
		return err
	}
	ad.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *advertisementRepo) All(ctx context.Context) ([]models.Advertisement, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ads []models.Advertisement
	if err = cursor.All(ctx, &ads); err != nil {
		return nil, err
	}
	return ads, nil
}

func (r *advertisementRepo) ByID(ctx context.Context, id primitive.ObjectID) (*models.Advertisement, error) {
	var ad models.Advertisement
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&ad)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

func (r *advertisementRepo) ByEmail(ctx context.Context, email string) ([]models.Advertisement, error) {
	cursor, err := r.col.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ads []models.Advertisement
	if err = cursor.All(ctx, &ads); err != nil {
		return nil, err
	}
	return ads, nil
}

func (r *advertisementRepo) Update(ctx context.Context, id primitive.ObjectID, upd models.AdvertisementUpdate) error {
	set := bson.M{
		"name":              upd.Name,
		"email":             upd.Email,
		"contactNumber":     upd.ContactNumber,
		"advertisementType": upd.AdvertisementType,
		"petType":           upd.PetType,
		"heading":           upd.Heading,
		"description":       upd.Description,
	}
	if upd.Photo != "" {
		set["photo"] = upd.Photo
	}
	result, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *advertisementRepo) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	return r.setField(ctx, id, "status", status)
}

func (r *advertisementRepo) SetPaymentStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	return r.setField(ctx, id, "paymentStatus", status)
}

// setField updates exactly one field; moderation must not touch anything else.
func (r *advertisementRepo) setField(ctx context.Context, id primitive.ObjectID, field, value string) error {
	result, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{field: value}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *advertisementRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
