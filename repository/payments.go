package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pawtracker/pet-care-api/models"
)

type paymentRepo struct {
	col *mongo.Collection
	ads *mongo.Collection
}

func (r *paymentRepo) Create(ctx context.Context, p *models.Payment) error {
	result, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	p.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *paymentRepo) All(ctx context.Context) ([]models.Payment, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var payments []models.Payment
	if err = cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepo) ByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	var p models.Payment
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepo) ByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	cursor, err := r.col.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var payments []models.Payment
	if err = cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// Confirm flips the payment to Paid and reconciles the linked advertisement's
// paymentStatus. Multi-document transactions need a replica set, so instead of
// a transaction the payment write is compensated when the advertisement write
// fails: the payment goes back to Pending and the caller sees the error.
func (r *paymentRepo) Confirm(ctx context.Context, id primitive.ObjectID) error {
	var p models.Payment
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	_, err = r.col.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": models.PaymentPaid}})
	if err != nil {
		return err
	}

	if p.AdvertisementID == nil {
		return nil
	}

	_, adErr := r.ads.UpdateOne(ctx, bson.M{"_id": *p.AdvertisementID},
		bson.M{"$set": bson.M{"paymentStatus": models.PaymentPaid}})
	if adErr != nil {
		// Compensate so the two documents never disagree silently.
		_, revertErr := r.col.UpdateOne(ctx, bson.M{"_id": id},
			bson.M{"$set": bson.M{"status": models.PaymentPending}})
		if revertErr != nil {
			return fmt.Errorf("advertisement update failed (%v) and payment revert failed: %w", adErr, revertErr)
		}
		return fmt.Errorf("advertisement update failed, payment reverted: %w", adErr)
	}
	return nil
}
