// Package repository holds the MongoDB data access for every collection,
// behind small per-resource interfaces so handlers can be tested without a
// running database.
package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pawtracker/pet-care-api/models"
)

// ErrNotFound is returned when an id matches no document.
var ErrNotFound = errors.New("not found")

type Advertisements interface {
	Create(ctx context.Context, ad *models.Advertisement) error
	All(ctx context.Context) ([]models.Advertisement, error)
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Advertisement, error)
	ByEmail(ctx context.Context, email string) ([]models.Advertisement, error)
	Update(ctx context.Context, id primitive.ObjectID, upd models.AdvertisementUpdate) error
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) error
	SetPaymentStatus(ctx context.Context, id primitive.ObjectID, status string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type Appointments interface {
	Create(ctx context.Context, a *models.Appointment) error
	All(ctx context.Context) ([]models.Appointment, error)
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	ByEmail(ctx context.Context, email string) ([]models.Appointment, error)
	Update(ctx context.Context, id primitive.ObjectID, a *models.Appointment) error
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type Payments interface {
	Create(ctx context.Context, p *models.Payment) error
	All(ctx context.Context) ([]models.Payment, error)
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	ByEmail(ctx context.Context, email string) ([]models.Payment, error)
	// Confirm marks the payment paid and, when it is linked to an
	// advertisement, flips that advertisement's paymentStatus as well. The two
	// writes are reconciled: if the advertisement update fails the payment is
	// compensated back to Pending and an error is returned.
	Confirm(ctx context.Context, id primitive.ObjectID) error
}

type Refunds interface {
	Create(ctx context.Context, r *models.Refund) error
	All(ctx context.Context) ([]models.Refund, error)
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Refund, error)
	ByEmail(ctx context.Context, email string) ([]models.Refund, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) error
}

type Feedback interface {
	Create(ctx context.Context, f *models.Feedback) error
	All(ctx context.Context) ([]models.Feedback, error)
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Feedback, error)
	Reply(ctx context.Context, id primitive.ObjectID, reply models.FeedbackReply) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type Notifications interface {
	Create(ctx context.Context, n *models.Notification) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error)
	ByEmail(ctx context.Context, email string) ([]models.Notification, error)
	MarkRead(ctx context.Context, id primitive.ObjectID) error
	MarkAllRead(ctx context.Context, email string) error
}

type Users interface {
	Create(ctx context.Context, u *models.User) error
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	All(ctx context.Context) ([]models.User, error)
}

type Pets interface {
	Create(ctx context.Context, p *models.Pet) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Pet, error)
	ByOwner(ctx context.Context, email string) ([]models.Pet, error)
	Update(ctx context.Context, id primitive.ObjectID, p *models.Pet) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Repositories aggregates every resource repository over one database handle.
type Repositories struct {
	Advertisements Advertisements
	Appointments   Appointments
	Payments       Payments
	Refunds        Refunds
	Feedback       Feedback
	Notifications  Notifications
	Users          Users
	Pets           Pets
}

func New(db *mongo.Database) *Repositories {
	return &Repositories{
		Advertisements: &advertisementRepo{col: db.Collection("advertisements")},
		Appointments:   &appointmentRepo{col: db.Collection("appointments")},
		Payments: &paymentRepo{
			col: db.Collection("payments"),
			ads: db.Collection("advertisements"),
		},
		Refunds:       &refundRepo{col: db.Collection("refunds")},
		Feedback:      &feedbackRepo{col: db.Collection("feedback")},
		Notifications: &notificationRepo{col: db.Collection("notifications")},
		Users:         &userRepo{col: db.Collection("users")},
		Pets:          &petRepo{col: db.Collection("pets")},
	}
}

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}
