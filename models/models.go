package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Moderation / lifecycle statuses shared by advertisements, appointments and refunds.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// Payment statuses.
const (
	PaymentPending = "Pending"
	PaymentPaid    = "Paid"
)

// Advertisement types.
const (
	AdTypeSell  = "Sell a Pet"
	AdTypeLost  = "Lost Pet"
	AdTypeFound = "Found Pet"
)

// Appointment services.
const (
	ServiceVet      = "Veterinary"
	ServiceGrooming = "Grooming"
	ServiceTraining = "Training"
)

// Payment methods.
const (
	MethodCard = "Card"
	MethodBank = "Bank Transfer"
)

// AdvertisementFees maps advertisement type to the posting fee stamped on the
// payment the server creates. Not enforced on submission.
var AdvertisementFees = map[string]float64{
	AdTypeSell:  500,
	AdTypeLost:  300,
	AdTypeFound: 0,
}

type Advertisement struct {
	ID                primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name              string             `json:"name" bson:"name"`
	Email             string             `json:"email" bson:"email"`
	ContactNumber     string             `json:"contactNumber" bson:"contactNumber"`
	AdvertisementType string             `json:"advertisementType" bson:"advertisementType"`
	PetType           string             `json:"petType" bson:"petType"`
	Heading           string             `json:"heading" bson:"heading"`
	Description       string             `json:"description" bson:"description"`
	Photo             string             `json:"photo" bson:"photo"`
	Status            string             `json:"status" bson:"status"`
	PaymentStatus     string             `json:"paymentStatus" bson:"paymentStatus"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
}

// AdvertisementUpdate carries the owner-editable fields. An empty Photo keeps
// the stored one.
type AdvertisementUpdate struct {
	Name              string
	Email             string
	ContactNumber     string
	AdvertisementType string
	PetType           string
	Heading           string
	Description       string
	Photo             string
}

type Appointment struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Email         string             `json:"email" bson:"email"`
	ContactNumber string             `json:"contactNumber" bson:"contactNumber"`
	Service       string             `json:"service" bson:"service"`
	Date          time.Time          `json:"date" bson:"date"`
	Notes         string             `json:"notes" bson:"notes"`
	Status        string             `json:"status" bson:"status"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}

type Payment struct {
	ID              primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Name            string              `json:"name" bson:"name"`
	Email           string              `json:"email" bson:"email"`
	Amount          float64             `json:"amount" bson:"amount"`
	Method          string              `json:"method" bson:"method"`
	AdvertisementID *primitive.ObjectID `json:"advertisementId,omitempty" bson:"advertisementId,omitempty"`
	Status          string              `json:"status" bson:"status"`
	OTP             string              `json:"-" bson:"otp"`
	OTPExpiresAt    time.Time           `json:"-" bson:"otpExpiresAt"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
}

type Refund struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PaymentID primitive.ObjectID `json:"paymentId" bson:"paymentId"`
	Email     string             `json:"email" bson:"email"`
	Reason    string             `json:"reason" bson:"reason"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type FeedbackReply struct {
	Message   string    `json:"message" bson:"message"`
	RepliedAt time.Time `json:"repliedAt" bson:"repliedAt"`
}

type Feedback struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	Rating    int                `json:"rating" bson:"rating"`
	Comment   string             `json:"comment" bson:"comment"`
	Reply     *FeedbackReply     `json:"reply,omitempty" bson:"reply,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type Notification struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	Message   string             `json:"message" bson:"message"`
	IsRead    bool               `json:"isRead" bson:"isRead"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type User struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Username  string             `json:"username" bson:"username"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"`
	IsAdmin   bool               `json:"isAdmin" bson:"isAdmin"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type Pet struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerEmail string             `json:"ownerEmail" bson:"ownerEmail"`
	Name       string             `json:"name" bson:"name"`
	Species    string             `json:"species" bson:"species"`
	Breed      string             `json:"breed" bson:"breed"`
	Age        int                `json:"age" bson:"age"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}
