package handlers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pawtracker/pet-care-api/mailer"
	"github.com/pawtracker/pet-care-api/models"
	"github.com/pawtracker/pet-care-api/repository"
	"github.com/pawtracker/pet-care-api/uploads"
)

// Handler carries the repositories and collaborators every route needs.
type Handler struct {
	Ads           repository.Advertisements
	Appointments  repository.Appointments
	Payments      repository.Payments
	Refunds       repository.Refunds
	Feedback      repository.Feedback
	Notifications repository.Notifications
	Users         repository.Users
	Pets          repository.Pets

	Uploads   *uploads.Store
	Mail      mailer.Mailer
	Log       *logrus.Logger
	JWTSecret string
}

// notify writes a notification for the given user. Failures are logged and
// swallowed; a missed notification must not fail the request that caused it.
func (h *Handler) notify(email, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n := &models.Notification{
		Email:     email,
		Message:   message,
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if err := h.Notifications.Create(ctx, n); err != nil {
		h.Log.WithError(err).WithField("email", email).Warn("cannot create notification")
	}
}
