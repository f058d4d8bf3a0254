package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pawtracker/pet-care-api/middleware"
	"github.com/pawtracker/pet-care-api/models"
	"github.com/pawtracker/pet-care-api/repository"
)

// RequestRefund opens a refund request against a paid payment.
func (h *Handler) RequestRefund(c *fiber.Ctx) error {
	var req struct {
		PaymentID string `json:"paymentId"`
		Reason    string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if strings.TrimSpace(req.Reason) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Reason is required"})
	}
	paymentID, err := primitive.ObjectIDFromHex(req.PaymentID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payment, err := h.Payments.ByID(ctx, paymentID)
	if err == repository.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment not found"})
	}
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch payment")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	if !middleware.IsAdmin(c) && payment.Email != middleware.Email(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot request a refund for another user's payment"})
	}
	if payment.Status != models.PaymentPaid {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only paid payments can be refunded"})
	}

	refund := models.Refund{
		PaymentID: paymentID,
		Email:     payment.Email,
		Reason:    req.Reason,
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
	}
	if err := h.Refunds.Create(ctx, &refund); err != nil {
		h.Log.WithError(err).Error("cannot insert refund")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot insert refund"})
	}
	return c.Status(fiber.StatusCreated).JSON(refund)
}

// ListRefunds returns every refund request, for admins.
func (h *Handler) ListRefunds(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	refunds, err := h.Refunds.All(ctx)
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch refunds")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch refunds"})
	}
	if refunds == nil {
		refunds = []models.Refund{}
	}
	return c.JSON(fiber.Map{"data": refunds})
}

// MyRefunds lists the caller's refund requests.
func (h *Handler) MyRefunds(c *fiber.Ctx) error {
	email := c.Params("email")
	if !middleware.IsAdmin(c) && email != middleware.Email(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot list another user's refunds"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	refunds, err := h.Refunds.ByEmail(ctx, email)
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch refunds")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch refunds"})
	}
	if refunds == nil {
		refunds = []models.Refund{}
	}
	return c.JSON(fiber.Map{"count": len(refunds), "data": refunds})
}

// ApproveRefund is an admin decision on a refund request.
func (h *Handler) ApproveRefund(c *fiber.Ctx) error {
	return h.decideRefund(c, models.StatusApproved, "Your refund request has been approved")
}

// RejectRefund is an admin decision on a refund request.
func (h *Handler) RejectRefund(c *fiber.Ctx) error {
	return h.decideRefund(c, models.StatusRejected, "Your refund request has been rejected")
}

func (h *Handler) decideRefund(c *fiber.Ctx, status, message string) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid refund ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	refund, err := h.Refunds.ByID(ctx, id)
	if err == repository.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Refund not found"})
	}
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch refund")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	if err := h.Refunds.SetStatus(ctx, id, status); err != nil {
		if err == repository.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Refund not found"})
		}
		h.Log.WithError(err).Error("cannot update refund")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot update refund"})
	}

	h.notify(refund.Email, message)
	return c.JSON(fiber.Map{"message": "Refund " + status})
}
