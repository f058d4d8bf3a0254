package handlers

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pawtracker/pet-care-api/middleware"
	"github.com/pawtracker/pet-care-api/models"
	"github.com/pawtracker/pet-care-api/repository"
)

const otpTTL = 10 * time.Minute

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// CreatePayment opens the two-step payment flow: a Pending payment is stored
// and the one-time code goes out through the mailer. When the payment is for
// an advertisement posting fee, the amount comes from the fee table for that
// advertisement's type, not from the client.
func (h *Handler) CreatePayment(c *fiber.Ctx) error {
	var req struct {
		Name            string  `json:"name"`
		Email           string  `json:"email"`
		Amount          float64 `json:"amount"`
		Method          string  `json:"method"`
		AdvertisementID string  `json:"advertisementId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	payment := models.Payment{
		Name:   req.Name,
		Email:  req.Email,
		Amount: req.Amount,
		Method: req.Method,
	}
	if err := payment.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !middleware.IsAdmin(c) && payment.Email != middleware.Email(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot pay for another email"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if req.AdvertisementID != "" {
		adID, err := primitive.ObjectIDFromHex(req.AdvertisementID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid advertisement ID"})
		}
		ad, err := h.Ads.ByID(ctx, adID)
		if err == repository.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Advertisement not found"})
		}
		if err != nil {
			h.Log.WithError(err).Error("cannot fetch advertisement")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		}
		payment.AdvertisementID = &adID
		payment.Amount = models.AdvertisementFees[ad.AdvertisementType]
	}

	otp, err := generateOTP()
	if err != nil {
		h.Log.WithError(err).Error("cannot generate OTP")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	payment.OTP = otp
	payment.OTPExpiresAt = time.Now().Add(otpTTL)
	payment.Status = models.PaymentPending
	payment.CreatedAt = time.Now()

	if err := h.Payments.Create(ctx, &payment); err != nil {
		h.Log.WithError(err).Error("cannot insert payment")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot insert payment"})
	}

	if err := h.Mail.SendOTP(ctx, payment.Email, otp); err != nil {
		h.Log.WithError(err).Warn("cannot send OTP")
	}
	return c.Status(fiber.StatusCreated).JSON(payment)
}

// VerifyPayment closes the flow: a matching, unexpired code marks the payment
// Paid and reconciles the linked advertisement's paymentStatus in the same
// repository call.
func (h *Handler) VerifyPayment(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID"})
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payment, err := h.Payments.ByID(ctx, id)
	if err == repository.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment not found"})
	}
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch payment")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	if !middleware.IsAdmin(c) && payment.Email != middleware.Email(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot verify another user's payment"})
	}
	if payment.Status == models.PaymentPaid {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payment is already paid"})
	}
	if req.Code == "" || req.Code != payment.OTP {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid verification code"})
	}
	if time.Now().After(payment.OTPExpiresAt) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Verification code has expired"})
	}

	if err := h.Payments.Confirm(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment not found"})
		}
		h.Log.WithError(err).Error("cannot confirm payment")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot confirm payment"})
	}

	h.notify(payment.Email, "Your payment has been confirmed")
	return c.JSON(fiber.Map{"message": "Payment confirmed successfully"})
}

// ListPayments returns every payment, for admins.
func (h *Handler) ListPayments(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	payments, err := h.Payments.All(ctx)
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch payments")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch payments"})
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	return c.JSON(fiber.Map{"data": payments})
}

// MyPayments lists the caller's payments.
func (h *Handler) MyPayments(c *fiber.Ctx) error {
	email := c.Params("email")
	if !middleware.IsAdmin(c) && email != middleware.Email(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot list another user's payments"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	payments, err := h.Payments.ByEmail(ctx, email)
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch payments")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch payments"})
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	return c.JSON(fiber.Map{"count": len(payments), "data": payments})
}
