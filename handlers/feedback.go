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

// CreateFeedback stores a rating and comment from a signed-in user.
func (h *Handler) CreateFeedback(c *fiber.Ctx) error {
	var feedback models.Feedback
	if err := c.BodyParser(&feedback); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := feedback.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !middleware.IsAdmin(c) && feedback.Email != middleware.Email(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot post feedback for another email"})
	}

	feedback.ID = primitive.NilObjectID
	feedback.Reply = nil
	feedback.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.Feedback.Create(ctx, &feedback); err != nil {
		h.Log.WithError(err).Error("cannot insert feedback")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot insert feedback"})
	}
	return c.Status(fiber.StatusCreated).JSON(feedback)
}

// ListFeedback is public; the site shows all feedback with any admin replies.
func (h *Handler) ListFeedback(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	feedback, err := h.Feedback.All(ctx)
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch feedback")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch feedback"})
	}
	if feedback == nil {
		feedback = []models.Feedback{}
	}
	return c.JSON(fiber.Map{"data": feedback})
}

// ReplyFeedback attaches an admin reply and notifies the author.
func (h *Handler) ReplyFeedback(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid feedback ID"})
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Message is required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	feedback, err := h.Feedback.ByID(ctx, id)
	if err == repository.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Feedback not found"})
	}
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch feedback")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	reply := models.FeedbackReply{Message: req.Message, RepliedAt: time.Now()}
	if err := h.Feedback.Reply(ctx, id, reply); err != nil {
		if err == repository.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Feedback not found"})
		}
		h.Log.WithError(err).Error("cannot update feedback")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot update feedback"})
	}

	h.notify(feedback.Email, "Your feedback has received a reply")
	return c.JSON(fiber.Map{"message": "Reply saved successfully"})
}

// DeleteFeedback removes an entry; the author or an admin may delete it.
func (h *Handler) DeleteFeedback(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid feedback ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	feedback, err := h.Feedback.ByID(ctx, id)
	if err == repository.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Feedback not found"})
	}
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch feedback")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	if !middleware.IsAdmin(c) && feedback.Email != middleware.Email(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot delete another user's feedback"})
	}

	if err := h.Feedback.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Feedback not found"})
		}
		h.Log.WithError(err).Error("cannot delete feedback")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot delete feedback"})
	}
	return c.JSON(fiber.Map{"message": "Feedback deleted successfully"})
}
