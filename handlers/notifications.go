package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pawtracker/pet-care-api/middleware"
	"github.com/pawtracker/pet-care-api/models"
	"github.com/pawtracker/pet-care-api/repository"
)

// MyNotifications lists the caller's notifications, newest first.
func (h *Handler) MyNotifications(c *fiber.Ctx) error {
	email := c.Params("email")
	if !middleware.IsAdmin(c) && email != middleware.Email(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot list another user's notifications"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	notifications, err := h.Notifications.ByEmail(ctx, email)
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch notifications")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch notifications"})
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return c.JSON(fiber.Map{"count": len(notifications), "data": notifications})
}

// MarkNotificationRead marks one notification as read.
func (h *Handler) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	notification, err := h.Notifications.ByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
		}
		h.Log.WithError(err).Error("cannot fetch notification")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch notification"})
	}
	if !middleware.IsAdmin(c) && notification.Email != middleware.Email(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot update another user's notification"})
	}

	if err := h.Notifications.MarkRead(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
		}
		h.Log.WithError(err).Error("cannot update notification")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot update notification"})
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead marks every notification of the caller as read.
func (h *Handler) MarkAllNotificationsRead(c *fiber.Ctx) error {
	email := c.Params("email")
	if !middleware.IsAdmin(c) && email != middleware.Email(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot update another user's notifications"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.Notifications.MarkAllRead(ctx, email); err != nil {
		h.Log.WithError(err).Error("cannot update notifications")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot update notifications"})
	}
	return c.JSON(fiber.Map{"message": "Notifications marked as read"})
}
