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

// CreateAppointment books a service appointment, starting Pending.
func (h *Handler) CreateAppointment(c *fiber.Ctx) error {
	var appointment models.Appointment
	if err := c.BodyParser(&appointment); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := appointment.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !middleware.IsAdmin(c) && appointment.Email != middleware.Email(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot book for another email"})
	}

	appointment.ID = primitive.NilObjectID
	appointment.Status = models.StatusPending
	appointment.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.Appointments.Create(ctx, &appointment); err != nil {
		h.Log.WithError(err).Error("cannot insert appointment")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot insert appointment"})
	}
	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// ListAppointments returns every appointment, for admins.
func (h *Handler) ListAppointments(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	appointments, err := h.Appointments.All(ctx)
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch appointments")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch appointments"})
	}
	if appointments == nil {
		appointments = []models.Appointment{}
	}
	return c.JSON(fiber.Map{"data": appointments})
}

// MyAppointments lists the caller's appointments.
func (h *Handler) MyAppointments(c *fiber.Ctx) error {
	email := c.Params("email")
	if !middleware.IsAdmin(c) && email != middleware.Email(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot list another user's appointments"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	appointments, err := h.Appointments.ByEmail(ctx, email)
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch appointments")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch appointments"})
	}
	if appointments == nil {
		appointments = []models.Appointment{}
	}
	return c.JSON(fiber.Map{"count": len(appointments), "data": appointments})
}

// EditAppointment lets the owner (or an admin) change the booking details.
func (h *Handler) EditAppointment(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid appointment ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	current, err := h.Appointments.ByID(ctx, id)
	if err == repository.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Appointment not found"})
	}
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch appointment")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	if !middleware.IsAdmin(c) && current.Email != middleware.Email(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot edit another user's appointment"})
	}

	var edited models.Appointment
	if err := c.BodyParser(&edited); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := edited.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.Appointments.Update(ctx, id, &edited); err != nil {
		if err == repository.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Appointment not found"})
		}
		h.Log.WithError(err).Error("cannot update appointment")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot update appointment"})
	}
	return c.JSON(fiber.Map{"message": "Appointment updated successfully"})
}

// ApproveAppointment is an admin status transition.
func (h *Handler) ApproveAppointment(c *fiber.Ctx) error {
	return h.setAppointmentStatus(c, models.StatusApproved, "Your appointment has been approved")
}

// RejectAppointment is an admin status transition.
func (h *Handler) RejectAppointment(c *fiber.Ctx) error {
	return h.setAppointmentStatus(c, models.StatusRejected, "Your appointment has been rejected")
}

// ReopenAppointment puts a decided appointment back to Pending. Unlike
// advertisements, the appointment flow supports revisiting a decision.
func (h *Handler) ReopenAppointment(c *fiber.Ctx) error {
	return h.setAppointmentStatus(c, models.StatusPending, "Your appointment is pending review again")
}

func (h *Handler) setAppointmentStatus(c *fiber.Ctx, status, message string) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid appointment ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	appointment, err := h.Appointments.ByID(ctx, id)
	if err == repository.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Appointment not found"})
	}
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch appointment")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	if err := h.Appointments.SetStatus(ctx, id, status); err != nil {
		if err == repository.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Appointment not found"})
		}
		h.Log.WithError(err).Error("cannot update appointment")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot update appointment"})
	}

	h.notify(appointment.Email, message)
	return c.JSON(fiber.Map{"message": "Appointment " + status})
}

// DeleteAppointment removes the booking.
func (h *Handler) DeleteAppointment(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid appointment ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	appointment, err := h.Appointments.ByID(ctx, id)
	if err == repository.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Appointment not found"})
	}
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch appointment")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	if !middleware.IsAdmin(c) && appointment.Email != middleware.Email(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot delete another user's appointment"})
	}

	if err := h.Appointments.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Appointment not found"})
		}
		h.Log.WithError(err).Error("cannot delete appointment")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot delete appointment"})
	}
	return c.JSON(fiber.Map{"message": "Appointment deleted successfully"})
}
