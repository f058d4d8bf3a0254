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

// CreatePet adds a pet profile for the signed-in owner.
func (h *Handler) CreatePet(c *fiber.Ctx) error {
	var pet models.Pet
	if err := c.BodyParser(&pet); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := pet.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	pet.ID = primitive.NilObjectID
	pet.OwnerEmail = middleware.Email(c)
	pet.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.Pets.Create(ctx, &pet); err != nil {
		h.Log.WithError(err).Error("cannot insert pet")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot insert pet"})
	}
	return c.Status(fiber.StatusCreated).JSON(pet)
}

// MyPets lists the caller's pet profiles.
func (h *Handler) MyPets(c *fiber.Ctx) error {
	email := c.Params("email")
	if !middleware.IsAdmin(c) && email != middleware.Email(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot list another user's pets"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pets, err := h.Pets.ByOwner(ctx, email)
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch pets")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch pets"})
	}
	if pets == nil {
		pets = []models.Pet{}
	}
	return c.JSON(fiber.Map{"count": len(pets), "data": pets})
}

// EditPet updates a pet profile owned by the caller.
func (h *Handler) EditPet(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid pet ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	current, err := h.Pets.ByID(ctx, id)
	if err == repository.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Pet not found"})
	}
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch pet")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	if !middleware.IsAdmin(c) && current.OwnerEmail != middleware.Email(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot edit another user's pet"})
	}

	var edited models.Pet
	if err := c.BodyParser(&edited); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := edited.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.Pets.Update(ctx, id, &edited); err != nil {
		if err == repository.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Pet not found"})
		}
		h.Log.WithError(err).Error("cannot update pet")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot update pet"})
	}
	return c.JSON(fiber.Map{"message": "Pet updated successfully"})
}

// DeletePet removes a pet profile owned by the caller.
func (h *Handler) DeletePet(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid pet ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pet, err := h.Pets.ByID(ctx, id)
	if err == repository.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Pet not found"})
	}
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch pet")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	if !middleware.IsAdmin(c) && pet.OwnerEmail != middleware.Email(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot delete another user's pet"})
	}

	if err := h.Pets.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Pet not found"})
		}
		h.Log.WithError(err).Error("cannot delete pet")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot delete pet"})
	}
	return c.JSON(fiber.Map{"message": "Pet deleted successfully"})
}
