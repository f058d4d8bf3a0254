package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pawtracker/pet-care-api/middleware"
	"github.com/pawtracker/pet-care-api/models"
	"github.com/pawtracker/pet-care-api/repository"
	"github.com/pawtracker/pet-care-api/uploads"
)

// ListAdvertisements returns every advertisement, newest first.
func (h *Handler) ListAdvertisements(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ads, err := h.Ads.All(ctx)
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch advertisements")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch advertisements"})
	}
	if ads == nil {
		ads = []models.Advertisement{}
	}
	return c.JSON(fiber.Map{"data": ads})
}

// CreateAdvertisement accepts a multipart submission with a photo. The new
// document always starts Pending on both status fields.
func (h *Handler) CreateAdvertisement(c *fiber.Ctx) error {
	ad := models.Advertisement{
		Name:              c.FormValue("name"),
		Email:             c.FormValue("email"),
		ContactNumber:     c.FormValue("contactNumber"),
		AdvertisementType: c.FormValue("advertisementType"),
		PetType:           c.FormValue("petType"),
		Heading:           c.FormValue("heading"),
		Description:       c.FormValue("description"),
	}
	if err := ad.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !middleware.IsAdmin(c) && ad.Email != middleware.Email(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot post advertisements for another email"})
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Photo is required"})
	}
	name, err := h.Uploads.Save(fh)
	if err == uploads.ErrTooLarge || err == uploads.ErrBadType {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		h.Log.WithError(err).Error("cannot store photo")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot store photo"})
	}

	ad.Photo = name
	ad.Status = models.StatusPending
	ad.PaymentStatus = models.PaymentPending
	ad.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.Ads.Create(ctx, &ad); err != nil {
		h.Uploads.Remove(name)
		h.Log.WithError(err).Error("cannot insert advertisement")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot insert advertisement"})
	}
	return c.Status(fiber.StatusCreated).JSON(ad)
}

// GetAdvertisement returns one advertisement by id.
func (h *Handler) GetAdvertisement(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid advertisement ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ad, err := h.Ads.ByID(ctx, id)
	if err == repository.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Advertisement not found"})
	}
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch advertisement")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.JSON(ad)
}

// MyAdvertisements lists the caller's advertisements. The path email must
// match the token identity unless the caller is an admin.
func (h *Handler) MyAdvertisements(c *fiber.Ctx) error {
	email := c.Params("email")
	if !middleware.IsAdmin(c) && email != middleware.Email(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot list another user's advertisements"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ads, err := h.Ads.ByEmail(ctx, email)
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch advertisements")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch advertisements"})
	}
	if ads == nil {
		ads = []models.Advertisement{}
	}
	return c.JSON(fiber.Map{"count": len(ads), "data": ads})
}

// EditAdvertisement lets the owner (or an admin) change the submitted fields.
// A new photo is optional; without one the stored photo is kept.
func (h *Handler) EditAdvertisement(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid advertisement ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	current, err := h.Ads.ByID(ctx, id)
	if err == repository.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Advertisement not found"})
	}
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch advertisement")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	if !middleware.IsAdmin(c) && current.Email != middleware.Email(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot edit another user's advertisement"})
	}

	edited := models.Advertisement{
		Name:              c.FormValue("name"),
		Email:             c.FormValue("email"),
		ContactNumber:     c.FormValue("contactNumber"),
		AdvertisementType: c.FormValue("advertisementType"),
		PetType:           c.FormValue("petType"),
		Heading:           c.FormValue("heading"),
		Description:       c.FormValue("description"),
	}
	if err := edited.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	upd := models.AdvertisementUpdate{
		Name:              edited.Name,
		Email:             edited.Email,
		ContactNumber:     edited.ContactNumber,
		AdvertisementType: edited.AdvertisementType,
		PetType:           edited.PetType,
		Heading:           edited.Heading,
		Description:       edited.Description,
	}
	if fh, err := c.FormFile("photo"); err == nil {
		name, err := h.Uploads.Save(fh)
		if err == uploads.ErrTooLarge || err == uploads.ErrBadType {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if err != nil {
			h.Log.WithError(err).Error("cannot store photo")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot store photo"})
		}
		upd.Photo = name
	}

	if err := h.Ads.Update(ctx, id, upd); err != nil {
		if upd.Photo != "" {
			h.Uploads.Remove(upd.Photo)
		}
		if err == repository.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Advertisement not found"})
		}
		h.Log.WithError(err).Error("cannot update advertisement")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot update advertisement"})
	}
	if upd.Photo != "" {
		h.Uploads.Remove(current.Photo)
	}
	return c.JSON(fiber.Map{"message": "Advertisement updated successfully"})
}

// ApproveAdvertisement is an admin moderation transition. It touches the
// status field and nothing else.
func (h *Handler) ApproveAdvertisement(c *fiber.Ctx) error {
	return h.moderateAdvertisement(c, models.StatusApproved, "Your advertisement has been approved")
}

// RejectAdvertisement is an admin moderation transition; rejection is terminal.
func (h *Handler) RejectAdvertisement(c *fiber.Ctx) error {
	return h.moderateAdvertisement(c, models.StatusRejected, "Your advertisement has been rejected")
}

func (h *Handler) moderateAdvertisement(c *fiber.Ctx, status, message string) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid advertisement ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ad, err := h.Ads.ByID(ctx, id)
	if err == repository.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Advertisement not found"})
	}
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch advertisement")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	if err := h.Ads.SetStatus(ctx, id, status); err != nil {
		if err == repository.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Advertisement not found"})
		}
		h.Log.WithError(err).Error("cannot update advertisement")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot update advertisement"})
	}

	h.notify(ad.Email, message)
	return c.JSON(fiber.Map{"message": "Advertisement " + status})
}

// MarkAdvertisementPaid flips paymentStatus to Paid. This is the legacy
// trust-the-caller flag; the reconciled path is payment confirmation.
func (h *Handler) MarkAdvertisementPaid(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid advertisement ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.Ads.SetPaymentStatus(ctx, id, models.PaymentPaid); err != nil {
		if err == repository.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Advertisement not found"})
		}
		h.Log.WithError(err).Error("cannot update advertisement")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot update advertisement"})
	}
	return c.JSON(fiber.Map{"message": "Advertisement marked as paid"})
}

// DeleteAdvertisement removes the document and its stored photo. Owners may
// delete their own advertisements at any status; admins may delete any.
func (h *Handler) DeleteAdvertisement(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid advertisement ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ad, err := h.Ads.ByID(ctx, id)
	if err == repository.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Advertisement not found"})
	}
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch advertisement")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	if !middleware.IsAdmin(c) && ad.Email != middleware.Email(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot delete another user's advertisement"})
	}

	if err := h.Ads.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Advertisement not found"})
		}
		h.Log.WithError(err).Error("cannot delete advertisement")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot delete advertisement"})
	}
	h.Uploads.Remove(ad.Photo)
	return c.JSON(fiber.Map{"message": "Advertisement deleted successfully"})
}
