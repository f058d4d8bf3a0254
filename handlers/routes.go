package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pawtracker/pet-care-api/middleware"
)

// RegisterRoutes wires every route. Public routes come first; everything else
// sits behind Auth, and moderation behind AdminOnly.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	// Public
	app.Post("/users/register", h.Register)
	app.Post("/users/login", h.Login)
	app.Get("/advertisements", h.ListAdvertisements)
	app.Get("/advertisements/details/:id", h.GetAdvertisement)
	app.Get("/feedback", h.ListFeedback)

	auth := middleware.Auth(h.JWTSecret)

	// Signed-in users
	app.Post("/advertisements", auth, h.CreateAdvertisement)
	app.Get("/advertisements/my-ads/:email", auth, h.MyAdvertisements)
	app.Put("/advertisements/edit/:id", auth, h.EditAdvertisement)
	app.Delete("/advertisements/delete/:id", auth, h.DeleteAdvertisement)

	app.Post("/payments", auth, h.CreatePayment)
	app.Post("/payments/verify/:id", auth, h.VerifyPayment)
	app.Get("/payments/my/:email", auth, h.MyPayments)

	app.Post("/refunds", auth, h.RequestRefund)
	app.Get("/refunds/my/:email", auth, h.MyRefunds)

	app.Post("/appointments", auth, h.CreateAppointment)
	app.Get("/appointments/my/:email", auth, h.MyAppointments)
	app.Put("/appointments/edit/:id", auth, h.EditAppointment)
	app.Delete("/appointments/delete/:id", auth, h.DeleteAppointment)

	app.Post("/feedback", auth, h.CreateFeedback)
	app.Delete("/feedback/delete/:id", auth, h.DeleteFeedback)

	app.Get("/notifications/my/:email", auth, h.MyNotifications)
	app.Put("/notifications/read/:id", auth, h.MarkNotificationRead)
	app.Put("/notifications/read-all/:email", auth, h.MarkAllNotificationsRead)

	app.Post("/pets", auth, h.CreatePet)
	app.Get("/pets/my/:email", auth, h.MyPets)
	app.Put("/pets/edit/:id", auth, h.EditPet)
	app.Delete("/pets/delete/:id", auth, h.DeletePet)

	// Admin
	app.Put("/advertisements/approve/:id", auth, middleware.AdminOnly, h.ApproveAdvertisement)
	app.Put("/advertisements/reject/:id", auth, middleware.AdminOnly, h.RejectAdvertisement)
	app.Put("/advertisements/pay/:id", auth, middleware.AdminOnly, h.MarkAdvertisementPaid)

	app.Get("/appointments", auth, middleware.AdminOnly, h.ListAppointments)
	app.Put("/appointments/approve/:id", auth, middleware.AdminOnly, h.ApproveAppointment)
	app.Put("/appointments/reject/:id", auth, middleware.AdminOnly, h.RejectAppointment)
	app.Put("/appointments/reopen/:id", auth, middleware.AdminOnly, h.ReopenAppointment)

	app.Get("/payments", auth, middleware.AdminOnly, h.ListPayments)

	app.Get("/refunds", auth, middleware.AdminOnly, h.ListRefunds)
	app.Put("/refunds/approve/:id", auth, middleware.AdminOnly, h.ApproveRefund)
	app.Put("/refunds/reject/:id", auth, middleware.AdminOnly, h.RejectRefund)

	app.Put("/feedback/reply/:id", auth, middleware.AdminOnly, h.ReplyFeedback)

	app.Get("/users", auth, middleware.AdminOnly, h.ListUsers)
}
