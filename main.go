package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/pawtracker/pet-care-api/config"
	"github.com/pawtracker/pet-care-api/handlers"
	"github.com/pawtracker/pet-care-api/mailer"
	"github.com/pawtracker/pet-care-api/repository"
	"github.com/pawtracker/pet-care-api/uploads"
)

func main() {
	log := logrus.New()

	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	client, err := repository.Connect(cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("cannot connect to MongoDB")
	}
	defer client.Disconnect(context.Background())
	log.Info("connected to MongoDB")

	store, err := uploads.NewStore(cfg.UploadDir)
	if err != nil {
		log.WithError(err).Fatal("cannot create upload directory")
	}

	repos := repository.New(client.Database(cfg.DatabaseName))

	h := &handlers.Handler{
		Ads:           repos.Advertisements,
		Appointments:  repos.Appointments,
		Payments:      repos.Payments,
		Refunds:       repos.Refunds,
		Feedback:      repos.Feedback,
		Notifications: repos.Notifications,
		Users:         repos.Users,
		Pets:          repos.Pets,
		Uploads:       store,
		Mail:          &mailer.LogMailer{Log: log},
		Log:           log,
		JWTSecret:     cfg.JWTSecret,
	}

	// The body limit sits above the upload cap so oversized files reach the
	// upload check and get a clean 400 instead of a connection error.
	app := fiber.New(fiber.Config{BodyLimit: 10 << 20})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE",
		AllowHeaders:     "Content-Type,Authorization",
		AllowCredentials: true,
	}))

	app.Static("/uploads", cfg.UploadDir)

	h.RegisterRoutes(app)

	log.WithField("port", cfg.Port).Info("starting server")
	log.Fatal(app.Listen(":" + cfg.Port))
}
