// Package config reads service configuration from the environment, once, at
// startup.
package config

import (
	"errors"
	"os"
)

type Config struct {
	MongoURI     string
	DatabaseName string
	JWTSecret    string
	Port         string
	UploadDir    string
	AllowOrigins string
}

func Load() (*Config, error) {
	cfg := &Config{
		MongoURI:     os.Getenv("MONGODB_URI"),
		DatabaseName: os.Getenv("DATABASE_NAME"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		Port:         os.Getenv("PORT"),
		UploadDir:    os.Getenv("UPLOAD_DIR"),
		AllowOrigins: os.Getenv("ALLOW_ORIGINS"),
	}

	if cfg.MongoURI == "" {
		return nil, errors.New("MONGODB_URI is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.DatabaseName == "" {
		cfg.DatabaseName = "pawtracker"
	}
	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "./uploads-data"
	}
	if cfg.AllowOrigins == "" {
		cfg.AllowOrigins = "http://localhost:8080"
	}
	return cfg, nil
}
