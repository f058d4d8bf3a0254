package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/pawtracker/pet-care-api/models"
	"github.com/pawtracker/pet-care-api/repository"
)

// Register creates a customer account. Admin accounts are provisioned out of
// band, never through this route.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if strings.TrimSpace(req.Username) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username is required"})
	}
	if req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email is required"})
	}
	if !models.ValidEmail(req.Email) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email is invalid"})
	}
	if len(req.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Password must be at least 8 characters"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.ByEmail(ctx, req.Email); err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email is already registered"})
	} else if err != repository.ErrNotFound {
		h.Log.WithError(err).Error("cannot check email")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.WithError(err).Error("cannot hash password")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot hash password"})
	}

	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashed),
		IsAdmin:   false,
		CreatedAt: time.Now(),
	}
	if err := h.Users.Create(ctx, &user); err != nil {
		h.Log.WithError(err).Error("cannot insert user")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot insert user"})
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login checks credentials and returns a signed token. The identifier may be
// an email or a username.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := h.Users.ByIdentifier(ctx, req.Identifier)
	if err == repository.ErrNotFound {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email/username or password"})
	}
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch user")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email/username or password"})
	}

	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["email"] = user.Email
	claims["isAdmin"] = user.IsAdmin
	claims["exp"] = time.Now().Add(72 * time.Hour).Unix()

	signed, err := token.SignedString([]byte(h.JWTSecret))
	if err != nil {
		h.Log.WithError(err).Error("cannot sign token")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot generate token"})
	}

	return c.JSON(fiber.Map{
		"token":    signed,
		"id":       user.ID.Hex(),
		"username": user.Username,
		"email":    user.Email,
		"isAdmin":  user.IsAdmin,
	})
}

// ListUsers returns every account, for admins.
func (h *Handler) ListUsers(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users, err := h.Users.All(ctx)
	if err != nil {
		h.Log.WithError(err).Error("cannot fetch users")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cannot fetch users"})
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(fiber.Map{"data": users})
}
