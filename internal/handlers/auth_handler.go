package handlers

import (
	"review-backend/internal/services"
	"review-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	service services.AuthService
	logger  *logrus.Logger
}

func NewAuthHandler(service services.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// Signup godoc
// @Summary Request a confirmation code
// @Description Register a username and email, or re-request a code for an existing identical pair. The code is delivered by email.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup request"
// @Success 200 {object} utils.StandardResponse{data=SignupResponse} "Confirmation code sent"
// @Failure 400 {object} utils.StandardResponse "Validation error"
// @Failure 409 {object} utils.StandardResponse "Username or email already taken"
// @Failure 429 {object} utils.StandardResponse "Rate limit exceeded"
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	user, err := h.service.RequestSignup(c.UserContext(), req.Username, req.Email)
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Confirmation code sent", SignupResponse{
		Username: user.Username,
		Email:    user.Email,
	})
}

// Token godoc
// @Summary Exchange a confirmation code for a token
// @Description Exchange the most recent confirmation code for a bearer token. Each code can be used once.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body TokenRequest true "Token request"
// @Success 200 {object} utils.StandardResponse{data=TokenResponse} "Token issued"
// @Failure 400 {object} utils.StandardResponse "Invalid or expired code"
// @Failure 404 {object} utils.StandardResponse "User not found"
// @Failure 429 {object} utils.StandardResponse "Rate limit exceeded"
// @Router /auth/token [post]
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var req TokenRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	token, err := h.service.Confirm(c.UserContext(), req.Username, req.ConfirmationCode)
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Token issued", TokenResponse{Token: token})
}
