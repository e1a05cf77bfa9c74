package handlers

import (
	"review-backend/internal/middleware"
	"review-backend/internal/services"
	"review-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	service services.UserService
	logger  *logrus.Logger
}

func NewUserHandler(service services.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
	}
}

// GetMe godoc
// @Summary Get own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.StandardResponse{data=models.User}
// @Failure 401 {object} utils.StandardResponse
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	user, err := h.service.Me(c.UserContext(), middleware.ActorFrom(c))
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Profile retrieved successfully", user)
}

// UpdateMe godoc
// @Summary Update own profile
// @Description Partial update. The role field is ignored.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body UserRequest true "Fields to change"
// @Success 200 {object} utils.StandardResponse{data=models.User}
// @Failure 400 {object} utils.StandardResponse
// @Failure 401 {object} utils.StandardResponse
// @Failure 409 {object} utils.StandardResponse
// @Router /users/me [patch]
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	var req UserRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	user, err := h.service.UpdateMe(c.UserContext(), middleware.ActorFrom(c), req.toInput())
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Profile updated successfully", user)
}

// ListUsers godoc
// @Summary List users
// @Description Admin only
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search by username"
// @Success 200 {object} utils.StandardResponse{data=[]models.User}
// @Failure 401 {object} utils.StandardResponse
// @Failure 403 {object} utils.StandardResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.UserContext(), middleware.ActorFrom(c), c.Query("search"))
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Users retrieved successfully", users)
}

// CreateUser godoc
// @Summary Create a user
// @Description Admin only. Role defaults to user.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body UserRequest true "User"
// @Success 201 {object} utils.StandardResponse{data=models.User}
// @Failure 400 {object} utils.StandardResponse
// @Failure 401 {object} utils.StandardResponse
// @Failure 403 {object} utils.StandardResponse
// @Failure 409 {object} utils.StandardResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req UserRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	user, err := h.service.CreateUser(c.UserContext(), middleware.ActorFrom(c), req.toInput())
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, "User created successfully", user)
}

// GetUser godoc
// @Summary Get a user
// @Description Admin only
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} utils.StandardResponse{data=models.User}
// @Failure 401 {object} utils.StandardResponse
// @Failure 403 {object} utils.StandardResponse
// @Failure 404 {object} utils.StandardResponse
// @Router /users/{username} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.service.GetUser(c.UserContext(), middleware.ActorFrom(c), c.Params("username"))
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "User retrieved successfully", user)
}

// UpdateUser godoc
// @Summary Update a user
// @Description Admin only. Partial update; role must be user, moderator or admin.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Param user body UserRequest true "Fields to change"
// @Success 200 {object} utils.StandardResponse{data=models.User}
// @Failure 400 {object} utils.StandardResponse
// @Failure 401 {object} utils.StandardResponse
// @Failure 403 {object} utils.StandardResponse
// @Failure 404 {object} utils.StandardResponse
// @Failure 409 {object} utils.StandardResponse
// @Router /users/{username} [patch]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	var req UserRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	user, err := h.service.UpdateUser(c.UserContext(), middleware.ActorFrom(c), c.Params("username"), req.toInput())
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "User updated successfully", user)
}

// DeleteUser godoc
// @Summary Delete a user
// @Description Admin only. Removes the user's reviews and comments.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 204
// @Failure 401 {object} utils.StandardResponse
// @Failure 403 {object} utils.StandardResponse
// @Failure 404 {object} utils.StandardResponse
// @Router /users/{username} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.service.DeleteUser(c.UserContext(), middleware.ActorFrom(c), c.Params("username")); err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
