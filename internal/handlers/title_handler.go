package handlers

import (
	"strconv"

	"review-backend/internal/apperr"
	"review-backend/internal/middleware"
	"review-backend/internal/models"
	"review-backend/internal/services"
	"review-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type TitleHandler struct {
	service services.TitleService
	logger  *logrus.Logger
}

func NewTitleHandler(service services.TitleService, logger *logrus.Logger) *TitleHandler {
	return &TitleHandler{
		service: service,
		logger:  logger,
	}
}

// ListTitles godoc
// @Summary List titles
// @Description List titles with their live rating. All filters are optional and combine.
// @Tags titles
// @Produce json
// @Param name query string false "Name contains (case-insensitive)"
// @Param genre query string false "Genre slug"
// @Param category query string false "Category slug"
// @Param year query int false "Release year"
// @Success 200 {object} utils.StandardResponse{data=[]models.Title}
// @Failure 400 {object} utils.StandardResponse "Invalid filter"
// @Router /titles [get]
func (h *TitleHandler) ListTitles(c *fiber.Ctx) error {
	filter := models.TitleFilter{
		Name:     c.Query("name"),
		Genre:    c.Query("genre"),
		Category: c.Query("category"),
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return utils.HandleError(c, h.logger, apperr.Validation("Validation failed",
				apperr.FieldError{Field: "year", Message: "A valid integer is required"}))
		}
		filter.Year = year
	}

	titles, err := h.service.ListTitles(c.UserContext(), filter)
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Titles retrieved successfully", titles)
}

// GetTitle godoc
// @Summary Get title by ID
// @Tags titles
// @Produce json
// @Param id path int true "Title ID"
// @Success 200 {object} utils.StandardResponse{data=models.Title}
// @Failure 400 {object} utils.StandardResponse "Invalid title ID"
// @Failure 404 {object} utils.StandardResponse "Title not found"
// @Router /titles/{id} [get]
func (h *TitleHandler) GetTitle(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "title")
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	title, err := h.service.GetTitle(c.UserContext(), id)
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Title retrieved successfully", title)
}

// CreateTitle godoc
// @Summary Create a title
// @Description Admin only. Genres and category are given by slug.
// @Tags titles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param title body TitleRequest true "Title"
// @Success 201 {object} utils.StandardResponse{data=models.Title}
// @Failure 400 {object} utils.StandardResponse
// @Failure 401 {object} utils.StandardResponse
// @Failure 403 {object} utils.StandardResponse
// @Router /titles [post]
func (h *TitleHandler) CreateTitle(c *fiber.Ctx) error {
	var req TitleRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	title, err := h.service.CreateTitle(c.UserContext(), middleware.ActorFrom(c), req.toInput())
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, "Title created successfully", title)
}

// UpdateTitle godoc
// @Summary Update a title
// @Description Admin only. Partial update; omitted fields are unchanged.
// @Tags titles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Title ID"
// @Param title body TitleRequest true "Fields to change"
// @Success 200 {object} utils.StandardResponse{data=models.Title}
// @Failure 400 {object} utils.StandardResponse
// @Failure 401 {object} utils.StandardResponse
// @Failure 403 {object} utils.StandardResponse
// @Failure 404 {object} utils.StandardResponse
// @Router /titles/{id} [patch]
func (h *TitleHandler) UpdateTitle(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "title")
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	var req TitleRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	title, err := h.service.UpdateTitle(c.UserContext(), middleware.ActorFrom(c), id, req.toInput())
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Title updated successfully", title)
}

// DeleteTitle godoc
// @Summary Delete a title
// @Description Admin only. Removes the title's reviews and their comments.
// @Tags titles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Title ID"
// @Success 204
// @Failure 401 {object} utils.StandardResponse
// @Failure 403 {object} utils.StandardResponse
// @Failure 404 {object} utils.StandardResponse
// @Router /titles/{id} [delete]
func (h *TitleHandler) DeleteTitle(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "title")
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	if err := h.service.DeleteTitle(c.UserContext(), middleware.ActorFrom(c), id); err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
