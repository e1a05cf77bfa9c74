package handlers

import (
	"review-backend/internal/middleware"
	"review-backend/internal/services"
	"review-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type CatalogHandler struct {
	service services.CatalogService
	logger  *logrus.Logger
}

func NewCatalogHandler(service services.CatalogService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

// ListCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Param search query string false "Search by name"
// @Success 200 {object} utils.StandardResponse{data=[]models.Category}
// @Router /categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext(), c.Query("search"))
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Categories retrieved successfully", categories)
}

// CreateCategory godoc
// @Summary Create a category
// @Description Admin only
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body NamedSlugRequest true "Category"
// @Success 201 {object} utils.StandardResponse{data=models.Category}
// @Failure 400 {object} utils.StandardResponse
// @Failure 401 {object} utils.StandardResponse
// @Failure 403 {object} utils.StandardResponse
// @Failure 409 {object} utils.StandardResponse
// @Router /categories [post]
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var req NamedSlugRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	category, err := h.service.CreateCategory(c.UserContext(), middleware.ActorFrom(c), req.Name, req.Slug)
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, "Category created successfully", category)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Admin only. Titles in the category are kept without a category.
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Category slug"
// @Success 204
// @Failure 401 {object} utils.StandardResponse
// @Failure 403 {object} utils.StandardResponse
// @Failure 404 {object} utils.StandardResponse
// @Router /categories/{slug} [delete]
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.service.DeleteCategory(c.UserContext(), middleware.ActorFrom(c), c.Params("slug")); err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListGenres godoc
// @Summary List genres
// @Tags genres
// @Produce json
// @Param search query string false "Search by name"
// @Success 200 {object} utils.StandardResponse{data=[]models.Genre}
// @Router /genres [get]
func (h *CatalogHandler) ListGenres(c *fiber.Ctx) error {
	genres, err := h.service.ListGenres(c.UserContext(), c.Query("search"))
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Genres retrieved successfully", genres)
}

// CreateGenre godoc
// @Summary Create a genre
// @Description Admin only
// @Tags genres
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body NamedSlugRequest true "Genre"
// @Success 201 {object} utils.StandardResponse{data=models.Genre}
// @Failure 400 {object} utils.StandardResponse
// @Failure 401 {object} utils.StandardResponse
// @Failure 403 {object} utils.StandardResponse
// @Failure 409 {object} utils.StandardResponse
// @Router /genres [post]
func (h *CatalogHandler) CreateGenre(c *fiber.Ctx) error {
	var req NamedSlugRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	genre, err := h.service.CreateGenre(c.UserContext(), middleware.ActorFrom(c), req.Name, req.Slug)
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, "Genre created successfully", genre)
}

// DeleteGenre godoc
// @Summary Delete a genre
// @Description Admin only. The genre is removed from every title.
// @Tags genres
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Genre slug"
// @Success 204
// @Failure 401 {object} utils.StandardResponse
// @Failure 403 {object} utils.StandardResponse
// @Failure 404 {object} utils.StandardResponse
// @Router /genres/{slug} [delete]
func (h *CatalogHandler) DeleteGenre(c *fiber.Ctx) error {
	if err := h.service.DeleteGenre(c.UserContext(), middleware.ActorFrom(c), c.Params("slug")); err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
