package handlers

import (
	"review-backend/internal/middleware"
	"review-backend/internal/services"
	"review-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type UploadHandler struct {
	titles services.TitleService
	logger *logrus.Logger
}

func NewUploadHandler(titles services.TitleService, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{
		titles: titles,
		logger: logger,
	}
}

// GetPosterURL godoc
// @Summary Get presigned URL for a poster upload
// @Description Admin only. Returns a presigned PUT URL and the public URL to set as the title's poster_url.
// @Tags uploads
// @Produce json
// @Security BearerAuth
// @Param filename query string true "Filename"
// @Success 200 {object} utils.StandardResponse{data=services.PosterUpload}
// @Failure 400 {object} utils.StandardResponse
// @Failure 401 {object} utils.StandardResponse
// @Failure 403 {object} utils.StandardResponse
// @Failure 500 {object} utils.StandardResponse
// @Router /uploads/poster-url [get]
func (h *UploadHandler) GetPosterURL(c *fiber.Ctx) error {
	upload, err := h.titles.PresignPoster(c.UserContext(), middleware.ActorFrom(c), c.Query("filename"))
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Presigned URL generated successfully", upload)
}
