package handlers

import (
	"review-backend/internal/middleware"
	"review-backend/internal/services"
	"review-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ReviewHandler struct {
	service services.ReviewService
	logger  *logrus.Logger
}

func NewReviewHandler(service services.ReviewService, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  logger,
	}
}

func (h *ReviewHandler) reviewPath(c *fiber.Ctx) (titleID, reviewID uint, err error) {
	if titleID, err = paramID(c, "title_id", "title"); err != nil {
		return 0, 0, err
	}
	if reviewID, err = paramID(c, "review_id", "review"); err != nil {
		return 0, 0, err
	}
	return titleID, reviewID, nil
}

// ListReviews godoc
// @Summary List reviews of a title
// @Tags reviews
// @Produce json
// @Param title_id path int true "Title ID"
// @Success 200 {object} utils.StandardResponse{data=[]models.Review}
// @Failure 404 {object} utils.StandardResponse "Title not found"
// @Router /titles/{title_id}/reviews [get]
func (h *ReviewHandler) ListReviews(c *fiber.Ctx) error {
	titleID, err := paramID(c, "title_id", "title")
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	reviews, err := h.service.ListReviews(c.UserContext(), titleID)
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Reviews retrieved successfully", reviews)
}

// GetReview godoc
// @Summary Get a review
// @Tags reviews
// @Produce json
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Success 200 {object} utils.StandardResponse{data=models.Review}
// @Failure 404 {object} utils.StandardResponse
// @Router /titles/{title_id}/reviews/{review_id} [get]
func (h *ReviewHandler) GetReview(c *fiber.Ctx) error {
	titleID, reviewID, err := h.reviewPath(c)
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	review, err := h.service.GetReview(c.UserContext(), titleID, reviewID)
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Review retrieved successfully", review)
}

// CreateReview godoc
// @Summary Review a title
// @Description One review per user and title. Score must be between 1 and 10.
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param title_id path int true "Title ID"
// @Param review body ReviewRequest true "Review"
// @Success 201 {object} utils.StandardResponse{data=models.Review}
// @Failure 400 {object} utils.StandardResponse "Invalid score or text"
// @Failure 401 {object} utils.StandardResponse
// @Failure 404 {object} utils.StandardResponse "Title not found"
// @Failure 409 {object} utils.StandardResponse "Already reviewed"
// @Router /titles/{title_id}/reviews [post]
func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	titleID, err := paramID(c, "title_id", "title")
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	var req ReviewRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	review, err := h.service.SubmitReview(c.UserContext(), middleware.ActorFrom(c), titleID, req.Score, req.Text)
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, "Review created successfully", review)
}

// UpdateReview godoc
// @Summary Update a review
// @Description Author, moderator or admin. Partial update of text and score.
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Param review body ReviewPatchRequest true "Fields to change"
// @Success 200 {object} utils.StandardResponse{data=models.Review}
// @Failure 400 {object} utils.StandardResponse
// @Failure 401 {object} utils.StandardResponse
// @Failure 403 {object} utils.StandardResponse
// @Failure 404 {object} utils.StandardResponse
// @Router /titles/{title_id}/reviews/{review_id} [patch]
func (h *ReviewHandler) UpdateReview(c *fiber.Ctx) error {
	titleID, reviewID, err := h.reviewPath(c)
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	var req ReviewPatchRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	review, err := h.service.UpdateReview(c.UserContext(), middleware.ActorFrom(c), titleID, reviewID,
		services.ReviewPatch{Text: req.Text, Score: req.Score})
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Review updated successfully", review)
}

// DeleteReview godoc
// @Summary Delete a review
// @Description Author, moderator or admin. Comments on the review are removed too.
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Success 204
// @Failure 401 {object} utils.StandardResponse
// @Failure 403 {object} utils.StandardResponse
// @Failure 404 {object} utils.StandardResponse
// @Router /titles/{title_id}/reviews/{review_id} [delete]
func (h *ReviewHandler) DeleteReview(c *fiber.Ctx) error {
	titleID, reviewID, err := h.reviewPath(c)
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	if err := h.service.DeleteReview(c.UserContext(), middleware.ActorFrom(c), titleID, reviewID); err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListComments godoc
// @Summary List comments on a review
// @Tags comments
// @Produce json
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Success 200 {object} utils.StandardResponse{data=[]models.Comment}
// @Failure 404 {object} utils.StandardResponse
// @Router /titles/{title_id}/reviews/{review_id}/comments [get]
func (h *ReviewHandler) ListComments(c *fiber.Ctx) error {
	titleID, reviewID, err := h.reviewPath(c)
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	comments, err := h.service.ListComments(c.UserContext(), titleID, reviewID)
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Comments retrieved successfully", comments)
}

// GetComment godoc
// @Summary Get a comment
// @Tags comments
// @Produce json
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Param comment_id path int true "Comment ID"
// @Success 200 {object} utils.StandardResponse{data=models.Comment}
// @Failure 404 {object} utils.StandardResponse
// @Router /titles/{title_id}/reviews/{review_id}/comments/{comment_id} [get]
func (h *ReviewHandler) GetComment(c *fiber.Ctx) error {
	titleID, reviewID, err := h.reviewPath(c)
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	commentID, err := paramID(c, "comment_id", "comment")
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	comment, err := h.service.GetComment(c.UserContext(), titleID, reviewID, commentID)
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Comment retrieved successfully", comment)
}

// CreateComment godoc
// @Summary Comment on a review
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Param comment body CommentRequest true "Comment"
// @Success 201 {object} utils.StandardResponse{data=models.Comment}
// @Failure 400 {object} utils.StandardResponse
// @Failure 401 {object} utils.StandardResponse
// @Failure 404 {object} utils.StandardResponse
// @Router /titles/{title_id}/reviews/{review_id}/comments [post]
func (h *ReviewHandler) CreateComment(c *fiber.Ctx) error {
	titleID, reviewID, err := h.reviewPath(c)
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	var req CommentRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	comment, err := h.service.AddComment(c.UserContext(), middleware.ActorFrom(c), titleID, reviewID, req.Text)
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, "Comment created successfully", comment)
}

// UpdateComment godoc
// @Summary Update a comment
// @Description Author, moderator or admin.
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Param comment_id path int true "Comment ID"
// @Param comment body CommentRequest true "Comment"
// @Success 200 {object} utils.StandardResponse{data=models.Comment}
// @Failure 400 {object} utils.StandardResponse
// @Failure 401 {object} utils.StandardResponse
// @Failure 403 {object} utils.StandardResponse
// @Failure 404 {object} utils.StandardResponse
// @Router /titles/{title_id}/reviews/{review_id}/comments/{comment_id} [patch]
func (h *ReviewHandler) UpdateComment(c *fiber.Ctx) error {
	titleID, reviewID, err := h.reviewPath(c)
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	commentID, err := paramID(c, "comment_id", "comment")
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	var req CommentRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	comment, err := h.service.UpdateComment(c.UserContext(), middleware.ActorFrom(c), titleID, reviewID, commentID, req.Text)
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Comment updated successfully", comment)
}

// DeleteComment godoc
// @Summary Delete a comment
// @Description Author, moderator or admin.
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Param comment_id path int true "Comment ID"
// @Success 204
// @Failure 401 {object} utils.StandardResponse
// @Failure 403 {object} utils.StandardResponse
// @Failure 404 {object} utils.StandardResponse
// @Router /titles/{title_id}/reviews/{review_id}/comments/{comment_id} [delete]
func (h *ReviewHandler) DeleteComment(c *fiber.Ctx) error {
	titleID, reviewID, err := h.reviewPath(c)
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	commentID, err := paramID(c, "comment_id", "comment")
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	if err := h.service.DeleteComment(c.UserContext(), middleware.ActorFrom(c), titleID, reviewID, commentID); err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
