package routes

import (
	"review-backend/internal/handlers"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Catalog *handlers.CatalogHandler
	Title   *handlers.TitleHandler
	Review  *handlers.ReviewHandler
	User    *handlers.UserHandler
	// Upload is nil when object storage is disabled.
	Upload *handlers.UploadHandler
}

// Setup mounts the API under /api/v1. authenticate runs on every API route;
// authLimit guards the signup and token endpoints.
func Setup(app *fiber.App, h Handlers, authenticate, authLimit fiber.Handler) {
	// API versioning
	api := app.Group("/api")
	v1 := api.Group("/v1", authenticate)

	// Auth routes - signup and confirmation code exchange
	auth := v1.Group("/auth", authLimit)
	{
		auth.Post("/signup", h.Auth.Signup)
		auth.Post("/token", h.Auth.Token)
	}

	// Catalog routes
	categories := v1.Group("/categories")
	{
		categories.Get("/", h.Catalog.ListCategories)
		categories.Post("/", h.Catalog.CreateCategory)
		categories.Delete("/:slug", h.Catalog.DeleteCategory)
	}

	genres := v1.Group("/genres")
	{
		genres.Get("/", h.Catalog.ListGenres)
		genres.Post("/", h.Catalog.CreateGenre)
		genres.Delete("/:slug", h.Catalog.DeleteGenre)
	}

	titles := v1.Group("/titles")
	{
		titles.Get("/", h.Title.ListTitles)
		titles.Get("/:id", h.Title.GetTitle)
		titles.Post("/", h.Title.CreateTitle)
		titles.Patch("/:id", h.Title.UpdateTitle)
		titles.Delete("/:id", h.Title.DeleteTitle)
	}

	// Review and comment routes, nested under their title
	reviews := titles.Group("/:title_id/reviews")
	{
		reviews.Get("/", h.Review.ListReviews)
		reviews.Post("/", h.Review.CreateReview)
		reviews.Get("/:review_id", h.Review.GetReview)
		reviews.Patch("/:review_id", h.Review.UpdateReview)
		reviews.Delete("/:review_id", h.Review.DeleteReview)

		reviews.Get("/:review_id/comments", h.Review.ListComments)
		reviews.Post("/:review_id/comments", h.Review.CreateComment)
		reviews.Get("/:review_id/comments/:comment_id", h.Review.GetComment)
		reviews.Patch("/:review_id/comments/:comment_id", h.Review.UpdateComment)
		reviews.Delete("/:review_id/comments/:comment_id", h.Review.DeleteComment)
	}

	// User routes; /me is registered before /:username
	users := v1.Group("/users")
	{
		users.Get("/me", h.User.GetMe)
		users.Patch("/me", h.User.UpdateMe)
		users.Get("/", h.User.ListUsers)
		users.Post("/", h.User.CreateUser)
		users.Get("/:username", h.User.GetUser)
		users.Patch("/:username", h.User.UpdateUser)
		users.Delete("/:username", h.User.DeleteUser)
	}

	if h.Upload != nil {
		uploads := v1.Group("/uploads")
		{
			uploads.Get("/poster-url", h.Upload.GetPosterURL)
		}
	}
}
