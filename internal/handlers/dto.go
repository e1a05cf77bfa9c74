package handlers

import (
	"review-backend/internal/services"
)

type SignupRequest struct {
	Username string `json:"username" example:"cinephile"`
	Email    string `json:"email" example:"cinephile@example.com"`
}

type SignupResponse struct {
	Username string `json:"username" example:"cinephile"`
	Email    string `json:"email" example:"cinephile@example.com"`
}

type TokenRequest struct {
	Username         string `json:"username" example:"cinephile"`
	ConfirmationCode string `json:"confirmation_code" example:"3F9A1C0B7E2D"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// NamedSlugRequest creates a category or genre.
type NamedSlugRequest struct {
	Name string `json:"name" example:"Drama"`
	Slug string `json:"slug" example:"drama"`
}

// TitleRequest is used for both create and partial update; omitted fields
// are left unchanged on update.
type TitleRequest struct {
	Name        *string   `json:"name" example:"Solaris"`
	Year        *int      `json:"year" example:"1972"`
	Description *string   `json:"description" example:"A psychologist is sent to a station orbiting a distant planet."`
	Genre       *[]string `json:"genre"`
	Category    *string   `json:"category" example:"films"`
	PosterURL   *string   `json:"poster_url"`
}

func (r TitleRequest) toInput() services.TitleInput {
	return services.TitleInput{
		Name:        r.Name,
		Year:        r.Year,
		Description: r.Description,
		Genres:      r.Genre,
		Category:    r.Category,
		PosterURL:   r.PosterURL,
	}
}

type ReviewRequest struct {
	Text  string `json:"text" example:"A slow, hypnotic masterpiece."`
	Score int    `json:"score" example:"9"`
}

type ReviewPatchRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

type CommentRequest struct {
	Text string `json:"text" example:"Agreed, the ending stays with you."`
}

// UserRequest is used for admin create/update and for /users/me, where
// role is ignored.
type UserRequest struct {
	Username  *string `json:"username" example:"cinephile"`
	Email     *string `json:"email" example:"cinephile@example.com"`
	FirstName *string `json:"first_name" example:"Ann"`
	LastName  *string `json:"last_name" example:"Lee"`
	Bio       *string `json:"bio" example:"Film buff"`
	Role      *string `json:"role" example:"user"`
}

func (r UserRequest) toInput() services.UserInput {
	return services.UserInput{
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Bio:       r.Bio,
		Role:      r.Role,
	}
}
