package models

import "time"

type Title struct {
	ID          uint      `gorm:"primaryKey" json:"id" example:"1"`
	Name        string    `gorm:"not null;size:256;index" json:"name" example:"The Godfather"`
	Year        int       `gorm:"not null;index" json:"year" example:"1972"`
	Description string    `gorm:"type:text" json:"description" example:"The aging patriarch of an organized crime dynasty..."`
	CategoryID  *uint     `gorm:"index" json:"-"`
	Category    *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category"`
	Genres      []Genre   `gorm:"many2many:title_genres" json:"genre"`
	PosterURL   string    `json:"poster_url,omitempty" example:"https://storage.example.com/posters/godfather_1a2b3c4d.jpg"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`

	// Rating is derived from the title's reviews on every read.
	Rating *int `gorm:"-" json:"rating" example:"9"`
}

func (Title) TableName() string {
	return "titles"
}

// TitleFilter narrows title listings. Zero values are ignored.
type TitleFilter struct {
	Name     string
	Genre    string
	Category string
	Year     int
}
