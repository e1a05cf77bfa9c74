package models

type Genre struct {
	ID   uint   `gorm:"primaryKey" json:"-"`
	Name string `gorm:"not null;size:256;index" json:"name" example:"Drama"`
	Slug string `gorm:"uniqueIndex;not null;size:50" json:"slug" example:"drama"`
}

func (Genre) TableName() string {
	return "genres"
}

// TitleGenre is the explicit join between titles and genres.
type TitleGenre struct {
	TitleID uint `gorm:"primaryKey;autoIncrement:false" json:"title_id"`
	GenreID uint `gorm:"primaryKey;autoIncrement:false;index" json:"genre_id"`
}

func (TitleGenre) TableName() string {
	return "title_genres"
}
