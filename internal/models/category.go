package models

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"-"`
	Name string `gorm:"not null;size:256;index" json:"name" example:"Films"`
	Slug string `gorm:"uniqueIndex;not null;size:50" json:"slug" example:"films"`
}

func (Category) TableName() string {
	return "categories"
}
