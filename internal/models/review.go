package models

import "time"

type Review struct {
	ID       uint      `gorm:"primaryKey" json:"id" example:"1"`
	AuthorID uint      `gorm:"not null;uniqueIndex:idx_reviews_author_title" json:"-"`
	Author   *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	TitleID  uint      `gorm:"not null;uniqueIndex:idx_reviews_author_title;index" json:"-"`
	Title    *Title    `gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE" json:"-"`
	Score    int       `gorm:"not null;check:chk_reviews_score,score >= 1 AND score <= 10" json:"score" example:"8"`
	Text     string    `gorm:"type:text;not null" json:"text" example:"A masterpiece."`
	PubDate  time.Time `gorm:"autoCreateTime;index" json:"pub_date"`

	// AuthorName is filled from the users table when reading.
	AuthorName string `gorm:"->;-:migration" json:"author" example:"cinephile"`
}

func (Review) TableName() string {
	return "reviews"
}

type Comment struct {
	ID       uint      `gorm:"primaryKey" json:"id" example:"1"`
	AuthorID uint      `gorm:"not null;index" json:"-"`
	Author   *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	ReviewID uint      `gorm:"not null;index" json:"-"`
	Review   *Review   `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"-"`
	Text     string    `gorm:"type:text;not null" json:"text" example:"Agreed."`
	PubDate  time.Time `gorm:"autoCreateTime;index" json:"pub_date"`

	AuthorName string `gorm:"->;-:migration" json:"author" example:"cinephile"`
}

func (Comment) TableName() string {
	return "comments"
}
