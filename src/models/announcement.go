package models

import (
	"scb/src/types"
	"time"
)

type Announcement struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Title         string    `json:"title,omitempty"`
	Slug          string    `gorm:"index" json:"slug,omitempty"`
	Content       string    `json:"content,omitempty"`
	AuthorID      uint      `json:"author_id,omitempty"`
	PublishedDate time.Time `json:"publishedDate,omitempty"`
	IsActive      bool      `gorm:"default:true" json:"isActive"`

	Author *User `gorm:"foreignKey:author_id" json:"author,omitempty"`

	types.Timestamps
}
