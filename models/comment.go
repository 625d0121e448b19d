package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GuestName is substituted for blank or missing commenter names.
const GuestName = "Guest"

// Comment is a visitor comment on the site. ReplyTo is nil for a top-level
// comment and carries the parent comment id for a reply. The column is a
// plain uuid, not a foreign key: a dangling reply simply never renders.
type Comment struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	ReplyTo   *string   `gorm:"type:uuid;index" json:"reply_to"`
	Likes     int       `gorm:"not null" json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns the server-generated id.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
