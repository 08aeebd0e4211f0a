package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// DefaultPostTTL is how long a post stays visible when the caller does not set ExpiresAt
const DefaultPostTTL = 30 * 24 * time.Hour

// ErrExpiryBeforeCreation is returned when a post would expire before it was created
var ErrExpiryBeforeCreation = errors.New("post expiry precedes creation time")

// Post is an ephemeral, location-scoped request. Author name and initials are copied
// from the request at write time. Latitude and Longitude never change after insert.
type Post struct {
	ID             string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Content        string     `gorm:"type:text;not null" json:"content"`
	AuthorID       string     `gorm:"type:varchar(64);index" json:"authorId"`
	AuthorName     string     `gorm:"not null" json:"authorName"`
	AuthorInitials string     `gorm:"not null" json:"authorInitials"`
	Latitude       float64    `gorm:"not null;index:idx_posts_lat_lng,priority:1" json:"latitude"`
	Longitude      float64    `gorm:"not null;index:idx_posts_lat_lng,priority:2" json:"longitude"`
	LocationName   *string    `json:"locationName"`
	Hashtags       StringList `gorm:"not null" json:"hashtags"`
	Likes          int        `gorm:"not null;default:0" json:"likes"`
	Reactions      Reactions  `gorm:"not null" json:"reactions"`
	CreatedAt      time.Time  `gorm:"not null;index" json:"createdAt"`
	ExpiresAt      time.Time  `gorm:"not null;index" json:"expiresAt"`
}

// Comment belongs to a post and is removed with it
type Comment struct {
	ID             string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	PostID         string    `gorm:"type:varchar(64);not null;index:idx_comments_post_created,priority:1" json:"postId"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	AuthorID       string    `gorm:"type:varchar(64);index" json:"authorId"`
	AuthorName     string    `gorm:"not null" json:"authorName"`
	AuthorInitials string    `gorm:"not null" json:"authorInitials"`
	Likes          int       `gorm:"not null;default:0" json:"likes"`
	Reactions      Reactions `gorm:"not null" json:"reactions"`
	CreatedAt      time.Time `gorm:"not null;index:idx_comments_post_created,priority:2" json:"createdAt"`
}

// BeforeCreate assigns the id and the default expiry
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = generateUUID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = tx.NowFunc()
	}
	if p.ExpiresAt.IsZero() {
		p.ExpiresAt = p.CreatedAt.Add(DefaultPostTTL)
	}
	if p.ExpiresAt.Before(p.CreatedAt) {
		return ErrExpiryBeforeCreation
	}
	if p.Hashtags == nil {
		p.Hashtags = StringList{}
	}
	if p.Reactions == nil {
		p.Reactions = Reactions{}
	}
	return nil
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = generateUUID()
	}
	if c.Reactions == nil {
		c.Reactions = Reactions{}
	}
	return nil
}
