package models

import (
	"time"

	"gorm.io/gorm"
)

// Feedback statuses
const (
	FeedbackStatusOpen     = "open"
	FeedbackStatusResolved = "resolved"
)

// Feedback is a bug report or suggestion; anonymous submissions have no UserID
type Feedback struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Type      string    `gorm:"not null" json:"type"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	UserID    *string   `gorm:"type:varchar(64);index" json:"userId"`
	UserInfo  *string   `gorm:"type:text" json:"userInfo"`
	Status    string    `gorm:"not null" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Feedback) TableName() string {
	return "feedback"
}

// BlogPost is an admin-authored article addressed by slug
type BlogPost struct {
	ID              string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Title           string     `gorm:"not null" json:"title"`
	Slug            string     `gorm:"uniqueIndex;not null" json:"slug"`
	Content         string     `gorm:"type:text;not null" json:"content"`
	Excerpt         string     `gorm:"type:text" json:"excerpt"`
	Tags            StringList `gorm:"not null" json:"tags"`
	MetaTitle       *string    `json:"metaTitle"`
	MetaDescription *string    `json:"metaDescription"`
	Featured        bool       `gorm:"not null;index" json:"featured"`
	Published       bool       `gorm:"not null;index" json:"published"`
	ViewCount       int        `gorm:"not null;default:0" json:"viewCount"`
	CreatedAt       time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// DailyQuestionResponse is an answer to the question of the day
type DailyQuestionResponse struct {
	ID         string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Question   string    `gorm:"type:text;not null" json:"question"`
	Response   string    `gorm:"type:text;not null" json:"response"`
	AuthorID   string    `gorm:"type:varchar(64);index" json:"authorId"`
	AuthorName string    `gorm:"not null" json:"authorName"`
	Location   *string   `json:"location"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = generateUUID()
	}
	if f.Status == "" {
		f.Status = FeedbackStatusOpen
	}
	return nil
}

func (b *BlogPost) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = generateUUID()
	}
	if b.Tags == nil {
		b.Tags = StringList{}
	}
	return nil
}

func (d *DailyQuestionResponse) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = generateUUID()
	}
	return nil
}
