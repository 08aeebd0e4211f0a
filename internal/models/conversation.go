package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation is a direct thread between two users. Participant order is whatever
// the creator sent; lookups match either order.
type Conversation struct {
	ID             string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Participant1ID string    `gorm:"type:varchar(64);not null;index" json:"participant1Id"`
	Participant2ID string    `gorm:"type:varchar(64);not null;index" json:"participant2Id"`
	CreatedAt      time.Time `json:"createdAt"`
}

// HasParticipant reports whether userID is one of the two participants
func (c *Conversation) HasParticipant(userID string) bool {
	return c.Participant1ID == userID || c.Participant2ID == userID
}

type Message struct {
	ID             string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	ConversationID string    `gorm:"type:varchar(64);not null;index:idx_messages_conversation_created,priority:1" json:"conversationId"`
	SenderID       string    `gorm:"type:varchar(64);not null" json:"senderId"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	CreatedAt      time.Time `gorm:"index:idx_messages_conversation_created,priority:2" json:"createdAt"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = generateUUID()
	}
	return nil
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = generateUUID()
	}
	return nil
}
