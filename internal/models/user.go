package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account. PasswordHash is nil for accounts created through Google.
type User struct {
	ID              string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Username        string    `gorm:"uniqueIndex;not null" json:"username"`
	Email           string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone           *string   `json:"phone,omitempty"`
	PasswordHash    *string   `json:"-"`
	FirstName       *string   `json:"firstName"`
	LastName        *string   `json:"lastName"`
	ProfileImageURL *string   `json:"profileImageUrl"`
	GoogleID        *string   `gorm:"uniqueIndex" json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// PublicUser is the account shape returned to its owner
type PublicUser struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// UserSummary is what other users may see
type UserSummary struct {
	ID              string  `json:"id"`
	Username        string  `json:"username"`
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:              u.ID,
		Username:        u.Username,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfileImageURL: u.ProfileImageURL,
	}
}

// DisplayName prefers "First Last" and falls back to the username
func (u *User) DisplayName() string {
	name := ""
	if u.FirstName != nil {
		name = *u.FirstName
	}
	if u.LastName != nil && *u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += *u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

// Session is a server-side login session keyed by the cookie value
type Session struct {
	ID        string    `gorm:"primaryKey;type:varchar(128)" json:"id"`
	UserID    string    `gorm:"type:varchar(64);not null;index" json:"userId"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// PasswordReset is a single-use token issued by the forgot-password flow
type PasswordReset struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID    string    `gorm:"type:varchar(64);not null;index" json:"userId"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expiresAt"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserProfile holds the editable profile fields and an inline image when S3 is not configured
type UserProfile struct {
	ID               string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID           string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"userId"`
	DisplayName      *string   `gorm:"size:50" json:"displayName"`
	Bio              *string   `gorm:"size:100" json:"bio"`
	ProfileImageURL  *string   `json:"profileImageUrl"`
	ProfileImageData *string   `gorm:"type:text" json:"-"`
	ProfileImageType *string   `json:"profileImageType,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = generateUUID()
	}
	return nil
}

func (p *PasswordReset) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = generateUUID()
	}
	return nil
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = generateUUID()
	}
	return nil
}

func generateUUID() string {
	return uuid.New().String()
}
