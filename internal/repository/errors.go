package repository

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrUserNotFound         = errors.New("user not found")
	ErrPostNotFound         = errors.New("post not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileExists        = errors.New("profile already exists")
	ErrBlogPostNotFound     = errors.New("blog post not found")
	ErrSessionNotFound      = errors.New("session not found")
	ErrResetTokenInvalid    = errors.New("invalid or expired reset token")
)
