package repository

import "gorm.io/gorm"

// Repositories bundles every repository over one connection
type Repositories struct {
	Users          UserRepository
	Sessions       SessionRepository
	PasswordResets PasswordResetRepository
	Profiles       ProfileRepository
	Posts          PostRepository
	Comments       CommentRepository
	Conversations  ConversationRepository
	Feedback       FeedbackRepository
	Blog           BlogRepository
	DailyQuestions DailyQuestionRepository
}

// NewRepositories wires all repositories to db
func NewRepositories(db *gorm.DB, postOpts PostRepositoryOptions) *Repositories {
	return &Repositories{
		Users:          NewUserRepository(db),
		Sessions:       NewSessionRepository(db),
		PasswordResets: NewPasswordResetRepository(db),
		Profiles:       NewProfileRepository(db),
		Posts:          NewPostRepository(db, postOpts),
		Comments:       NewCommentRepository(db),
		Conversations:  NewConversationRepository(db),
		Feedback:       NewFeedbackRepository(db),
		Blog:           NewBlogRepository(db),
		DailyQuestions: NewDailyQuestionRepository(db),
	}
}
