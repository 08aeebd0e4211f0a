package email

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/localfeat/backend/internal/logger"
	"go.uber.org/zap"
)

// Sender delivers transactional mail
type Sender interface {
	SendPasswordResetEmail(ctx context.Context, toEmail, resetToken string) error
}

// sesAPI is the part of the SES client used here
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// EmailService handles sending emails via AWS SES
type EmailService struct {
	client    sesAPI
	fromEmail string
	fromName  string
	baseURL   string
}

// NewEmailService creates a new email service using AWS SES
func NewEmailService(region, fromEmail, fromName, baseURL string) (*EmailService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &EmailService{
		client:    ses.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
		baseURL:   baseURL,
	}, nil
}

// ResetURL is the link the user follows to choose a new password
func ResetURL(baseURL, token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", baseURL, url.QueryEscape(token))
}

// SendPasswordResetEmail sends a password reset email with the reset token
func (e *EmailService) SendPasswordResetEmail(ctx context.Context, toEmail, resetToken string) error {
	resetURL := ResetURL(e.baseURL, resetToken)

	subject := "Reset your LocalFeat password"
	htmlBody := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head><meta charset="UTF-8"></head>
		<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333;">
			<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
				<h1>Reset your password</h1>
				<p>Someone asked to reset the password for your LocalFeat account.</p>
				<p>This link expires in 1 hour.</p>
				<a href="%s" style="display: inline-block; padding: 12px 24px; background-color: #2563eb; color: white; text-decoration: none; border-radius: 6px;">Reset password</a>
				<p style="word-break: break-all; color: #666;">%s</p>
				<p>If you did not ask for this, ignore this email.</p>
			</div>
		</body>
		</html>
	`, resetURL, resetURL)

	textBody := fmt.Sprintf(`Reset your LocalFeat password

Someone asked to reset the password for your LocalFeat account.
This link expires in 1 hour:

%s

If you did not ask for this, ignore this email.
`, resetURL)

	from := e.fromEmail
	if e.fromName != "" {
		from = fmt.Sprintf("%s <%s>", e.fromName, e.fromEmail)
	}

	input := &ses.SendEmailInput{
		Source: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(htmlBody),
					Charset: aws.String("UTF-8"),
				},
				Text: &types.Content{
					Data:    aws.String(textBody),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if _, err := e.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

// LogSender writes the reset link to the log instead of sending mail. Used when SES is not configured.
type LogSender struct {
	BaseURL string
}

func (l LogSender) SendPasswordResetEmail(ctx context.Context, toEmail, resetToken string) error {
	logger.Log.Info("Password reset link (email delivery disabled)",
		zap.String("to", toEmail),
		zap.String("reset_url", ResetURL(l.BaseURL, resetToken)),
	)
	return nil
}
