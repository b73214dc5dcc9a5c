package notification

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/teerapatc/storefront-auth/internal/model"
	"github.com/teerapatc/storefront-auth/internal/usecase"
	"github.com/teerapatc/storefront-auth/shared/mailer"
)

// EmailNotifier sends account-lifecycle email through the SMTP mailer. Every
// send runs on its own goroutine; failures are logged and never surface to
// the flows that triggered them.
type EmailNotifier struct {
	mailer    *mailer.Mailer
	clientURL string
	logger    *zerolog.Logger
}

var _ usecase.Notifier = (*EmailNotifier)(nil)

// NewEmailNotifier creates a new EmailNotifier. Links in outgoing mail point
// at clientURL.
func NewEmailNotifier(m *mailer.Mailer, clientURL string, logger *zerolog.Logger) *EmailNotifier {
	return &EmailNotifier{
		mailer:    m,
		clientURL: clientURL,
		logger:    logger,
	}
}

func (n *EmailNotifier) SendWelcome(user *model.User) {
	htmlBody := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Welcome aboard! Your account has been created.</p>
		<p>Happy shopping,</p>
		<p>The Storefront Team</p>
	`, user.FirstName)

	n.send(user.Email, "Welcome to Storefront", htmlBody)
}

func (n *EmailNotifier) SendVerification(user *model.User, token string) {
	verifyLink := fmt.Sprintf("%s/account/verify/%s/%s", n.clientURL, user.ID.Hex(), token)
	htmlBody := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Please confirm your email address by clicking the link below:</p>

		<p><a href="%s">%s</a></p>

		<p>If you did not create this account, you can safely ignore this email.</p>
		<p>Thank you,</p>
		<p>The Storefront Team</p>
	`, user.FirstName, verifyLink, verifyLink)

	n.send(user.Email, "Verify your email address", htmlBody)
}

func (n *EmailNotifier) SendOTP(user *model.User, code string) {
	htmlBody := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your one-time login code is:</p>

		<p><strong>%s</strong></p>

		<p>The code expires in 30 minutes. If you did not try to log in,
		please change your password.</p>
		<p>The Storefront Team</p>
	`, user.FirstName, code)

	n.send(user.Email, "Your login code", htmlBody)
}

func (n *EmailNotifier) SendPasswordReset(user *model.User, token string) {
	resetLink := fmt.Sprintf("%s/reset-password/%s", n.clientURL, token)
	htmlBody := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>We received a request to reset the password for your account.</p>
		<p>If you made this request, please click the link below to create a new password:</p>

		<p><a href="%s">%s</a></p>

		<p>If you did not request a password reset, you can safely ignore this email.</p>
		<p>Thank you,</p>
		<p>The Storefront Team</p>
	`, user.FirstName, resetLink, resetLink)

	n.send(user.Email, "Password Reset Request", htmlBody)
}

func (n *EmailNotifier) SendLoginAlert(user *model.User, meta usecase.LoginMetadata) {
	htmlBody := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>A new login to your account was just recorded:</p>

		<p>IP address: %s<br>Device: %s</p>

		<p>If this was you, no action is needed. Otherwise please reset your
		password immediately.</p>
		<p>The Storefront Team</p>
	`, user.FirstName, meta.IPAddress, meta.UserAgent)

	n.send(user.Email, "New login to your account", htmlBody)
}

func (n *EmailNotifier) send(to, subject, htmlBody string) {
	go func() {
		if err := n.mailer.SendHTML([]string{to}, subject, htmlBody); err != nil {
			n.logger.Error().Err(err).Str("subject", subject).Msg("failed to send email")
		}
	}()
}
