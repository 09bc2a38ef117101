package mailer

import (
	"fmt"

	"github.com/aurora-society/aurora-backend/internal/config"
	pkglogger "github.com/aurora-society/aurora-backend/pkg/logger"
	"gopkg.in/gomail.v2"
)

// Mailer sends transactional email
type Mailer interface {
	Send(to, subject, html string) error
	SendTwoFactorCode(to, code string) error
	SendFamilyInvite(to, sponsorName, linkURL string) error
	SendVerificationOutcome(to, status string) error
	SendSponsorNotification(to, registrantName string) error
	SendContactRelay(name, email, category, message string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	sender string
	staff  string // destination for contact-form relays
}

// NewSMTPMailer creates a Mailer backed by an SMTP server
func NewSMTPMailer(cfg config.SMTPConfig) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		sender: cfg.Sender,
		staff:  cfg.Sender,
	}
}

// Send delivers a single HTML email
func (m *smtpMailer) Send(to, subject, html string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mail send to %s failed: %w", to, err)
	}

	pkglogger.GetLogger().Info().Str("to", to).Str("subject", subject).Msg("mail sent")
	return nil
}

// SendTwoFactorCode delivers a login verification code
func (m *smtpMailer) SendTwoFactorCode(to, code string) error {
	html := fmt.Sprintf(`
		<h2>Your verification code</h2>
		<p>Your login code is:</p>
		<p style="font-size:28px;letter-spacing:6px;font-weight:bold">%s</p>
		<p>This code is valid for 5 minutes.</p>
		<p>If you did not request this code, please ignore this email.</p>`, code)
	return m.Send(to, "Aurora Society Verification Code", html)
}

// SendFamilyInvite delivers a family registration link
func (m *smtpMailer) SendFamilyInvite(to, sponsorName, linkURL string) error {
	html := fmt.Sprintf(`
		<h2>You have been invited to Aurora Society</h2>
		<p>%s has invited you to join as a family member.</p>
		<p><a href="%s">Complete your registration</a></p>`, sponsorName, linkURL)
	return m.Send(to, "Aurora Society Family Invitation", html)
}

// SendVerificationOutcome notifies a member of their identity check result
func (m *smtpMailer) SendVerificationOutcome(to, status string) error {
	html := fmt.Sprintf(`
		<h2>Identity verification update</h2>
		<p>Your identity verification is now: <strong>%s</strong>.</p>`, status)
	return m.Send(to, "Aurora Society Identity Verification", html)
}

// SendSponsorNotification tells a sponsor a registrant awaits their decision
func (m *smtpMailer) SendSponsorNotification(to, registrantName string) error {
	html := fmt.Sprintf(`
		<h2>A new registration needs your approval</h2>
		<p>%s registered with your referral code and is awaiting your decision.</p>`, registrantName)
	return m.Send(to, "Aurora Society Sponsor Approval Request", html)
}

// SendContactRelay forwards a contact-form submission to staff
func (m *smtpMailer) SendContactRelay(name, email, category, message string) error {
	html := fmt.Sprintf(`
		<h2>Contact form: %s</h2>
		<p><strong>From:</strong> %s &lt;%s&gt;</p>
		<p>%s</p>`, category, name, email, message)
	return m.Send(m.staff, "Aurora Society Contact: "+category, html)
}
