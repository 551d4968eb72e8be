package mailer

import (
	"fmt"
	"net/smtp"
)

// SMTPConfig holds the SMTP credentials and sender identity.
// Leave Username/Password empty to run without email — sends are then
// reported as skipped rather than errors.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string // falls back to Username when empty
	FromName string
}

// SMTPMailer sends plain-text email through a single SMTP relay.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer constructs a Mailer backed by the given SMTP relay.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Configured reports whether SMTP credentials are present.
func (m *SMTPMailer) Configured() bool {
	return m.cfg.Username != "" && m.cfg.Password != ""
}

// SendInvite emails the invite link.
func (m *SMTPMailer) SendInvite(to, tripTitle, inviteURL string) (bool, error) {
	subject := fmt.Sprintf("You're invited to %s", tripTitle)
	body := fmt.Sprintf(`You've been invited to join %s.

Accept your invite here: %s

If you weren't expecting this, you can ignore this email.`, tripTitle, inviteURL)
	return m.send(to, subject, body)
}

// SendRSVPReminder emails an RSVP nudge.
func (m *SMTPMailer) SendRSVPReminder(to, tripTitle, tripURL string) (bool, error) {
	subject := fmt.Sprintf("RSVP needed for %s", tripTitle)
	body := fmt.Sprintf(`Please RSVP for %s.

Visit: %s`, tripTitle, tripURL)
	return m.send(to, subject, body)
}

// SendDepositReminder emails a deposit nudge with the formatted due date.
func (m *SMTPMailer) SendDepositReminder(to, tripTitle, tripURL, dueDateText string) (bool, error) {
	subject := fmt.Sprintf("Deposit due for %s", tripTitle)
	body := fmt.Sprintf(`Your deposit for %s is due by %s.

View the trip and payment details: %s`, tripTitle, dueDateText, tripURL)
	return m.send(to, subject, body)
}

// SendSignInCode emails the one-time passcode and the magic link.
func (m *SMTPMailer) SendSignInCode(to, code, magicLinkURL string) (bool, error) {
	subject := "Your sign-in code"
	body := fmt.Sprintf(`Your sign-in code is: %s

Or sign in with one click: %s

This code expires in 10 minutes. If you didn't request it, ignore this email.`, code, magicLinkURL)
	return m.send(to, subject, body)
}

// send delivers one plain-text message, or reports skipped when the relay is
// not configured.
func (m *SMTPMailer) send(to, subject, body string) (bool, error) {
	if !m.Configured() {
		return true, nil
	}

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}

	message := []byte(fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"\r\n"+
			"%s\r\n",
		m.cfg.FromName, from, to, subject, body))

	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := smtp.SendMail(addr, auth, from, []string{to}, message); err != nil {
		return false, fmt.Errorf("mailer.SMTPMailer.send: %w", err)
	}
	return false, nil
}
