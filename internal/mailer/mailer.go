// Package mailer delivers invite, reminder, and sign-in emails over SMTP.
// Delivery is best-effort by design: when no SMTP credentials are configured
// every send reports "skipped" instead of failing, and the invite links become
// the delivery mechanism, shared manually by the organizer.
package mailer

// Mailer is the notification delivery collaborator consumed by the services.
// Every send returns (skipped, err): skipped=true means the channel is not
// configured and nothing was attempted; err means an attempt was made and
// failed. Callers tally skipped sends as successes.
type Mailer interface {
	// Configured reports whether a delivery channel is set up at all.
	Configured() bool

	// SendInvite emails the invite link built from the token.
	SendInvite(to, tripTitle, inviteURL string) (skipped bool, err error)

	// SendRSVPReminder nudges a guest who has not answered yet.
	SendRSVPReminder(to, tripTitle, tripURL string) (skipped bool, err error)

	// SendDepositReminder nudges a guest whose deposit is outstanding.
	// dueDateText is pre-formatted by the caller ("January 2, 2026" or "soon").
	SendDepositReminder(to, tripTitle, tripURL, dueDateText string) (skipped bool, err error)

	// SendSignInCode emails the one-time passcode and magic link.
	SendSignInCode(to, code, magicLinkURL string) (skipped bool, err error)
}
