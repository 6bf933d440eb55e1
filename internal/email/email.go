// Package email renders and sends the MyCAD transactional emails.
//
// Rendering and delivery are separate concerns: the Renderer turns an
// email kind plus parameters into a branded HTML document with a
// localized subject line, and a Sender (SMTP in this repo) delivers the
// rendered message and returns a generated message id.
package email

import (
	"context"
)

// =============================================================================
// Email Kinds
// =============================================================================

// Kind identifies a transactional email variant.
type Kind string

const (
	// KindVerification carries an account verification link.
	KindVerification Kind = "verification"

	// KindPasswordReset carries a password reset link.
	KindPasswordReset Kind = "password-reset"

	// KindReport notifies that a generated report is available.
	KindReport Kind = "report"

	// KindNotification is a generic titled notification.
	KindNotification Kind = "notification"

	// KindSimple is a bare subject + body message.
	KindSimple Kind = "simple"
)

// IsValid returns true if the kind is a recognized value.
func (k Kind) IsValid() bool {
	switch k {
	case KindVerification, KindPasswordReset, KindReport, KindNotification, KindSimple:
		return true
	}
	return false
}

// NeedsLink reports whether the kind requires a resolvable link.
func (k Kind) NeedsLink() bool {
	return k == KindVerification || k == KindPasswordReset
}

// =============================================================================
// Parameters
// =============================================================================

// Params carries the inputs for rendering one email. Only the fields
// relevant to the requested kind are consulted.
type Params struct {
	To   string // Recipient email address
	Name string // Recipient display name for personalization
	Lang string // "es" or "en"; anything else falls back to Spanish

	// Link resolution for verification / password-reset. Exactly one of
	// these three options must be usable: an explicit link, a token, or
	// a userId+secret pair.
	Link   string
	Token  string
	UserID string
	Secret string

	// Report kind
	ReportName string
	ReportURL  string

	// Notification kind
	Title   string
	Message string

	// Simple kind
	Subject string
	Body    string
}

// =============================================================================
// Rendered Output
// =============================================================================

// Rendered is the output of the template engine, ready for delivery.
type Rendered struct {
	Subject  string
	HTMLBody string
	TextBody string
}

// =============================================================================
// Sender Interface
// =============================================================================

// Sender delivers a rendered email and returns a generated message id.
type Sender interface {
	Send(ctx context.Context, to string, msg Rendered) (string, error)
}

// =============================================================================
// Configuration Types
// =============================================================================

// SMTPConfig holds SMTP server configuration.
type SMTPConfig struct {
	Host     string // SMTP server hostname (e.g., "localhost" for Mailhog)
	Port     int    // SMTP server port (e.g., 1025 for Mailhog)
	Username string // SMTP authentication username (empty for Mailhog)
	Password string // SMTP authentication password (empty for Mailhog)
	From     string // Default sender email address
	FromName string // Default sender display name
}

// =============================================================================
// Common Constants
// =============================================================================

const (
	// DefaultFromEmail is the default sender email for transactional emails.
	DefaultFromEmail = "noreply@mycad.mx"

	// DefaultFromName is the default sender display name.
	DefaultFromName = "MyCAD"
)
