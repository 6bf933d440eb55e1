package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/mycad/backoffice/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// =============================================================================
// Translation Table
// =============================================================================

// translations holds the localized strings for both supported languages.
// Any unrecognized language tag falls back to Spanish.
var translations = map[string]map[string]string{
	"es": {
		"greeting":               "Hola",
		"verification.subject":   "Verifica tu cuenta de MyCAD",
		"verification.title":     "Confirma tu correo electrónico",
		"verification.body":      "Gracias por registrarte en MyCAD. Haz clic en el botón para verificar tu cuenta.",
		"verification.button":    "Verificar cuenta",
		"password-reset.subject": "Restablece tu contraseña de MyCAD",
		"password-reset.title":   "Restablecer contraseña",
		"password-reset.body":    "Recibimos una solicitud para restablecer tu contraseña. Haz clic en el botón para elegir una nueva.",
		"password-reset.button":  "Restablecer contraseña",
		"report.subject":         "Tu reporte está listo",
		"report.title":           "Reporte disponible",
		"report.body":            "El reporte %s ya está disponible para su descarga.",
		"report.button":          "Ver reporte",
		"notification.subject":   "Notificación de MyCAD",
		"link.fallback":          "Si el botón no funciona, copia y pega este enlace en tu navegador:",
		"footer.ignore":          "Si no esperabas este correo, puedes ignorarlo.",
		"footer.rights":          "Todos los derechos reservados.",
	},
	"en": {
		"greeting":               "Hi",
		"verification.subject":   "Verify your MyCAD account",
		"verification.title":     "Confirm your email address",
		"verification.body":      "Thanks for signing up for MyCAD. Click the button below to verify your account.",
		"verification.button":    "Verify account",
		"password-reset.subject": "Reset your MyCAD password",
		"password-reset.title":   "Reset password",
		"password-reset.body":    "We received a request to reset your password. Click the button below to choose a new one.",
		"password-reset.button":  "Reset password",
		"report.subject":         "Your report is ready",
		"report.title":           "Report available",
		"report.body":            "The report %s is now available for download.",
		"report.button":          "View report",
		"notification.subject":   "MyCAD notification",
		"link.fallback":          "If the button doesn't work, copy and paste this link into your browser:",
		"footer.ignore":          "If you weren't expecting this email, you can safely ignore it.",
		"footer.rights":          "All rights reserved.",
	},
}

// DefaultLang is used when the request carries no language tag.
const DefaultLang = "es"

// resolveLang normalizes a language tag to a supported table key.
func resolveLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if _, ok := translations[lang]; ok {
		return lang
	}
	return DefaultLang
}

// =============================================================================
// Renderer
// =============================================================================

// Renderer turns an email kind plus parameters into a branded HTML
// document and a localized subject line. It performs no network I/O.
type Renderer struct {
	baseURL   string
	templates *template.Template
}

// NewRenderer creates a Renderer with the embedded templates.
// baseURL is the public application URL used to build links from
// tokens, e.g. "https://app.mycad.mx".
func NewRenderer(baseURL string) (*Renderer, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &Renderer{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		templates: templates,
	}, nil
}

// templateData is the payload handed to every kind template.
type templateData struct {
	Greeting     string
	Name         string
	Title        string
	Body         string
	ButtonLabel  string
	ButtonURL    string
	LinkFallback string
	FooterIgnore string
	FooterRights string
	Year         int
}

// Render produces the subject, HTML body, and plain text fallback for
// the given kind. Validation failures are returned before any template
// execution.
func (r *Renderer) Render(kind Kind, p Params) (Rendered, error) {
	const op = "email.render"

	if !kind.IsValid() {
		return Rendered{}, domain.Invalid(op, fmt.Sprintf("unsupported email kind %q", kind))
	}
	if p.To == "" {
		return Rendered{}, domain.Invalid(op, "recipient email is required")
	}

	t := translations[resolveLang(p.Lang)]

	data := templateData{
		Greeting:     t["greeting"],
		Name:         p.Name,
		LinkFallback: t["link.fallback"],
		FooterIgnore: t["footer.ignore"],
		FooterRights: t["footer.rights"],
		Year:         time.Now().Year(),
	}

	var subject, tmpl string

	switch kind {
	case KindVerification:
		link, err := r.resolveLink(op, p, "/verify")
		if err != nil {
			return Rendered{}, err
		}
		subject = t["verification.subject"]
		data.Title = t["verification.title"]
		data.Body = t["verification.body"]
		data.ButtonLabel = t["verification.button"]
		data.ButtonURL = link
		tmpl = "action.html"

	case KindPasswordReset:
		link, err := r.resolveLink(op, p, "/reset-password")
		if err != nil {
			return Rendered{}, err
		}
		subject = t["password-reset.subject"]
		data.Title = t["password-reset.title"]
		data.Body = t["password-reset.body"]
		data.ButtonLabel = t["password-reset.button"]
		data.ButtonURL = link
		tmpl = "action.html"

	case KindReport:
		if p.ReportURL == "" {
			return Rendered{}, domain.Invalid(op, "report URL is required")
		}
		name := p.ReportName
		if name == "" {
			name = "MyCAD"
		}
		subject = t["report.subject"]
		data.Title = t["report.title"]
		data.Body = fmt.Sprintf(t["report.body"], name)
		data.ButtonLabel = t["report.button"]
		data.ButtonURL = p.ReportURL
		tmpl = "action.html"

	case KindNotification:
		if p.Message == "" {
			return Rendered{}, domain.Invalid(op, "notification message is required")
		}
		subject = p.Title
		if subject == "" {
			subject = t["notification.subject"]
		}
		data.Title = subject
		data.Body = p.Message
		tmpl = "notification.html"

	case KindSimple:
		if p.Subject == "" || p.Body == "" {
			return Rendered{}, domain.Invalid(op, "subject and body are required")
		}
		subject = p.Subject
		data.Title = p.Subject
		data.Body = p.Body
		tmpl = "notification.html"
	}

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, tmpl, data); err != nil {
		return Rendered{}, domain.Internal(err, op, "failed to render email template")
	}

	return Rendered{
		Subject:  subject,
		HTMLBody: buf.String(),
		TextBody: buildTextBody(data),
	}, nil
}

// resolveLink builds the CTA link for link-bearing kinds. Precedence:
// explicit link, then token, then userId+secret pair. All three absent
// is a validation error.
func (r *Renderer) resolveLink(op string, p Params, path string) (string, error) {
	switch {
	case p.Link != "":
		return p.Link, nil
	case p.Token != "":
		return fmt.Sprintf("%s%s?token=%s", r.baseURL, path, url.QueryEscape(p.Token)), nil
	case p.UserID != "" && p.Secret != "":
		return fmt.Sprintf("%s%s?userId=%s&secret=%s",
			r.baseURL, path, url.QueryEscape(p.UserID), url.QueryEscape(p.Secret)), nil
	}
	return "", domain.Invalid(op, "a link, token, or userId and secret pair is required")
}

// buildTextBody assembles the plain text alternative from the same
// localized strings used for the HTML part.
func buildTextBody(data templateData) string {
	var b strings.Builder

	if data.Name != "" {
		fmt.Fprintf(&b, "%s %s,\n\n", data.Greeting, data.Name)
	}
	if data.Title != "" {
		fmt.Fprintf(&b, "%s\n\n", data.Title)
	}
	fmt.Fprintf(&b, "%s\n", data.Body)
	if data.ButtonURL != "" {
		fmt.Fprintf(&b, "\n%s\n", data.ButtonURL)
	}
	fmt.Fprintf(&b, "\n%s\n", data.FooterIgnore)

	return b.String()
}
