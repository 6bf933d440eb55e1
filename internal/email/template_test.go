package email

import (
	"testing"

	"github.com/mycad/backoffice/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer("https://app.mycad.mx")
	require.NoError(t, err)
	return r
}

func TestRenderer_Verification(t *testing.T) {
	r := newTestRenderer(t)

	t.Run("english with token", func(t *testing.T) {
		out, err := r.Render(KindVerification, Params{
			To:    "a@b.com",
			Name:  "Ana",
			Lang:  "en",
			Token: "T",
		})

		require.NoError(t, err)
		assert.Equal(t, "Verify your MyCAD account", out.Subject)
		assert.Contains(t, out.HTMLBody, "Verify account")
		assert.Contains(t, out.HTMLBody, "token=T")
		assert.Contains(t, out.TextBody, "token=T")
	})

	t.Run("defaults to spanish", func(t *testing.T) {
		out, err := r.Render(KindVerification, Params{
			To:    "a@b.com",
			Token: "T",
		})

		require.NoError(t, err)
		assert.Equal(t, "Verifica tu cuenta de MyCAD", out.Subject)
		assert.Contains(t, out.HTMLBody, "Verificar cuenta")
		assert.Contains(t, out.HTMLBody, "token=T")
	})

	t.Run("unknown lang falls back to spanish", func(t *testing.T) {
		out, err := r.Render(KindVerification, Params{
			To:    "a@b.com",
			Lang:  "fr",
			Token: "T",
		})

		require.NoError(t, err)
		assert.Equal(t, "Verifica tu cuenta de MyCAD", out.Subject)
	})
}

func TestRenderer_LinkResolution(t *testing.T) {
	r := newTestRenderer(t)

	tests := []struct {
		name     string
		params   Params
		expected string
	}{
		{
			name:     "explicit link wins",
			params:   Params{To: "a@b.com", Link: "https://other.example/confirm", Token: "T"},
			expected: "https://other.example/confirm",
		},
		{
			name:     "token builds verify link",
			params:   Params{To: "a@b.com", Token: "tok 123"},
			expected: "https://app.mycad.mx/verify?token=tok+123",
		},
		{
			name:     "userId and secret pair",
			params:   Params{To: "a@b.com", UserID: "u1", Secret: "s1"},
			expected: "https://app.mycad.mx/verify?userId=u1&secret=s1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Render(KindVerification, tt.params)
			require.NoError(t, err)
			assert.Contains(t, out.TextBody, tt.expected)
		})
	}
}

func TestRenderer_ValidationErrors(t *testing.T) {
	r := newTestRenderer(t)

	tests := []struct {
		name   string
		kind   Kind
		params Params
	}{
		{
			name:   "verification with no link option",
			kind:   KindVerification,
			params: Params{To: "a@b.com"},
		},
		{
			name:   "password reset with secret but no userId",
			kind:   KindPasswordReset,
			params: Params{To: "a@b.com", Secret: "s1"},
		},
		{
			name:   "missing recipient",
			kind:   KindVerification,
			params: Params{Token: "T"},
		},
		{
			name:   "report without url",
			kind:   KindReport,
			params: Params{To: "a@b.com"},
		},
		{
			name:   "notification without message",
			kind:   KindNotification,
			params: Params{To: "a@b.com", Title: "Aviso"},
		},
		{
			name:   "simple without body",
			kind:   KindSimple,
			params: Params{To: "a@b.com", Subject: "Hola"},
		},
		{
			name:   "unknown kind",
			kind:   Kind("bogus"),
			params: Params{To: "a@b.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Render(tt.kind, tt.params)
			require.Error(t, err)
			assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
		})
	}
}

func TestRenderer_PasswordReset(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Render(KindPasswordReset, Params{
		To:    "a@b.com",
		Name:  "Ana",
		Token: "reset-tok",
	})

	require.NoError(t, err)
	assert.Equal(t, "Restablece tu contraseña de MyCAD", out.Subject)
	assert.Contains(t, out.HTMLBody, "/reset-password?token=reset-tok")
	assert.Contains(t, out.HTMLBody, "Hola Ana")
}

func TestRenderer_Report(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Render(KindReport, Params{
		To:         "a@b.com",
		Lang:       "en",
		ReportName: "service_r1_123.pdf",
		ReportURL:  "https://app.mycad.mx/files/abc",
	})

	require.NoError(t, err)
	assert.Equal(t, "Your report is ready", out.Subject)
	assert.Contains(t, out.HTMLBody, "service_r1_123.pdf")
	assert.Contains(t, out.HTMLBody, "https://app.mycad.mx/files/abc")
}

func TestRenderer_NotificationAndSimple(t *testing.T) {
	r := newTestRenderer(t)

	t.Run("notification uses title as subject", func(t *testing.T) {
		out, err := r.Render(KindNotification, Params{
			To:      "a@b.com",
			Title:   "Mantenimiento programado",
			Message: "El sistema estará en mantenimiento el viernes.",
		})

		require.NoError(t, err)
		assert.Equal(t, "Mantenimiento programado", out.Subject)
		assert.Contains(t, out.HTMLBody, "El sistema estará en mantenimiento el viernes.")
	})

	t.Run("notification falls back to localized subject", func(t *testing.T) {
		out, err := r.Render(KindNotification, Params{
			To:      "a@b.com",
			Message: "Aviso general",
		})

		require.NoError(t, err)
		assert.Equal(t, "Notificación de MyCAD", out.Subject)
	})

	t.Run("simple passes subject and body through", func(t *testing.T) {
		out, err := r.Render(KindSimple, Params{
			To:      "a@b.com",
			Subject: "Asunto",
			Body:    "Cuerpo del mensaje",
		})

		require.NoError(t, err)
		assert.Equal(t, "Asunto", out.Subject)
		assert.Contains(t, out.HTMLBody, "Cuerpo del mensaje")
	})
}
