package mail

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisabledMailerReturnsSentinel(t *testing.T) {
	mailer, err := NewSMTPMailer(SMTPSettings{Enabled: false})
	require.NoError(t, err)

	err = mailer.Send(context.Background(), Message{To: "user@example.com"})
	require.ErrorIs(t, err, ErrSMTPDisabled)
}

func TestEnabledMailerRequiresHostAndPort(t *testing.T) {
	_, err := NewSMTPMailer(SMTPSettings{Enabled: true, Port: 587})
	require.Error(t, err)

	_, err = NewSMTPMailer(SMTPSettings{Enabled: true, Host: "smtp.example.com"})
	require.Error(t, err)
}

func TestFormatMessageSeparatesHeadersFromBody(t *testing.T) {
	raw := formatMessage("noreply@example.com", "user@example.com", "Hi", "Hello Jo,\n\nfollow the link")

	headerEnd := strings.Index(raw, "\r\n\r\n")
	require.NotEqual(t, -1, headerEnd, "header section must end with an empty line")

	header, body := raw[:headerEnd], raw[headerEnd+4:]
	require.Contains(t, header, "Content-Type: text/plain; charset=UTF-8")
	require.Equal(t, "Hello Jo,\r\n\r\nfollow the link", body)
}

func TestFormatMessageEscapesHeaders(t *testing.T) {
	raw := formatMessage("noreply@example.com", "user@example.com", "Hello\r\nBcc: evil@example.com", "body")

	require.False(t, strings.Contains(raw, "Subject: Hello\r\nBcc"))
	require.True(t, strings.Contains(raw, "To: user@example.com"))
	require.True(t, strings.HasSuffix(raw, "body"))
}
