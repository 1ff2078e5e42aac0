package mail

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationEmail(t *testing.T) {
	msg := VerificationEmail("ada@example.com", "Ada", "http://localhost:9090", "abc-123")

	assert.Equal(t, "ada@example.com", msg.To)
	assert.Equal(t, "Verify Your Email Address", msg.Subject)
	assert.False(t, msg.HTML)
	assert.Contains(t, msg.Body, "Dear Ada,")
	assert.Contains(t, msg.Body, "http://localhost:9090/auth/verify-email?token=abc-123")
}

func TestProductOperationEmail_EscapesProductName(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	msg, err := ProductOperationEmail("admin@example.com", "", "added", "<b>Laptop</b>", "http://shop", at)
	require.NoError(t, err)

	assert.True(t, msg.HTML)
	assert.Contains(t, msg.Body, "Dear Admin,")
	assert.Contains(t, msg.Body, "<strong>added</strong>")
	assert.Contains(t, msg.Body, "&lt;b&gt;Laptop&lt;/b&gt;")
	assert.Contains(t, msg.Body, "http://shop/admin/dashboard")
	assert.Contains(t, msg.Body, "Wed, 01 May 2024 10:00:00 UTC")
}

func TestBuildMessage(t *testing.T) {
	gm := buildMessage("shop@example.com", Message{To: "a@b.c", Subject: "Hi", Body: "<p>x</p>", HTML: true})

	var buf bytes.Buffer
	_, err := gm.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "From: shop@example.com")
	assert.Contains(t, raw, "To: a@b.c")
	assert.Contains(t, raw, "Subject: Hi")
	assert.True(t, strings.Contains(raw, "text/html"))
}

func TestSMTPMailer_CancelledContext(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 2525, From: "x@y.z"}, hclog.NewNullLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Send(ctx, Message{To: "a@b.c"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLogMailer(t *testing.T) {
	var out bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Output: &out, Level: hclog.Info})

	err := NewLogMailer(logger).Send(context.Background(), Message{To: "a@b.c", Subject: "Hello"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "subject=Hello")
}
