package mail

import (
	"bytes"
	"context"
	"errors"
	"html"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/freelancer-be/internal/config"
	"github.com/hongminglow/freelancer-be/internal/logging"
)

type captureSender struct {
	msgs []Message
	err  error
}

func (c *captureSender) Send(_ context.Context, msg Message) error {
	if c.err != nil {
		return c.err
	}
	c.msgs = append(c.msgs, msg)
	return nil
}

const testLink = "http://localhost:3000/api/verify-email?token=abc123"

func TestVerificationMessage(t *testing.T) {
	msg, err := VerificationMessage("jane@example.com", testLink)
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", msg.To)
	assert.Equal(t, verificationSubject, msg.Subject)
	assert.Contains(t, msg.Text, testLink)
	assert.Contains(t, html.UnescapeString(msg.HTML), `href="`+testLink+`"`)
}

func TestVerificationMessageEscapesLink(t *testing.T) {
	msg, err := VerificationMessage("jane@example.com", `javascript:alert("x")`)
	require.NoError(t, err)
	assert.NotContains(t, msg.HTML, `href="javascript:`)
}

func TestDispatcherSendVerification(t *testing.T) {
	sender := &captureSender{}
	d := NewDispatcher(sender, logging.Discard())

	require.NoError(t, d.SendVerification(context.Background(), "jane@example.com", testLink))
	require.Len(t, sender.msgs, 1)
	assert.Equal(t, "jane@example.com", sender.msgs[0].To)
	assert.Contains(t, sender.msgs[0].Text, testLink)
}

func TestDispatcherPropagatesFailure(t *testing.T) {
	cause := errors.New("rate limited")
	d := NewDispatcher(&captureSender{err: cause}, logging.Discard())

	err := d.SendVerification(context.Background(), "jane@example.com", testLink)
	assert.ErrorIs(t, err, cause)
}

func TestNewSelectsSender(t *testing.T) {
	logger := logging.Discard()

	d, err := New(config.Config{}, logger)
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, d.sender)

	d, err = New(config.Config{MailActive: true, MailProvider: config.MailProviderResend, ResendAPIKey: "re_test", MailFrom: "hello@example.com"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &ResendSender{}, d.sender)

	d, err = New(config.Config{MailActive: true, MailProvider: config.MailProviderMailjet, MailjetKey: "k", MailjetSecret: "s"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &MailjetSender{}, d.sender)

	_, err = New(config.Config{MailActive: true, MailProvider: "carrier-pigeon"}, logger)
	assert.Error(t, err)
}

func TestResendRequest(t *testing.T) {
	s := NewResendSender("re_test", formatFrom("Freelancer Hub", "hello@example.com"))
	req := s.request(Message{To: "jane@example.com", Subject: "Hi", Text: "text", HTML: "<p>html</p>"})

	assert.Equal(t, "Freelancer Hub <hello@example.com>", req.From)
	assert.Equal(t, []string{"jane@example.com"}, req.To)
	assert.Equal(t, "Hi", req.Subject)
	assert.Equal(t, "text", req.Text)
	assert.Equal(t, "<p>html</p>", req.Html)
}

func TestMailjetMessages(t *testing.T) {
	s := NewMailjetSender("k", "s", "hello@example.com", "Freelancer Hub")
	msgs := s.messages(Message{To: "jane@example.com", Subject: "Hi", Text: "text", HTML: "<p>html</p>"})

	require.Len(t, msgs.Info, 1)
	info := msgs.Info[0]
	assert.Equal(t, "hello@example.com", info.From.Email)
	assert.Equal(t, "Freelancer Hub", info.From.Name)
	require.Len(t, *info.To, 1)
	assert.Equal(t, "jane@example.com", (*info.To)[0].Email)
	assert.Equal(t, "text", info.TextPart)
	assert.Equal(t, "<p>html</p>", info.HTMLPart)
}

func TestLogSenderOmitsBody(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(logging.New(&buf, "debug", "text"))

	require.NoError(t, s.Send(context.Background(), Message{To: "jane@example.com", Subject: "Hi", Text: testLink}))
	assert.Contains(t, buf.String(), "jane@example.com")
	assert.NotContains(t, buf.String(), "abc123")
}

func TestFormatFrom(t *testing.T) {
	assert.Equal(t, "hello@example.com", formatFrom("", "hello@example.com"))
}
