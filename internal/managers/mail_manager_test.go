package managers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"blog-server/internal/config"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	client   *mailgun.MailgunImpl
	subjects []string
	bodies   []string
	to       []string
	sendErr  error
	sent     int
}

func newFakeSender() *fakeSender {
	return &fakeSender{client: mailgun.NewMailgun("mg.example.com", "key")}
}

func (f *fakeSender) NewMessage(from, subject, text string, to ...string) *mailgun.Message {
	f.subjects = append(f.subjects, subject)
	f.bodies = append(f.bodies, text)
	f.to = append(f.to, to...)
	return f.client.NewMessage(from, subject, text, to...)
}

func (f *fakeSender) Send(context.Context, *mailgun.Message) (string, string, error) {
	f.sent++
	return "queued", "<id@mg.example.com>", f.sendErr
}

func TestMailManagerSkipsOutsideProduction(t *testing.T) {
	sender := newFakeSender()
	mm := newMailManager(&config.Config{Environment: "development", FrontendURL: "http://frontend.test"}, sender)

	require.NoError(t, mm.SendVerificationMail(context.Background(), "a@x.com", "Alice", "http://frontend.test/verify-email?token=abc"))
	require.NoError(t, mm.SendConfirmationMail(context.Background(), "a@x.com", "Alice"))
	assert.Zero(t, sender.sent)
}

func TestMailManagerSendsInProduction(t *testing.T) {
	sender := newFakeSender()
	cfg := &config.Config{Environment: "production", FrontendURL: "http://frontend.test", MailFrom: "BlogApp <noreply@mg.example.com>"}
	mm := newMailManager(cfg, sender)

	link := "http://frontend.test/verify-email?token=abc"
	require.NoError(t, mm.SendVerificationMail(context.Background(), "a@x.com", "Alice", link))

	assert.Equal(t, 1, sender.sent)
	assert.Equal(t, []string{"a@x.com"}, sender.to)
	assert.Equal(t, []string{"Verify your email address"}, sender.subjects)
	assert.True(t, strings.Contains(sender.bodies[0], link))
}

func TestMailManagerSendFailure(t *testing.T) {
	sender := newFakeSender()
	sender.sendErr = errors.New("401 unauthorized")
	mm := newMailManager(&config.Config{Environment: "production"}, sender)

	err := mm.SendConfirmationMail(context.Background(), "a@x.com", "Alice")
	assert.ErrorContains(t, err, "401 unauthorized")
	assert.Equal(t, []string{"Email address verified"}, sender.subjects)
}
