package managers

import (
	"context"
	"fmt"
	"time"

	"blog-server/internal/config"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/matcornic/hermes/v2"
	log "github.com/sirupsen/logrus"
)

const mailTimeout = 5 * time.Second

// MailMgr is an interface that outlines the contract for email dispatch.
type MailMgr interface {
	SendVerificationMail(ctx context.Context, email, name, link string) error
	SendConfirmationMail(ctx context.Context, email, name string) error
}

// mailSender is the part of the Mailgun client the MailManager uses.
type mailSender interface {
	NewMessage(from, subject, text string, to ...string) *mailgun.Message
	Send(ctx context.Context, m *mailgun.Message) (string, string, error)
}

// MailManager is a concrete implementation of the MailMgr interface.
// It uses the Mailgun service for sending emails and the Hermes package for formatting emails.
// Outside of production mails are only logged.
type MailManager struct {
	Hermes     *hermes.Hermes
	Mailgun    mailSender
	from       string
	production bool
}

// SendVerificationMail sends the link a new user has to open to verify their email address.
func (mm *MailManager) SendVerificationMail(ctx context.Context, email, name, link string) error {
	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: name,
			Intros: []string{
				fmt.Sprintf("Welcome to %s! We're very excited to have you on board.", mm.Hermes.Product.Name),
			},
			Actions: []hermes.Action{
				{
					Instructions: "To verify your email address, please click the button below. The link is valid for 24 hours.",
					Button: hermes.Button{
						Color: "#22BC66",
						Text:  "Verify your email",
						Link:  link,
					},
				},
			},
			Outros: []string{
				"If you did not sign up, you can safely ignore this email.",
			},
		},
	}

	return mm.send(ctx, email, "Verify your email address", mailBody)
}

// SendConfirmationMail tells a user that their email address has been verified.
func (mm *MailManager) SendConfirmationMail(ctx context.Context, email, name string) error {
	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: name,
			Intros: []string{
				"Your email address has been verified successfully. You can log in now.",
			},
			Outros: []string{
				fmt.Sprintf("Have fun using %s!", mm.Hermes.Product.Name),
			},
		},
	}

	return mm.send(ctx, email, "Email address verified", mailBody)
}

func (mm *MailManager) send(ctx context.Context, email, subject string, mailBody hermes.Email) error {
	emailBody, err := mm.Hermes.GenerateHTML(mailBody)
	if err != nil {
		return fmt.Errorf("render mail: %w", err)
	}

	if !mm.production {
		log.Infof("Skipping mail %q to %s outside of production", subject, email)
		return nil
	}

	plainText, err := mm.Hermes.GeneratePlainText(mailBody)
	if err != nil {
		return fmt.Errorf("render plain text mail: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, mailTimeout)
	defer cancel()

	message := mm.Mailgun.NewMessage(mm.from, subject, plainText, email)
	message.SetHtml(emailBody)
	if _, _, err := mm.Mailgun.Send(ctx, message); err != nil {
		log.Warning("Error sending mail: " + err.Error())
		return fmt.Errorf("send mail: %w", err)
	}
	log.Debug("Mail sent to ", email)

	return nil
}

// NewMailManager initializes a new MailManager instance with configured Mailgun and Hermes settings.
func NewMailManager(cfg *config.Config) MailMgr {
	log.Info("Initializing mail manager")

	if !cfg.IsProduction() {
		log.Info("Running outside of production, emails will not be sent to users")
	}

	mailgunInstance := mailgun.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey)
	if cfg.MailgunEU {
		mailgunInstance.SetAPIBase(mailgun.APIBaseEU)
	}

	return newMailManager(cfg, mailgunInstance)
}

func newMailManager(cfg *config.Config, sender mailSender) *MailManager {
	return &MailManager{
		Hermes: &hermes.Hermes{
			Theme:         new(hermes.Default),
			TextDirection: hermes.TDLeftToRight,
			Product: hermes.Product{
				Name:        "BlogApp",
				Link:        cfg.FrontendURL + "/",
				Copyright:   "© BlogApp",
				TroubleText: "If you’re having trouble with the button '{ACTION}', copy and paste the URL below into your web browser.",
			},
		},
		Mailgun:    sender,
		from:       cfg.MailFrom,
		production: cfg.IsProduction(),
	}
}
