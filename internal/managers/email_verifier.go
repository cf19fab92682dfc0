package managers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"blog-server/internal/config"

	"github.com/mailgun/mailgun-go/v4"
	log "github.com/sirupsen/logrus"
	"github.com/truemail-rb/truemail-go"
)

// Verdict is the judgement of a deliverability check.
type Verdict int

const (
	VerdictUnknown Verdict = iota
	VerdictDeliverable
	VerdictUndeliverable
)

func (v Verdict) String() string {
	switch v {
	case VerdictDeliverable:
		return "deliverable"
	case VerdictUndeliverable:
		return "undeliverable"
	default:
		return "unknown"
	}
}

// EmailVerifier checks whether an address can receive mail.
type EmailVerifier interface {
	Verify(ctx context.Context, email string) (Verdict, error)
}

// NewEmailVerifier returns the verifier selected by EMAIL_VERIFIER.
func NewEmailVerifier(cfg *config.Config) (EmailVerifier, error) {
	log.Info("Initializing email verifier: ", cfg.EmailVerifier)

	switch cfg.EmailVerifier {
	case config.VerifierTruemail:
		return NewTruemailVerifier(cfg.VerifierEmail)
	case config.VerifierMailgun:
		return &MailgunVerifier{validator: mailgun.NewEmailValidator(cfg.MailgunAPIKey)}, nil
	case config.VerifierNone:
		return NoopVerifier{}, nil
	default:
		return nil, fmt.Errorf("unknown email verifier %q", cfg.EmailVerifier)
	}
}

// TruemailVerifier checks the MX records of the address domain.
type TruemailVerifier struct {
	validate func(email string) (*truemail.ValidatorResult, error)
	lookupMX func(ctx context.Context, domain string) ([]*net.MX, error)
}

// NewTruemailVerifier configures an MX based truemail check.
func NewTruemailVerifier(verifierEmail string) (*TruemailVerifier, error) {
	configuration, err := truemail.NewConfiguration(truemail.ConfigurationAttr{
		VerifierEmail:         verifierEmail,
		ValidationTypeDefault: "mx",
		SmtpFailFast:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("configure truemail: %w", err)
	}

	return &TruemailVerifier{
		validate: func(email string) (*truemail.ValidatorResult, error) {
			return truemail.Validate(email, configuration)
		},
		lookupMX: net.DefaultResolver.LookupMX,
	}, nil
}

type truemailOutcome struct {
	result *truemail.ValidatorResult
	err    error
}

// Verify runs the lookup in the background so the caller's context bounds the wait.
func (tv *TruemailVerifier) Verify(ctx context.Context, email string) (Verdict, error) {
	outcome := make(chan truemailOutcome, 1)
	go func() {
		result, err := tv.validate(email)
		outcome <- truemailOutcome{result: result, err: err}
	}()

	select {
	case o := <-outcome:
		if o.err != nil {
			return VerdictUnknown, fmt.Errorf("truemail check: %w", o.err)
		}
		if o.result.Success {
			return VerdictDeliverable, nil
		}
		if _, mxFailed := o.result.Errors[truemailMxLayer]; mxFailed {
			return tv.confirmNoMailServer(ctx, emailDomain(o.result, email))
		}
		return VerdictUndeliverable, nil
	case <-ctx.Done():
		return VerdictUnknown, fmt.Errorf("truemail check: %w", ctx.Err())
	}
}

const truemailMxLayer = "mx"

// confirmNoMailServer repeats the MX query, since truemail reports a resolver outage the same
// way as a domain without mail servers. Only an authoritative answer counts as undeliverable.
func (tv *TruemailVerifier) confirmNoMailServer(ctx context.Context, domain string) (Verdict, error) {
	records, err := tv.lookupMX(ctx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return VerdictUndeliverable, nil
		}
		return VerdictUnknown, fmt.Errorf("mx lookup for %s: %w", domain, err)
	}
	if len(records) == 0 {
		return VerdictUndeliverable, nil
	}
	return VerdictUnknown, fmt.Errorf("mx lookup for %s: mail servers found after failed check", domain)
}

func emailDomain(result *truemail.ValidatorResult, email string) string {
	if result.Domain != "" {
		return result.Domain
	}
	return email[strings.LastIndex(email, "@")+1:]
}

// emailValidator is the part of the Mailgun validation client the MailgunVerifier uses.
type emailValidator interface {
	ValidateEmail(ctx context.Context, email string, mailBoxVerify bool) (mailgun.EmailVerification, error)
}

// MailgunVerifier asks the Mailgun validation API.
type MailgunVerifier struct {
	validator emailValidator
}

func (mv *MailgunVerifier) Verify(ctx context.Context, email string) (Verdict, error) {
	verification, err := mv.validator.ValidateEmail(ctx, email, true)
	if err != nil {
		return VerdictUnknown, fmt.Errorf("mailgun validation: %w", err)
	}

	if !verification.IsValid || verification.MailboxVerification == "false" {
		return VerdictUndeliverable, nil
	}
	return VerdictDeliverable, nil
}

// NoopVerifier accepts every address. Used in development and tests.
type NoopVerifier struct{}

func (NoopVerifier) Verify(context.Context, string) (Verdict, error) {
	return VerdictDeliverable, nil
}
