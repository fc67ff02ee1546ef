package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/devmonks/metrdotel/pkg/logger"
	"github.com/devmonks/metrdotel/pkg/mail"
	"github.com/devmonks/metrdotel/pkg/metrics"
)

// EventKind names the account lifecycle notifications.
type EventKind string

const (
	KindSignup           EventKind = "signup"
	KindActivationResent EventKind = "activation_resent"
	KindPasswordReset    EventKind = "password_reset"
)

// Event describes one notification to deliver. The token value is embedded
// into the link the recipient must follow.
type Event struct {
	Kind      EventKind
	Recipient string
	FirstName string
	Token     string
}

// Notifier delivers account lifecycle notifications. Implementations must
// not block the caller and must not surface delivery failures.
type Notifier interface {
	Notify(event Event)
}

const defaultDeliveryTimeout = 30 * time.Second

// Option customises the MailNotifier.
type Option func(*MailNotifier)

// WithDeliveryTimeout bounds how long a single delivery may take.
func WithDeliveryTimeout(d time.Duration) Option {
	return func(n *MailNotifier) {
		if d > 0 {
			n.timeout = d
		}
	}
}

// WithDispatch overrides the goroutine dispatch, primarily so tests can run
// deliveries synchronously.
func WithDispatch(dispatch func(func())) Option {
	return func(n *MailNotifier) {
		if dispatch != nil {
			n.dispatch = dispatch
		}
	}
}

// MailNotifier renders events into plain-text emails and hands them to the
// mailer on a separate goroutine. The triggering request never waits for,
// or learns about, the delivery outcome.
type MailNotifier struct {
	mailer   mail.Mailer
	baseURL  string
	timeout  time.Duration
	dispatch func(func())
	log      *zap.Logger
}

// NewMailNotifier constructs a notifier that links back to the given base URL.
func NewMailNotifier(mailer mail.Mailer, baseURL string, opts ...Option) (*MailNotifier, error) {
	if mailer == nil {
		return nil, errors.New("notify: mailer is required")
	}

	notifier := &MailNotifier{
		mailer:   mailer,
		baseURL:  strings.TrimRight(baseURL, "/"),
		timeout:  defaultDeliveryTimeout,
		dispatch: func(fn func()) { go fn() },
		log:      logger.WithModule("notify"),
	}

	for _, opt := range opts {
		opt(notifier)
	}

	return notifier, nil
}

// Notify schedules the event for background delivery and returns immediately.
func (n *MailNotifier) Notify(event Event) {
	n.dispatch(func() { n.deliver(event) })
}

func (n *MailNotifier) deliver(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	msg, ok := n.render(event)
	if !ok {
		n.log.Warn("dropping notification of unknown kind", zap.String("kind", string(event.Kind)))
		return
	}

	if err := n.mailer.Send(ctx, msg); err != nil {
		if errors.Is(err, mail.ErrSMTPDisabled) {
			return
		}
		metrics.MailDispatches.WithLabelValues(string(event.Kind), "failure").Inc()
		n.log.Error("notification delivery failed",
			zap.String("kind", string(event.Kind)),
			zap.Error(err),
		)
		return
	}

	metrics.MailDispatches.WithLabelValues(string(event.Kind), "success").Inc()
}

func (n *MailNotifier) render(event Event) (mail.Message, bool) {
	greeting := "Hello"
	if event.FirstName != "" {
		greeting = "Hello " + event.FirstName
	}

	switch event.Kind {
	case KindSignup:
		return mail.Message{
			To:      event.Recipient,
			Subject: "[Metrdotel] Confirm your email",
			Body: fmt.Sprintf("%s,\n\nYou registered successfully. To confirm your registration, please click on the below link.\n\n%s\n",
				greeting, n.activationLink(event.Token)),
		}, true
	case KindActivationResent:
		return mail.Message{
			To:      event.Recipient,
			Subject: "[Metrdotel] Activate your account",
			Body: fmt.Sprintf("%s,\n\nHere is a new activation link for your account.\n\n%s\n",
				greeting, n.activationLink(event.Token)),
		}, true
	case KindPasswordReset:
		return mail.Message{
			To:      event.Recipient,
			Subject: "[Metrdotel] Reset your password",
			Body: fmt.Sprintf("%s,\n\nYou have requested a password reset. Please click on the below link.\n\n%s\n",
				greeting, n.resetLink(event.Token)),
		}, true
	default:
		return mail.Message{}, false
	}
}

func (n *MailNotifier) activationLink(token string) string {
	return fmt.Sprintf("%s/api/registration/activate/%s", n.baseURL, token)
}

func (n *MailNotifier) resetLink(token string) string {
	return fmt.Sprintf("%s/api/registration/password-reset/%s", n.baseURL, token)
}
