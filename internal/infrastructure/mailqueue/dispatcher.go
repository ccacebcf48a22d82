package mailqueue

import (
	"context"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/rimsapp/rims-activation/internal/application"
	"github.com/rimsapp/rims-activation/pkg/mailer"
	"github.com/rimsapp/rims-activation/pkg/mailer/templates"
	"github.com/rimsapp/rims-activation/pkg/queue"
)

// Dispatcher publishes activation emails as jobs on the RabbitMQ email
// queue; the email worker does the actual Mailgun delivery. With sending
// disabled it reports success without enqueueing anything.
type Dispatcher struct {
	Pub         *queue.RabbitPublisher
	ActivateURL string
	Enabled     bool
	Logger      *logrus.Logger
}

func NewDispatcher(pub *queue.RabbitPublisher, activateURL string, enabled bool, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{Pub: pub, ActivateURL: activateURL, Enabled: enabled, Logger: logger}
}

func (d *Dispatcher) SendActivation(ctx context.Context, msg application.ActivationEmail) application.DispatchResult {
	if !d.Enabled {
		if d.Logger != nil {
			d.Logger.WithField("to", msg.To).Debug("mail sending disabled, activation email skipped")
		}
		return application.DispatchResult{Sent: true}
	}
	if d.Pub == nil {
		return application.DispatchResult{Err: "email queue not configured"}
	}

	link := d.ActivateURL + "?email=" + url.QueryEscape(msg.To) + "&token=" + url.QueryEscape(msg.Token)
	job := mailer.EmailJob{
		To:       msg.To,
		Template: templates.Activation,
		Data: map[string]any{
			"Name":        msg.Name,
			"ActivateURL": link,
			"ExpiresAt":   msg.ExpiresAt,
			"IsResend":    msg.IsResend,
		},
	}
	if err := d.Pub.PublishJSON(ctx, job); err != nil {
		if d.Logger != nil {
			d.Logger.WithError(err).WithField("to", msg.To).Warn("failed to enqueue activation email")
		}
		return application.DispatchResult{Err: "enqueue failed"}
	}
	return application.DispatchResult{Sent: true}
}

var _ application.Dispatcher = (*Dispatcher)(nil)
