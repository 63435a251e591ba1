package reminder

import (
	"context"
	"fmt"

	"github.com/gregdel/pushover"
)

// Notifier delivers a reminder to the patient
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// Pushover Notifier implementation
type Pushover struct {
	app       *pushover.Pushover
	recipient *pushover.Recipient
	device    string
}

// NewPushover notifier sending as the application apiToken to userKey.
// An empty device sends to all of the user's devices.
func NewPushover(apiToken, userKey, device string) *Pushover {
	return &Pushover{
		app:       pushover.New(apiToken),
		recipient: pushover.NewRecipient(userKey),
		device:    device,
	}
}

// Notify sends the message. The pushover client has no context support so ctx is only checked up front.
func (p *Pushover) Notify(ctx context.Context, title, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := pushover.NewMessageWithTitle(message, title)
	msg.DeviceName = p.device

	if _, err := p.app.SendMessage(msg, p.recipient); err != nil {
		return fmt.Errorf("failed to send pushover message %q: %w", title, err)
	}

	return nil
}
