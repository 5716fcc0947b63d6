package notification

import (
	"context"
	"log"

	"golang.org/x/time/rate"
)

// Message is one push notification payload.
type Message struct {
	Title string
	Body  string
}

// Sender delivers a single push notification to one stored token. The token
// format is provider-specific: an Expo push token, a JSON-serialized web push
// subscription, or an FCM registration token.
type Sender interface {
	Send(ctx context.Context, token string, msg Message) error
}

// Dispatcher fans a message out to a user's stored tokens, sequentially and
// best-effort: delivery failures are logged and swallowed, never surfaced to
// the caller, and nothing is retried. Sends are paced by a rate limiter so a
// burst of events cannot hammer the provider.
type Dispatcher struct {
	sender  Sender
	limiter *rate.Limiter
}

// NewDispatcher creates a dispatcher around the given sender.
func NewDispatcher(sender Sender, perSec float64, burst int) *Dispatcher {
	return &Dispatcher{
		sender:  sender,
		limiter: rate.NewLimiter(rate.Limit(perSec), burst),
	}
}

// Notify sends msg to every token in order.
func (d *Dispatcher) Notify(ctx context.Context, tokens []string, msg Message) {
	for _, token := range tokens {
		if err := d.limiter.Wait(ctx); err != nil {
			log.Printf("notification dispatch aborted: %v", err)
			return
		}
		if err := d.sender.Send(ctx, token, msg); err != nil {
			log.Printf("Error sending notification to %s: %v", token, err)
		}
	}
}
