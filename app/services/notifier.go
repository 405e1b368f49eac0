package services

import (
	"context"
	"time"

	"github.com/eburutu/mart/app/verification"
	"github.com/eburutu/mart/pkg/logger"
	"github.com/eburutu/mart/pkg/notification"
)

// Notifier tells sellers about decisions on their application.
type Notifier interface {
	VerificationChanged(ctx context.Context, n VerificationNotice)
}

// VerificationNotice describes one applied verification transition.
type VerificationNotice struct {
	ProfileID  string              `json:"profileId"`
	UserID     string              `json:"userId"`
	Email      string              `json:"email"`
	Name       string              `json:"name"`
	From       verification.Status `json:"from"`
	To         verification.Status `json:"to"`
	Notes      string              `json:"notes,omitempty"`
	ReviewedBy string              `json:"reviewedBy"`
	At         time.Time           `json:"at"`
}

func (n VerificationNotice) Via() []string { return []string{"log", "webhook"} }

func (n VerificationNotice) ToLog() notification.LogData {
	return notification.LogData{
		Message: "seller verification changed",
		Attrs:   []any{"profile_id", n.ProfileID, "from", n.From, "to", n.To},
	}
}

func (n VerificationNotice) ToWebhook() notification.WebhookData {
	return notification.WebhookData{
		Payload: map[string]any{"event": EventVerificationChanged, "data": n},
		Headers: map[string]string{"X-Event": EventVerificationChanged},
	}
}

type senderNotifier struct {
	sender *notification.Sender
}

// NewNotifier delivers notices through sender. A nil sender logs inline.
func NewNotifier(sender *notification.Sender) Notifier {
	if sender == nil {
		sender = notification.NewSender(nil, "")
	}
	return &senderNotifier{sender: sender}
}

func (s *senderNotifier) VerificationChanged(ctx context.Context, n VerificationNotice) {
	s.sender.SendAsync(ctx, n.Email, n)
}

func notifyOnEvent(n Notifier) func(context.Context, any) {
	return func(ctx context.Context, payload any) {
		notice, ok := payload.(VerificationNotice)
		if !ok {
			logger.WithCtx(ctx).Warn("notifier: unexpected payload", "event", EventVerificationChanged)
			return
		}
		n.VerificationChanged(ctx, notice)
	}
}
