package notifications

import (
	"context"
	"fmt"

	"github.com/you/studiosvc/domain"
	"github.com/you/studiosvc/internal/logging"
)

// SMSNotifier implements domain.StudioNotifier by texting the studio phone
type SMSNotifier struct {
	sms   domain.NotificationService
	phone string
	log   logging.Logger
}

// NewSMSNotifier creates a notifier; an empty phone disables it
func NewSMSNotifier(sms domain.NotificationService, phone string, log logging.Logger) *SMSNotifier {
	return &SMSNotifier{sms: sms, phone: phone, log: log}
}

var _ domain.StudioNotifier = (*SMSNotifier)(nil)

func (n *SMSNotifier) BookingReceived(ctx context.Context, b *domain.Booking) {
	msg := fmt.Sprintf("New booking #%d from %s (%s) for %s", b.ID, b.ClientName, b.ClientEmail, b.Service)
	if b.EventDate != nil {
		msg += " on " + b.EventDate.Format("2006-01-02")
	}
	n.send(ctx, msg)
}

func (n *SMSNotifier) InquiryReceived(ctx context.Context, i *domain.Inquiry) {
	n.send(ctx, fmt.Sprintf("New inquiry #%d from %s (%s): %s", i.ID, i.Name, i.Email, i.Subject))
}

func (n *SMSNotifier) send(ctx context.Context, msg string) {
	if n.phone == "" {
		return
	}
	if err := n.sms.SendSMS(n.phone, msg); err != nil {
		n.log.Warn(ctx, "studio notification failed", "error", err)
	}
}
