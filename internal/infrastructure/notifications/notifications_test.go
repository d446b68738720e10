package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/you/studiosvc/domain"
	"github.com/you/studiosvc/internal/logging"
	"github.com/you/studiosvc/internal/mocks"
)

type fakeAPI struct {
	params []*twilioApi.CreateMessageParams
	err    error
}

func (f *fakeAPI) CreateMessage(p *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = append(f.params, p)
	return &twilioApi.ApiV2010Message{}, f.err
}

func TestTwilioServiceImpl_SendSMS(t *testing.T) {
	api := &fakeAPI{}
	svc := NewTwilioService("AC123", "token", "+15550000000", logging.Nop())
	svc.api = api

	require.NoError(t, svc.SendSMS("+15551112222", "hello"))
	require.Len(t, api.params, 1)
	assert.Equal(t, "+15551112222", *api.params[0].To)
	assert.Equal(t, "+15550000000", *api.params[0].From)
	assert.Equal(t, "hello", *api.params[0].Body)

	api.err = errors.New("twilio down")
	assert.ErrorContains(t, svc.SendSMS("+15551112222", "again"), "failed to send SMS")
}

func TestTwilioServiceImpl_WithoutSenderLogsOnly(t *testing.T) {
	api := &fakeAPI{}
	svc := NewTwilioService("", "", "", logging.Nop())
	svc.api = api

	require.NoError(t, svc.SendSMS("+15551112222", "hello"))
	assert.Empty(t, api.params)
}

func TestSMSNotifier(t *testing.T) {
	var to, msgs []string
	sms := mocks.NewMockNotificationService()
	sms.SendSMSFunc = func(phone, message string) error {
		to = append(to, phone)
		msgs = append(msgs, message)
		return nil
	}
	n := NewSMSNotifier(sms, "+15559990000", logging.Nop())
	date := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)

	n.BookingReceived(context.Background(), &domain.Booking{ID: 3, ClientName: "Sam", ClientEmail: "sam@example.com", Service: "Wedding film", EventDate: &date})
	n.InquiryReceived(context.Background(), &domain.Inquiry{ID: 9, Name: "Jo", Email: "jo@example.com", Subject: "Rates"})

	require.Len(t, msgs, 2)
	assert.Equal(t, "+15559990000", to[0])
	assert.Contains(t, msgs[0], "New booking #3 from Sam")
	assert.Contains(t, msgs[0], "on 2026-06-20")
	assert.Contains(t, msgs[1], "New inquiry #9 from Jo")

	// failures are swallowed
	sms.SendSMSFunc = func(string, string) error { return errors.New("boom") }
	n.InquiryReceived(context.Background(), &domain.Inquiry{ID: 10})
}

func TestSMSNotifier_DisabledWithoutPhone(t *testing.T) {
	sms := mocks.NewMockNotificationService()
	sms.SendSMSFunc = func(string, string) error {
		t.Fatal("sms sent without a studio phone")
		return nil
	}
	NewSMSNotifier(sms, "", logging.Nop()).BookingReceived(context.Background(), &domain.Booking{ID: 1})
}
