package mailer

//go:generate go run go.uber.org/mock/mockgen -source=./mailer.go -destination=./mocks/mailer_mock.go -package=mocks

import (
	"context"
	"fmt"
	"meridian/config"
	"meridian/infras/otel"
	"meridian/shared/constant"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const otelAttrEmailType = "mailer.email_type"

// BookingEmail carries everything the templates need; the caller decides
// which template via Type.
type BookingEmail struct {
	Type             string
	To               string
	CustomerName     string
	BookingReference string
	RoomName         string
	CheckIn          string
	CheckOut         string
	Guests           int
	TotalPrice       float64
}

// Mailer sends transactional booking emails. Delivery is best effort: callers
// log failures and move on, they never roll back a booking because an email
// bounced.
type Mailer interface {
	SendBookingEmail(ctx context.Context, email BookingEmail) (err error)
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type mailerImpl struct {
	client *resty.Client
	config *config.Config
	otel   otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) Mailer {
	client := resty.New().
		SetBaseURL(cfg.External.Mailer.BaseURL).
		SetAuthToken(cfg.External.Mailer.APIKey).
		SetTimeout(time.Duration(cfg.External.Mailer.TimeoutSeconds) * time.Second).
		SetHeader(constant.RequestHeaderContentType, constant.ContentTypeJSON)

	return &mailerImpl{
		client: client,
		config: cfg,
		otel:   otl,
	}
}

func (m *mailerImpl) SendBookingEmail(ctx context.Context, email BookingEmail) (err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".mailer.SendBookingEmail")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelAttrEmailType, email.Type)

	subject, html := m.render(email)

	payload := sendRequest{
		From:    m.config.External.Mailer.FromAddress,
		To:      []string{email.To},
		Subject: subject,
		HTML:    html,
	}

	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/emails")
	if err != nil {
		log.Error().Err(err).Str("email_type", email.Type).Msg("failed to reach mail provider")

		return fmt.Errorf("failed to send booking email: %w", err)
	}

	if resp.IsError() {
		log.Error().Int("status", resp.StatusCode()).Str("email_type", email.Type).Msg("mail provider rejected email")

		return fmt.Errorf("mail provider returned status %d", resp.StatusCode())
	}

	return nil
}

func (m *mailerImpl) render(email BookingEmail) (subject, html string) {
	switch email.Type {
	case constant.EmailTypeCancellation:
		subject = fmt.Sprintf("Booking %s cancelled", email.BookingReference)
		html = fmt.Sprintf(
			`<h2>Booking Cancelled</h2>
<p>Hi %s,</p>
<p>Your booking <strong>%s</strong> for %s (%s to %s) has been cancelled.</p>
<p>We hope to welcome you another time.</p>`,
			email.CustomerName, email.BookingReference, email.RoomName, email.CheckIn, email.CheckOut,
		)
	default:
		subject = fmt.Sprintf("Booking %s confirmed", email.BookingReference)
		html = fmt.Sprintf(
			`<h2>Booking Confirmed</h2>
<p>Hi %s,</p>
<p>Your booking <strong>%s</strong> is confirmed.</p>
<ul>
<li>Room: %s</li>
<li>Check-in: %s</li>
<li>Check-out: %s</li>
<li>Guests: %d</li>
<li>Total: $%.2f</li>
</ul>
<p>We look forward to your stay.</p>`,
			email.CustomerName, email.BookingReference, email.RoomName, email.CheckIn, email.CheckOut, email.Guests, email.TotalPrice,
		)
	}

	return subject, html
}
