package checkout

//go:generate go run go.uber.org/mock/mockgen -source=./checkout.go -destination=./mocks/checkout_mock.go -package=mocks

import (
	"context"
	"fmt"
	"math"
	"meridian/config"
	"meridian/infras/otel"
	"meridian/shared/constant"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const (
	otelAttrSessionID = "checkout.session_id"
	otelAttrAmount    = "checkout.amount"

	SessionStatusPaid   = "paid"
	SessionStatusUnpaid = "unpaid"

	centsPerUnit = 100
)

// Session is the provider-side view of a hosted checkout session.
type Session struct {
	ID              string `json:"id"`
	URL             string `json:"url"`
	PaymentStatus   string `json:"payment_status"`
	PaymentIntentID string `json:"payment_intent"`
}

func (s *Session) Paid() bool {
	return s.PaymentStatus == SessionStatusPaid
}

type CreateSessionRequest struct {
	AmountCents   int64             `json:"amount"`
	Currency      string            `json:"currency"`
	CustomerEmail string            `json:"customer_email"`
	CustomerName  string            `json:"customer_name"`
	Description   string            `json:"description"`
	SuccessURL    string            `json:"success_url"`
	CancelURL     string            `json:"cancel_url"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Checkout bridges bookings to the external payment processor. The processor
// hosts the actual payment page; this client only creates sessions and asks
// for their outcome. A transport error or timeout means the outcome is
// unknown, never that the payment failed.
type Checkout interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (Session, error)
	GetSessionStatus(ctx context.Context, sessionID string) (Session, error)
}

type checkoutImpl struct {
	client *resty.Client
	config *config.Config
	otel   otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) Checkout {
	client := resty.New().
		SetBaseURL(cfg.External.Checkout.BaseURL).
		SetAuthToken(cfg.External.Checkout.SecretKey).
		SetTimeout(time.Duration(cfg.External.Checkout.TimeoutSeconds) * time.Second).
		SetHeader(constant.RequestHeaderContentType, constant.ContentTypeJSON)

	return &checkoutImpl{
		client: client,
		config: cfg,
		otel:   otl,
	}
}

// AmountToCents converts a decimal price to the integer minor units the
// processor expects.
func AmountToCents(amount float64) int64 {
	return int64(math.Round(amount * centsPerUnit))
}

func (c *checkoutImpl) CreateSession(ctx context.Context, req CreateSessionRequest) (res Session, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".checkout.CreateSession")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelAttrAmount, int(req.AmountCents))

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&res).
		Post("/v1/checkout/sessions")
	if err != nil {
		log.Error().Err(err).Msg("failed to reach payment processor")

		return res, fmt.Errorf("failed to create checkout session: %w", err)
	}

	if resp.IsError() {
		log.Error().Int("status", resp.StatusCode()).Msg("payment processor rejected session creation")

		return res, fmt.Errorf("payment processor returned status %d", resp.StatusCode())
	}

	scope.SetAttribute(otelAttrSessionID, res.ID)

	return res, nil
}

func (c *checkoutImpl) GetSessionStatus(ctx context.Context, sessionID string) (res Session, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".checkout.GetSessionStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelAttrSessionID, sessionID)

	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&res).
		Get("/v1/checkout/sessions/" + sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to query payment processor")

		return res, fmt.Errorf("failed to get checkout session status: %w", err)
	}

	if resp.IsError() {
		log.Error().Int("status", resp.StatusCode()).Str("session_id", sessionID).Msg("payment processor rejected session lookup")

		return res, fmt.Errorf("payment processor returned status %d", resp.StatusCode())
	}

	return res, nil
}
