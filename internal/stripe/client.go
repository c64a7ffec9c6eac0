// Package stripecli wraps the Stripe Go SDK behind the gateway surface the
// payment service needs: create a PaymentIntent and retrieve its settlement
// state. Gateway failures surface as model.PaymentGatewayError with Stripe's
// own message; nothing is retried here.
package stripecli

import (
	"context"
	"errors"
	"strings"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/northsea/kiteschool/internal/model"
)

type Client struct {
	api *client.API
}

func New(secretKey string) *Client {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Client{api: api}
}

// CreateIntent creates a PaymentIntent for the given amount in minor currency
// units, tagged with the caller's metadata.
func (c *Client) CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (*model.GatewayIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(strings.ToLower(currency)),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	intent, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, gatewayError(err)
	}

	return toGatewayIntent(intent), nil
}

// RetrieveIntent fetches the current state of a PaymentIntent.
func (c *Client) RetrieveIntent(ctx context.Context, id string) (*model.GatewayIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := c.api.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, gatewayError(err)
	}

	return toGatewayIntent(intent), nil
}

func toGatewayIntent(intent *stripe.PaymentIntent) *model.GatewayIntent {
	return &model.GatewayIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Settled:      intent.Status == stripe.PaymentIntentStatusSucceeded,
	}
}

func gatewayError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return &model.PaymentGatewayError{Msg: stripeErr.Msg, Err: err}
	}
	return &model.PaymentGatewayError{Msg: err.Error(), Err: err}
}
