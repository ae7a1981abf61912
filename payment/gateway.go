package payment

import "context"

// GatewayOrder is the provider-side record representing an intent to collect
// payment, created before the buyer pays.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status,omitempty"`
}

// Gateway creates payment-provider orders. Amount is in minor currency units.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*GatewayOrder, error)
}
