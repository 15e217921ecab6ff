package bitpay

import (
	"context"
	"net/http"
	"strings"
)

// Rate is the exchange rate of one bitcoin in a given currency.
type Rate struct {
	Code string  `json:"code"`
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

type Rates []Rate

// Get returns the rate for the given currency code.
func (r Rates) Get(code string) (Rate, bool) {
	for _, rate := range r {
		if strings.EqualFold(rate.Code, code) {
			return rate, true
		}
	}

	return Rate{}, false
}

type ratesRequest struct{}

func (r *ratesRequest) method() string {
	return http.MethodGet
}

func (r *ratesRequest) endpoint() string {
	return "rates"
}

// GetRates fetches the current exchange rates for every currency the gateway
// quotes.
func (c *Client) GetRates(ctx context.Context) (Rates, error) {
	var rates Rates
	if err := c.do(ctx, &ratesRequest{}, &rates); err != nil {
		return nil, err
	}

	return rates, nil
}
