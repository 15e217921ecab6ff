package bitpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

const ledgerDateFormat = "2006-01-02"

// LedgerRequest selects the ledger entries to fetch. Currency is required,
// the date range is optional and inclusive.
type LedgerRequest struct {
	Currency  string `validate:"required"`
	StartDate time.Time
	EndDate   time.Time
}

func (r *LedgerRequest) method() string {
	return http.MethodGet
}

func (r *LedgerRequest) endpoint() string {
	return "ledger"
}

func (r *LedgerRequest) query() url.Values {
	q := url.Values{}
	q.Set("c", r.Currency)

	if !r.StartDate.IsZero() {
		q.Set("startDate", r.StartDate.Format(ledgerDateFormat))
	}

	if !r.EndDate.IsZero() {
		q.Set("endDate", r.EndDate.Format(ledgerDateFormat))
	}

	return q
}

// LedgerEntry is a single posting on the merchant ledger.
type LedgerEntry struct {
	Code        string      `json:"code"`
	Amount      json.Number `json:"amount"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Timestamp   string      `json:"timestamp"`
	TxType      string      `json:"txType"`

	InvoiceID       string      `json:"invoiceId"`
	InvoiceAmount   json.Number `json:"invoiceAmount"`
	InvoiceCurrency string      `json:"invoiceCurrency"`
}

// GetLedger fetches the merchant ledger entries matching the request.
func (c *Client) GetLedger(ctx context.Context, req *LedgerRequest) ([]LedgerEntry, error) {
	if req == nil {
		return nil, errors.New("ledger request must not be nil")
	}

	var entries []LedgerEntry
	if err := c.do(ctx, req, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}
