package bitpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// InvoiceStatus tracks an invoice through its lifecycle on the gateway.
type InvoiceStatus string

const (
	// InvoiceStatusNew means the invoice is awaiting payment.
	InvoiceStatusNew InvoiceStatus = "new"
	// InvoiceStatusPaid means payment was received but not yet confirmed
	// on the network.
	InvoiceStatusPaid InvoiceStatus = "paid"
	// InvoiceStatusConfirmed means payment reached the confirmation depth
	// configured on the merchant account.
	InvoiceStatusConfirmed InvoiceStatus = "confirmed"
	// InvoiceStatusComplete means the invoice is fully settled and credited
	// to the merchant ledger.
	InvoiceStatusComplete InvoiceStatus = "complete"
	// InvoiceStatusExpired means no payment arrived within the invoice
	// payment window.
	InvoiceStatusExpired InvoiceStatus = "expired"
	// InvoiceStatusInvalid means payment arrived but could not be credited,
	// for example after the invoice had already expired.
	InvoiceStatusInvalid InvoiceStatus = "invalid"
)

// Transaction speeds control how many network confirmations the gateway
// requires before it marks an invoice confirmed.
const (
	SpeedHigh   = "high"
	SpeedMedium = "medium"
	SpeedLow    = "low"
)

// ExceptionStatus reports a payment irregularity on an invoice. The gateway
// encodes the regular case as JSON false and the irregular ones as strings,
// so it needs its own decoding.
type ExceptionStatus string

const (
	// ExceptionNone means the invoice has no payment irregularity.
	ExceptionNone ExceptionStatus = ""
	// ExceptionPaidPartial means less than the full amount was paid.
	ExceptionPaidPartial ExceptionStatus = "paidPartial"
	// ExceptionPaidOver means more than the full amount was paid.
	ExceptionPaidOver ExceptionStatus = "paidOver"
)

func (e *ExceptionStatus) UnmarshalJSON(data []byte) error {
	var asBool bool
	if err := json.Unmarshal(data, &asBool); err == nil {
		*e = ExceptionNone
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err != nil {
		return errors.Errorf("unexpected exceptionStatus value %s", string(data))
	}

	*e = ExceptionStatus(asString)

	return nil
}

// Invoice is the gateway's view of a payment request. Monetary amounts are
// kept as json.Number so no precision is lost on the way through.
type Invoice struct {
	ID     string        `json:"id"`
	URL    string        `json:"url"`
	Status InvoiceStatus `json:"status"`

	Price    json.Number `json:"price"`
	Currency string      `json:"currency"`
	BTCPrice json.Number `json:"btcPrice"`
	BTCPaid  json.Number `json:"btcPaid"`
	Rate     json.Number `json:"rate"`

	PosData string `json:"posData"`

	InvoiceTime    Time `json:"invoiceTime"`
	ExpirationTime Time `json:"expirationTime"`
	CurrentTime    Time `json:"currentTime"`

	ExceptionStatus ExceptionStatus `json:"exceptionStatus"`
}

// InvoiceCreateRequest carries the parameters for a new invoice. Price and
// Currency are the only ones the gateway insists on.
type InvoiceCreateRequest struct {
	Price    float64 `json:"price" validate:"required"`
	Currency string  `json:"currency" validate:"required"`

	PosData           string `json:"posData,omitempty"`
	NotificationURL   string `json:"notificationURL,omitempty"`
	TransactionSpeed  string `json:"transactionSpeed,omitempty" validate:"omitempty,oneof=high medium low"`
	FullNotifications bool   `json:"fullNotifications,omitempty"`
	NotificationEmail string `json:"notificationEmail,omitempty" validate:"omitempty,email"`
	RedirectURL       string `json:"redirectURL,omitempty"`

	OrderID  string `json:"orderID,omitempty"`
	ItemDesc string `json:"itemDesc,omitempty"`
	ItemCode string `json:"itemCode,omitempty"`
	Physical bool   `json:"physical,omitempty"`

	BuyerName     string `json:"buyerName,omitempty"`
	BuyerAddress1 string `json:"buyerAddress1,omitempty"`
	BuyerAddress2 string `json:"buyerAddress2,omitempty"`
	BuyerCity     string `json:"buyerCity,omitempty"`
	BuyerState    string `json:"buyerState,omitempty"`
	BuyerZip      string `json:"buyerZip,omitempty"`
	BuyerCountry  string `json:"buyerCountry,omitempty"`
	BuyerEmail    string `json:"buyerEmail,omitempty" validate:"omitempty,email"`
	BuyerPhone    string `json:"buyerPhone,omitempty"`
}

func (r *InvoiceCreateRequest) method() string {
	return http.MethodPost
}

func (r *InvoiceCreateRequest) endpoint() string {
	return "invoice"
}

func (r *InvoiceCreateRequest) payload() interface{} {
	return r
}

type invoiceGetRequest struct {
	ID string `validate:"required"`
}

func (r *invoiceGetRequest) method() string {
	return http.MethodGet
}

func (r *invoiceGetRequest) endpoint() string {
	return "invoice/" + url.PathEscape(r.ID)
}

// CreateInvoice registers a new invoice with the gateway and returns it with
// the gateway-assigned id, payment URL and expiry attached.
func (c *Client) CreateInvoice(ctx context.Context, req *InvoiceCreateRequest) (*Invoice, error) {
	if req == nil {
		return nil, errors.New("invoice create request must not be nil")
	}

	var invoice Invoice
	if err := c.do(ctx, req, &invoice); err != nil {
		return nil, err
	}

	return &invoice, nil
}

// GetInvoice fetches the current state of a previously created invoice.
func (c *Client) GetInvoice(ctx context.Context, id string) (*Invoice, error) {
	var invoice Invoice
	if err := c.do(ctx, &invoiceGetRequest{ID: id}, &invoice); err != nil {
		return nil, err
	}

	return &invoice, nil
}
