// Package bitpay implements a client for the BitPay payment gateway API.
//
// A Client authenticates with a merchant API key and exposes the invoice,
// rates and ledger endpoints of the gateway. Every call validates its
// parameters locally before anything touches the wire, and failures reported
// by the gateway itself come back as *APIError so callers can tell them apart
// from transport problems.
package bitpay

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/peawormsworth/Finance-BitPay-API/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultBaseURL is the production endpoint of the gateway.
const DefaultBaseURL = "https://bitpay.com/api"

const defaultTimeout = 30 * time.Second

type Config struct {
	// APIKey authenticates every call. It is sent as the basic auth
	// username with an empty password, which is how the gateway expects it.
	APIKey string

	// BaseURL overrides the production endpoint. Leave empty outside of
	// tests and test networks.
	BaseURL string

	// Timeout bounds every request unless the context cancels it earlier.
	Timeout time.Duration

	// Logger receives wire-level debug output. Defaults to a nop logger.
	Logger logger.Logger
}

type Client struct {
	config     Config
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(c Config) (*Client, error) {
	if c.APIKey == "" {
		return nil, errors.New("api key is required")
	}

	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}

	log := c.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &Client{
		config: c,
		httpClient: &http.Client{
			Timeout: c.Timeout,
		},
		logger: log,
	}, nil
}

// do runs a single request through the full pipeline: validate it, serialize
// it for its verb, authenticate, send, and decode the response into out. Any
// error envelope in the body wins over the HTTP status code, since the
// gateway reports application failures both ways.
func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	if err := validateRequest(r); err != nil {
		return err
	}

	endpoint := c.config.BaseURL + "/" + r.endpoint()
	if qr, ok := r.(queryRequest); ok {
		if q := qr.query(); len(q) > 0 {
			endpoint += "?" + q.Encode()
		}
	}

	var body io.Reader
	if pr, ok := r.(payloadRequest); ok {
		buf, err := json.Marshal(pr.payload())
		if err != nil {
			return errors.Wrapf(err, "failed to serialize %s request", r.endpoint())
		}

		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, r.method(), endpoint, body)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	req.SetBasicAuth(c.config.APIKey, "")
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debugf("sending %s request to %s", r.method(), endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to send request to %s", r.endpoint())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != nil {
		return &APIError{
			StatusCode: resp.StatusCode,
			Type:       envelope.Error.Type,
			Message:    envelope.Error.Message,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("request to %s failed with status %d: %s", r.endpoint(), resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "failed to decode %s response", r.endpoint())
	}

	return nil
}
