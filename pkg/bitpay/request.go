package bitpay

import (
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// request describes a single call against the gateway: the HTTP verb and the
// endpoint relative to the configured base URL. Implementations optionally
// carry query values or a JSON payload.
type request interface {
	method() string
	endpoint() string
}

// queryRequest is implemented by requests that serialize into the URL.
type queryRequest interface {
	request
	query() url.Values
}

// payloadRequest is implemented by requests that serialize into a JSON body.
type payloadRequest interface {
	request
	payload() interface{}
}

// validateRequest checks that a request carries everything the gateway
// requires. Requests that fail here are never sent.
func validateRequest(r request) error {
	validate := validator.New()

	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	if verrs, ok := err.(validator.ValidationErrors); ok {
		return &ValidationError{Endpoint: r.endpoint(), Err: verrs}
	}

	return errors.Wrapf(err, "failed to validate %s request", r.endpoint())
}
