package bitpay

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Time wraps time.Time to speak the gateway's wire format for timestamps,
// which is milliseconds since the Unix epoch.
type Time struct {
	time.Time
}

func (t *Time) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if raw == "null" {
		return nil
	}

	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "unexpected timestamp value %s", raw)
	}

	t.Time = time.UnixMilli(ms).UTC()

	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}

	return []byte(strconv.FormatInt(t.UnixMilli(), 10)), nil
}
