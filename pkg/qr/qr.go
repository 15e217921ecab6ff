package qr

import (
	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"
)

const DefaultSize = 256

// Encode renders content as a PNG QR code of the given pixel size. Payment
// URLs fit comfortably within medium error correction.
func Encode(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, errors.New("content must not be empty")
	}

	if size <= 0 {
		size = DefaultSize
	}

	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode qr code")
	}

	return png, nil
}
