package jwt

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidKeyEncoding is returned by [DecodeKey] when no base64 alphabet accepts the input.
var ErrInvalidKeyEncoding = errors.New("jwt key is not valid base64")

var keyEncodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

// DecodeKey decodes a base64 signing key. Standard and URL-safe alphabets are
// accepted, padded or not. An empty input decodes to an empty key.
func DecodeKey(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, nil
	}
	for _, enc := range keyEncodings {
		if key, err := enc.DecodeString(encoded); err == nil {
			return key, nil
		}
	}
	return nil, ErrInvalidKeyEncoding
}
