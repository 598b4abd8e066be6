package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/TemirB/storefront-bot/internal/domain"
)

// SignatureHeader carries hex(HMAC-SHA256(secret, body)) on provider callbacks.
const SignatureHeader = "X-Signature"

type Callback struct {
	Reference string `json:"reference"`
	Status    Status `json:"status"`
}

func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func Verify(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

// ParseCallback verifies the signature before decoding the payload.
func ParseCallback(secret string, body []byte, signature string) (Callback, error) {
	if !Verify(secret, body, signature) {
		return Callback{}, fmt.Errorf("callback signature: %w", domain.ErrForbidden)
	}
	var cb Callback
	if err := json.Unmarshal(body, &cb); err != nil {
		return Callback{}, fmt.Errorf("%w: callback payload: %v", domain.ErrInvalidInput, err)
	}
	if cb.Reference == "" {
		return Callback{}, fmt.Errorf("%w: callback without reference", domain.ErrInvalidInput)
	}
	switch cb.Status {
	case StatusPaid, StatusPending, StatusFailed:
	default:
		return Callback{}, fmt.Errorf("%w: callback status %q", domain.ErrInvalidInput, cb.Status)
	}
	return cb, nil
}
