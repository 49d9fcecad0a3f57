// Package reference packs a pending order into the payment provider's external reference.
//
// The wire format is "<reference id>|<base64(JSON(pending order))>".
package reference

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mercadillo/mercadillo/internal/domain/model"
)

const separator = "|"

var (
	ErrMissingPayload = errors.New("external reference carries no payload")
	ErrInvalidPayload = errors.New("external reference payload cannot be decoded")
)

// Reference is a decoded external reference.
type Reference struct {
	ID    string
	Token *model.PendingOrder
}

// NewID returns a fresh reference id of the form order_<unix millis>_<8 hex chars>.
func NewID(now time.Time) string {
	return fmt.Sprintf("order_%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}

// Encode serializes token and joins it with id.
func Encode(id string, token model.PendingOrder) (string, error) {
	raw, err := json.Marshal(token)
	if err != nil {
		return "", fmt.Errorf("marshal pending order: %w", err)
	}
	return id + separator + base64.StdEncoding.EncodeToString(raw), nil
}

// Decode splits external on the first separator and decodes the payload.
// The returned Reference always carries the id; Token is nil whenever err is not nil.
func Decode(external string) (Reference, error) {
	id, payload, found := strings.Cut(external, separator)
	ref := Reference{ID: id}
	if !found || strings.TrimSpace(payload) == "" {
		return ref, ErrMissingPayload
	}

	raw, err := decodeBase64(strings.TrimSpace(payload))
	if err != nil {
		return ref, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	var token model.PendingOrder
	if err := json.Unmarshal(raw, &token); err != nil {
		return ref, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	ref.Token = &token
	return ref, nil
}

func decodeBase64(payload string) ([]byte, error) {
	if raw, err := base64.StdEncoding.DecodeString(payload); err == nil {
		return raw, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
}
