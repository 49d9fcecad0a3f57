package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	domainErrors "github.com/mercadillo/mercadillo/internal/domain/errors"
)

// HMACSignatureVerifier validates x-signature headers of the form "ts=<ts>,v1=<hex hmac>".
type HMACSignatureVerifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

// NewHMACSignatureVerifier builds HMACSignatureVerifier. An empty secret disables verification.
// A zero tolerance accepts any timestamp.
func NewHMACSignatureVerifier(secret string, opts Options) *HMACSignatureVerifier {
	return &HMACSignatureVerifier{secret: []byte(secret), tolerance: opts.Tolerance, now: time.Now}
}

// Enabled reports whether a secret is configured.
func (v *HMACSignatureVerifier) Enabled() bool {
	return len(v.secret) > 0
}

// Sign returns the hex encoded v1 signature for the notification parts.
func (v *HMACSignatureVerifier) Sign(dataID, requestID, ts string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(manifest(dataID, requestID, ts)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify validates signature against the notification data id and request id.
func (v *HMACSignatureVerifier) Verify(signature, requestID, dataID string) error {
	if !v.Enabled() {
		return nil
	}

	ts, sig := parseSignature(signature)
	if ts == "" || sig == "" {
		return fmt.Errorf("%w: malformed header", domainErrors.ErrInvalidSignature)
	}

	expected := v.Sign(strings.ToLower(dataID), requestID, ts)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(sig))) {
		return domainErrors.ErrInvalidSignature
	}

	if v.tolerance > 0 {
		issued, err := parseTimestamp(ts)
		if err != nil {
			return fmt.Errorf("%w: %v", domainErrors.ErrInvalidSignature, err)
		}
		if age := v.now().Sub(issued); age > v.tolerance || age < -v.tolerance {
			return fmt.Errorf("%w: timestamp outside tolerance", domainErrors.ErrInvalidSignature)
		}
	}

	return nil
}

func (v *HMACSignatureVerifier) Name() string {
	return "hmac-sha256"
}

func manifest(dataID, requestID, ts string) string {
	var b strings.Builder
	if dataID != "" {
		b.WriteString("id:" + dataID + ";")
	}
	if requestID != "" {
		b.WriteString("request-id:" + requestID + ";")
	}
	if ts != "" {
		b.WriteString("ts:" + ts + ";")
	}
	return b.String()
}

func parseSignature(header string) (ts string, sig string) {
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "ts":
			ts = strings.TrimSpace(value)
		case "v1":
			sig = strings.TrimSpace(value)
		}
	}
	return ts, sig
}

// parseTimestamp accepts seconds or milliseconds since the epoch.
func parseTimestamp(ts string) (time.Time, error) {
	n, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", ts)
	}
	if n > 1e12 {
		return time.UnixMilli(n), nil
	}
	return time.Unix(n, 0), nil
}
