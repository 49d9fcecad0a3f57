package auth

import "time"

// SignatureVerifier checks the authenticity of inbound payment notifications.
type SignatureVerifier interface {
	Enabled() bool
	Verify(signature, requestID, dataID string) error
	Name() string
}

// KeyVerifier checks an operator supplied API key.
type KeyVerifier interface {
	Verify(key string) error
}

type Options struct {
	Tolerance time.Duration
}
