package auth

import (
	"testing"
	"time"

	"github.com/mercadillo/mercadillo/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func TestNewKeyHasher(t *testing.T) {
	hasher := newKeyHasher()
	bcryptHasher, ok := hasher.(*BcryptHasher)
	if !ok {
		t.Fatalf("expected *BcryptHasher, got %T", hasher)
	}
	if bcryptHasher.cost != bcrypt.DefaultCost {
		t.Fatalf("unexpected cost: %d", bcryptHasher.cost)
	}
}

func TestNewKeyVerifier(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	verifier := newKeyVerifier(verifierParams{Config: &config.Config{AdminKeyHash: "$2a$hash"}, Hasher: hasher})
	hashed, ok := verifier.(*HashedKeyVerifier)
	if !ok {
		t.Fatalf("expected *HashedKeyVerifier, got %T", verifier)
	}
	if hashed.hash != "$2a$hash" {
		t.Fatalf("unexpected hash: %q", hashed.hash)
	}
}

func TestNewSignatureVerifier(t *testing.T) {
	cfg := &config.Config{}
	cfg.MercadoPago.WebhookSecret = "top-secret"
	cfg.MercadoPago.WebhookTolerance = 5 * time.Minute

	verifier := newSignatureVerifier(signatureParams{Config: cfg})
	hmacVerifier, ok := verifier.(*HMACSignatureVerifier)
	if !ok {
		t.Fatalf("expected *HMACSignatureVerifier, got %T", verifier)
	}
	if string(hmacVerifier.secret) != "top-secret" {
		t.Fatalf("unexpected secret: %q", string(hmacVerifier.secret))
	}
	if hmacVerifier.tolerance != 5*time.Minute {
		t.Fatalf("unexpected tolerance: %s", hmacVerifier.tolerance)
	}
}
