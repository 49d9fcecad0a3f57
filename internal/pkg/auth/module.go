package auth

import (
	"github.com/mercadillo/mercadillo/internal/config"
	"go.uber.org/fx"
)

// Module provides authentication primitives via fx.
var Module = fx.Options(
	fx.Provide(newKeyHasher),
	fx.Provide(newKeyVerifier),
	fx.Provide(newSignatureVerifier),
)

func newKeyHasher() KeyHasher {
	return NewBcryptHasher(0)
}

type verifierParams struct {
	fx.In

	Config *config.Config
	Hasher KeyHasher
}

func newKeyVerifier(p verifierParams) KeyVerifier {
	return NewHashedKeyVerifier(p.Config.AdminKeyHash, p.Hasher)
}

type signatureParams struct {
	fx.In

	Config *config.Config
}

func newSignatureVerifier(p signatureParams) SignatureVerifier {
	return NewHMACSignatureVerifier(p.Config.MercadoPago.WebhookSecret, Options{Tolerance: p.Config.MercadoPago.WebhookTolerance})
}
