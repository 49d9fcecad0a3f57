package test

// KeyVerifierStub returns a configured verification result.
type KeyVerifierStub struct {
	VerifyFn func(string) error
}

// Verify delegates to provided function or accepts any key.
func (s KeyVerifierStub) Verify(key string) error {
	if s.VerifyFn != nil {
		return s.VerifyFn(key)
	}
	return nil
}

// SignatureVerifierStub returns configured verification results.
type SignatureVerifierStub struct {
	Disabled bool
	VerifyFn func(signature, requestID, dataID string) error
}

// Enabled reports whether verification should run.
func (s SignatureVerifierStub) Enabled() bool { return !s.Disabled }

// Verify delegates to provided function or accepts any signature.
func (s SignatureVerifierStub) Verify(signature, requestID, dataID string) error {
	if s.VerifyFn != nil {
		return s.VerifyFn(signature, requestID, dataID)
	}
	return nil
}

// Name returns stub identifier.
func (SignatureVerifierStub) Name() string { return "stub" }
