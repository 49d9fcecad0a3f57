package lock

import "context"

// NopLocker is used when no Redis instance is configured.
type NopLocker struct{}

func (NopLocker) Acquire(context.Context, string) (func(), error) {
	return func() {}, nil
}
