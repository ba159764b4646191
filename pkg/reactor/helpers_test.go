package reactor

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// recoverError runs fn and returns the error it panicked with.
func recoverError(t *testing.T, fn func()) (err error) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		var ok bool
		err, ok = r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
	}()
	fn()
	return nil
}

// recordingObserver records every engine event.
type recordingObserver struct {
	mu           sync.Mutex
	materialized []string
	detached     []string
	subscribed   []string
	unsubscribed []string
	failed       []error
}

func (r *recordingObserver) Materialized(typ, prop string, kind Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.materialized = append(r.materialized, typ+"."+prop+":"+kind.String())
}

func (r *recordingObserver) Detached(typ, prop string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detached = append(r.detached, typ+"."+prop)
}

func (r *recordingObserver) Subscribed(mode string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribed = append(r.subscribed, mode)
}

func (r *recordingObserver) Unsubscribed(mode string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unsubscribed = append(r.unsubscribed, mode)
}

func (r *recordingObserver) Failed(err *Error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, err)
}

func (r *recordingObserver) failedWith(target error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, err := range r.failed {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func installObserver(t *testing.T) *recordingObserver {
	t.Helper()
	r := &recordingObserver{}
	SetObserver(r)
	t.Cleanup(func() { SetObserver(nil) })
	return r
}
