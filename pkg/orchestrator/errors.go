package orchestrator

import "errors"

var (
	// ErrSubscriptionNotFound is returned by RemoveSubscription when neither
	// the active list nor the store knows the id.
	ErrSubscriptionNotFound = errors.New("orchestrator: subscription not found")

	// ErrNotRunning is returned by RemoveSubscription before Initialize or
	// after Shutdown.
	ErrNotRunning = errors.New("orchestrator: not running")

	// ErrAlreadyRunning is returned by Initialize on a running orchestrator.
	ErrAlreadyRunning = errors.New("orchestrator: already running")

	// ErrPersistence wraps store failures during removal. The in-memory
	// removal has still been applied when it is returned.
	ErrPersistence = errors.New("orchestrator: persistence failure")
)
