package processor

// Noop is the placeholder processor for event kinds with no implementation.
type Noop struct {
	subscriptionID string
}

// NewNoop creates a Noop for the given subscription.
func NewNoop(subscriptionID string) *Noop {
	return &Noop{subscriptionID: subscriptionID}
}

// StartProcessing does nothing.
func (*Noop) StartProcessing() {}

// StopProcessing does nothing.
func (*Noop) StopProcessing() {}

// SubscriptionID returns the subscription this placeholder stands in for.
func (n *Noop) SubscriptionID() string { return n.subscriptionID }

var _ Processor = (*Noop)(nil)
