package notify

// Notifier receives transition notifications. Implementations must be safe
// for concurrent use and must return quickly.
type Notifier interface {
	Notify(n Notification)
}

// Noop discards all notifications.
type Noop struct{}

// Notify discards n.
func (Noop) Notify(Notification) {}

// Func adapts a plain function to Notifier.
type Func func(Notification)

// Notify calls f(n).
func (f Func) Notify(n Notification) { f(n) }

var (
	_ Notifier = Noop{}
	_ Notifier = Func(nil)
)
