package notify

// Multi fans a notification out to several notifiers.
type Multi struct {
	notifiers []Notifier
}

// NewMulti creates a Multi. Nil entries are skipped.
func NewMulti(notifiers ...Notifier) *Multi {
	m := &Multi{}
	for _, n := range notifiers {
		if n != nil {
			m.notifiers = append(m.notifiers, n)
		}
	}
	return m
}

// Notify forwards n to every notifier.
func (m *Multi) Notify(n Notification) {
	for _, t := range m.notifiers {
		t.Notify(n)
	}
}

var _ Notifier = (*Multi)(nil)
