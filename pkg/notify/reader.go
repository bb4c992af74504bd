package notify

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter selects journal entries. Empty fields match everything.
type Filter struct {
	// SubscriptionID matches exactly.
	SubscriptionID string

	// Transition matches the committed direction.
	Transition *Transition

	// TimeStart matches entries at or after this time.
	TimeStart *time.Time

	// TimeEnd matches entries before this time.
	TimeEnd *time.Time
}

func (f *Filter) matches(n Notification) bool {
	if f.SubscriptionID != "" && n.SubscriptionID != f.SubscriptionID {
		return false
	}
	if f.Transition != nil && n.Transition != *f.Transition {
		return false
	}
	if f.TimeStart != nil && n.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && !n.Timestamp.Before(*f.TimeEnd) {
		return false
	}
	return true
}

// Reader streams notifications from a journal file.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader opens a journal for reading all entries.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens a journal for reading entries that match filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{
		file:    f,
		decoder: NewDecoder(f),
		filter:  filter,
	}, nil
}

// Next returns the next matching notification, or io.EOF.
func (r *Reader) Next() (Notification, error) {
	for {
		var n Notification
		if err := r.decoder.Decode(&n); err != nil {
			if errors.Is(err, io.EOF) {
				return Notification{}, io.EOF
			}
			return Notification{}, err
		}
		if r.filter.matches(n) {
			return n, nil
		}
	}
}

// Close closes the journal file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// ReadAll reads every matching notification from the journal at path.
func ReadAll(path string, filter Filter) ([]Notification, error) {
	r, err := NewFilteredReader(path, filter)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var out []Notification
	for {
		n, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, n)
	}
}
