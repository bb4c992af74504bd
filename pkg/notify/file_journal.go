package notify

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileJournal appends notifications to a CBOR file.
// It is safe for concurrent use.
type FileJournal struct {
	mu      sync.Mutex
	file    *os.File
	encoder *cbor.Encoder
	closed  bool
}

// NewFileJournal opens (or creates) the journal at path for appending.
// Parent directories are created as needed.
func NewFileJournal(path string) (*FileJournal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileJournal{
		file:    f,
		encoder: NewEncoder(f),
	}, nil
}

// Notify appends n to the journal.
func (j *FileJournal) Notify(n Notification) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return
	}

	// Encoding errors are dropped; a journal write must never disrupt a processor.
	_ = j.encoder.Encode(n)
}

// Close closes the journal. Later Notify calls are ignored.
func (j *FileJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}
	j.closed = true
	return j.file.Close()
}

var _ Notifier = (*FileJournal)(nil)
