package notify

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

var (
	journalEncMode cbor.EncMode
	journalDecMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	journalEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create journal CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	journalDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create journal CBOR decoder mode: %v", err))
	}
}

// Encode encodes a notification to CBOR bytes.
func Encode(n Notification) ([]byte, error) {
	return journalEncMode.Marshal(n)
}

// Decode decodes CBOR bytes into a notification.
func Decode(data []byte) (Notification, error) {
	var n Notification
	if err := journalDecMode.Unmarshal(data, &n); err != nil {
		return Notification{}, err
	}
	return n, nil
}

// NewEncoder creates a journal encoder writing to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return journalEncMode.NewEncoder(w)
}

// NewDecoder creates a journal decoder reading from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return journalDecMode.NewDecoder(r)
}
