package sensor

import (
	"fmt"
	"strings"
)

// Kind is an abstract sensor capability.
type Kind uint8

const (
	// KindLocation is the fused position provider.
	KindLocation Kind = iota + 1

	// KindBLE is Bluetooth Low Energy proximity scanning.
	KindBLE

	// KindWiFi is WiFi network presence.
	KindWiFi

	maxKind = KindWiFi
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindLocation:
		return "LOCATION"
	case KindBLE:
		return "BLE"
	case KindWiFi:
		return "WIFI"
	default:
		return fmt.Sprintf("KIND(%d)", uint8(k))
	}
}

// ParseKind parses a kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(s) {
	case "LOCATION":
		return KindLocation, nil
	case "BLE":
		return KindBLE, nil
	case "WIFI":
		return KindWiFi, nil
	}
	return 0, fmt.Errorf("unknown sensor kind %q", s)
}

// AllKinds returns every defined kind in ascending order.
func AllKinds() []Kind {
	return []Kind{KindLocation, KindBLE, KindWiFi}
}

// KindSet is a set of sensor kinds. The zero value is the empty set.
type KindSet uint8

// NewKindSet returns a set holding the given kinds.
func NewKindSet(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s = s.Add(k)
	}
	return s
}

// Add returns s with k added.
func (s KindSet) Add(k Kind) KindSet {
	if k == 0 || k > maxKind {
		return s
	}
	return s | 1<<k
}

// Remove returns s without k.
func (s KindSet) Remove(k Kind) KindSet {
	return s &^ (1 << k)
}

// Has reports whether k is in s.
func (s KindSet) Has(k Kind) bool {
	return k != 0 && k <= maxKind && s&(1<<k) != 0
}

// Union returns the kinds in s or o.
func (s KindSet) Union(o KindSet) KindSet {
	return s | o
}

// Difference returns the kinds in s that are not in o.
func (s KindSet) Difference(o KindSet) KindSet {
	return s &^ o
}

// Empty reports whether s has no kinds.
func (s KindSet) Empty() bool {
	return s == 0
}

// Len returns the number of kinds in s.
func (s KindSet) Len() int {
	n := 0
	for _, k := range AllKinds() {
		if s.Has(k) {
			n++
		}
	}
	return n
}

// Kinds returns the members of s in ascending order.
func (s KindSet) Kinds() []Kind {
	kinds := make([]Kind, 0, s.Len())
	for _, k := range AllKinds() {
		if s.Has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// String returns "{LOCATION,BLE}" style output.
func (s KindSet) String() string {
	names := make([]string, 0, 3)
	for _, k := range s.Kinds() {
		names = append(names, k.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}
