// Package element holds board entities: their identifiers, shape models and
// the capability registry through which tools and renderers use them.
package element

import (
	"fmt"
	"strconv"
)

// Kind is the closed set of element kinds.
type Kind uint8

const (
	KindRectangle Kind = iota + 1
	KindPolygon
	KindFreeHand
	KindText
	KindContainer
)

var kindNames = map[Kind]string{
	KindRectangle: "Rectangle",
	KindPolygon:   "Polygon",
	KindFreeHand:  "FreeHand",
	KindText:      "Text",
	KindContainer: "Container",
}

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindRectangle, KindPolygon, KindFreeHand, KindText, KindContainer}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind maps a kind name such as "Rectangle" to its Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown element kind %q", name)
}

// MarshalText encodes the kind as its name.
func (k Kind) MarshalText() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown element kind %d", k)
	}
	return []byte(name), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ID identifies an entity across the board. Two ids are equal only when
// owner, index and kind all match.
type ID struct {
	Owner string `json:"owner_id"`
	Index uint64 `json:"index"`
	Kind  Kind   `json:"element_type"`
}

// Generate returns a fresh id for owner. Indices come from a process-wide
// monotonic clock, so ids generated in quick succession never collide.
func Generate(owner string, kind Kind) ID {
	return ID{Owner: owner, Index: nextIndex(), Kind: kind}
}

// String returns the external form "owner_index".
func (id ID) String() string {
	return id.Owner + "_" + strconv.FormatUint(id.Index, 10)
}

// HTMLID returns the form used as SVG element id: "owner-index".
func (id ID) HTMLID() string {
	return id.Owner + "-" + strconv.FormatUint(id.Index, 10)
}

// IsZero reports whether id was never assigned.
func (id ID) IsZero() bool { return id == ID{} }
