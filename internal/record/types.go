package record

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Kind uint8

const (
	KindInt32 Kind = iota + 1
	KindInt64
	KindBool
	KindFloat64
	KindString // fixed-width slot: u16 length + payload + padding
)

// MaxStringWidth keeps the payload length addressable by the u16 prefix.
const MaxStringWidth = math.MaxUint16 + 2

var (
	ErrBadStringWidth = errors.New("record: string width out of range")
	ErrUnknownType    = errors.New("record: unknown field type")
)

// Type is a fixed-width field type. It is comparable, so == is type equality.
// The zero Type is invalid.
type Type struct {
	kind  Kind
	width uint32 // strings only
}

var (
	Int32Type   = Type{kind: KindInt32}
	Int64Type   = Type{kind: KindInt64}
	BoolType    = Type{kind: KindBool}
	Float64Type = Type{kind: KindFloat64}
)

// NewStringType returns a string type whose slot occupies width bytes,
// two of which hold the length prefix.
func NewStringType(width int) (Type, error) {
	if width < 2 || width > MaxStringWidth {
		return Type{}, fmt.Errorf("%w: %d", ErrBadStringWidth, width)
	}
	return Type{kind: KindString, width: uint32(width)}, nil
}

// StringType is like NewStringType but panics on an invalid width.
func StringType(width int) Type {
	t, err := NewStringType(width)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Type) Kind() Kind { return t.kind }

func (t Type) IsValid() bool {
	switch t.kind {
	case KindInt32, KindInt64, KindBool, KindFloat64:
		return t.width == 0
	case KindString:
		return t.width >= 2 && t.width <= MaxStringWidth
	}
	return false
}

// Size is the number of bytes a value of this type occupies in a tuple.
func (t Type) Size() int {
	switch t.kind {
	case KindInt32:
		return 4
	case KindInt64, KindFloat64:
		return 8
	case KindBool:
		return 1
	case KindString:
		return int(t.width)
	default:
		return 0
	}
}

// MaxLen is the longest string payload a KindString type can hold; 0 otherwise.
func (t Type) MaxLen() int {
	if t.kind != KindString {
		return 0
	}
	return int(t.width) - 2
}

func (t Type) Equal(o Type) bool { return t == o }

func (t Type) Hash() uint64 {
	return uint64(t.kind)<<32 | uint64(t.width)
}

func (t Type) String() string {
	switch t.kind {
	case KindInt32:
		return "INT32"
	case KindInt64:
		return "INT64"
	case KindBool:
		return "BOOL"
	case KindFloat64:
		return "FLOAT64"
	case KindString:
		return "STRING(" + strconv.Itoa(int(t.width)) + ")"
	default:
		return "INVALID"
	}
}

// ParseType accepts the String() form and a few common aliases
// (INT, BIGINT, BOOLEAN, DOUBLE, STRING20).
func ParseType(s string) (Type, error) {
	u := strings.ToUpper(strings.TrimSpace(s))
	switch u {
	case "INT32", "INT", "INTEGER":
		return Int32Type, nil
	case "INT64", "BIGINT":
		return Int64Type, nil
	case "BOOL", "BOOLEAN":
		return BoolType, nil
	case "FLOAT64", "DOUBLE":
		return Float64Type, nil
	}

	if rest, ok := strings.CutPrefix(u, "STRING"); ok && rest != "" {
		if strings.HasPrefix(rest, "(") && strings.HasSuffix(rest, ")") {
			rest = rest[1 : len(rest)-1]
		}
		w, err := strconv.Atoi(rest)
		if err != nil {
			return Type{}, fmt.Errorf("%w: %q", ErrUnknownType, s)
		}
		return NewStringType(w)
	}
	return Type{}, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

func (t Type) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: kind=%d width=%d", ErrUnknownType, t.kind, t.width)
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(b []byte) error {
	pt, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = pt
	return nil
}
