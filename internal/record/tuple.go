package record

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrTypeMismatch = errors.New("record: value does not match field type")
	ErrFieldUnset   = errors.New("record: field has no value")
)

// Tuple holds one value per field of its descriptor. Values are stored in
// their canonical Go form: int32, int64, bool, float64, string.
type Tuple struct {
	desc   *TupleDesc
	values []any
}

func NewTuple(desc *TupleDesc) *Tuple {
	return &Tuple{desc: desc, values: make([]any, desc.NumFields())}
}

func (t *Tuple) Desc() *TupleDesc { return t.desc }

// SetField checks v against the type of field i and stores it.
func (t *Tuple) SetField(i int, v any) error {
	ft, err := t.desc.FieldType(i)
	if err != nil {
		return err
	}
	cv, ok := coerce(ft, v)
	if !ok {
		return fmt.Errorf("%w: field %d is %s, got %T", ErrTypeMismatch, i, ft, v)
	}
	if ft.Kind() == KindString && len(cv.(string)) > ft.MaxLen() {
		return fmt.Errorf("%w: field %d holds %d bytes, got %d", ErrStringTooLong, i, ft.MaxLen(), len(cv.(string)))
	}
	t.values[i] = cv
	return nil
}

// SetFields sets every field in order.
func (t *Tuple) SetFields(values ...any) error {
	if len(values) != t.desc.NumFields() {
		return fmt.Errorf("%w: %d fields, %d values", ErrArityMismatch, t.desc.NumFields(), len(values))
	}
	for i, v := range values {
		if err := t.SetField(i, v); err != nil {
			return err
		}
	}
	return nil
}

// GetField returns the value of field i, or nil if unset.
func (t *Tuple) GetField(i int) (any, error) {
	if err := t.desc.checkIndex(i); err != nil {
		return nil, err
	}
	return t.values[i], nil
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.values))
	for i, v := range t.values {
		if v == nil {
			parts[i] = "null"
			continue
		}
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, "\t")
}

func coerce(ft Type, v any) (any, bool) {
	switch ft.Kind() {
	case KindInt32:
		return asInt32(v)
	case KindInt64:
		return asInt64(v)
	case KindBool:
		x, ok := v.(bool)
		return x, ok
	case KindFloat64:
		return asFloat64(v)
	case KindString:
		switch x := v.(type) {
		case string:
			return x, true
		case []byte:
			return string(x), true
		}
	}
	return nil, false
}

// asInt32 narrows wider ints when they fit.
func asInt32(v any) (any, bool) {
	switch x := v.(type) {
	case int32:
		return x, true
	case int:
		if x >= math.MinInt32 && x <= math.MaxInt32 {
			return int32(x), true
		}
	case int64:
		if x >= math.MinInt32 && x <= math.MaxInt32 {
			return int32(x), true
		}
	}
	return nil, false
}

func asInt64(v any) (any, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	}
	return nil, false
}

func asFloat64(v any) (any, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	}
	return nil, false
}
