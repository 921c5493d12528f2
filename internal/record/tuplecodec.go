package record

import (
	"errors"
	"fmt"
	"math"

	"github.com/tuannm99/tupledesc/internal/alias/bx"
)

var (
	ErrBadBuffer     = errors.New("record: buffer length does not match tuple size")
	ErrStringTooLong = errors.New("record: string exceeds field width")
)

// EncodeTuple lays t out in exactly t.Desc().Size() bytes.
// Format: fields back to back at TupleDesc offsets, little-endian.
// STRING(n): u16 length + payload, zero padded to n bytes.
func EncodeTuple(t *Tuple) ([]byte, error) {
	d := t.desc
	out := make([]byte, d.Size())

	for i, f := range d.All() {
		v := t.values[i]
		if v == nil {
			return nil, fmt.Errorf("%w: field %d (%s)", ErrFieldUnset, i, f)
		}
		off := d.offsets[i]
		b := out[off : off+f.Type.Size()]

		switch f.Type.Kind() {
		case KindInt32:
			bx.PutU32(b, uint32(v.(int32)))
		case KindInt64:
			bx.PutU64(b, uint64(v.(int64)))
		case KindBool:
			if v.(bool) {
				b[0] = 1
			}
		case KindFloat64:
			bx.PutU64(b, math.Float64bits(v.(float64)))
		case KindString:
			if err := bx.PutSlot(b, []byte(v.(string))); err != nil {
				return nil, fmt.Errorf("%w: field %d", ErrStringTooLong, i)
			}
		default:
			return nil, fmt.Errorf("%w: field %d", ErrUnknownType, i)
		}
	}
	return out, nil
}

// DecodeTuple reads a tuple encoded by EncodeTuple.
func DecodeTuple(d *TupleDesc, buf []byte) (*Tuple, error) {
	if len(buf) != d.Size() {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrBadBuffer, d.Size(), len(buf))
	}
	t := NewTuple(d)

	for i, f := range d.All() {
		off := d.offsets[i]
		b := buf[off : off+f.Type.Size()]

		switch f.Type.Kind() {
		case KindInt32:
			t.values[i] = int32(bx.U32(b))
		case KindInt64:
			t.values[i] = int64(bx.U64(b))
		case KindBool:
			t.values[i] = b[0] != 0
		case KindFloat64:
			t.values[i] = math.Float64frombits(bx.U64(b))
		case KindString:
			s, err := bx.Slot(b)
			if err != nil {
				return nil, fmt.Errorf("%w: field %d", ErrBadBuffer, i)
			}
			t.values[i] = string(s)
		default:
			return nil, fmt.Errorf("%w: field %d", ErrUnknownType, i)
		}
	}
	return t, nil
}
