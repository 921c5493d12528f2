package record

import (
	"errors"
	"fmt"
	"hash/fnv"
	"iter"
	"slices"
	"strings"

	"github.com/tuannm99/tupledesc/internal/alias/bx"
)

var (
	ErrIndexOutOfRange = errors.New("record: field index out of range")
	ErrFieldNotFound   = errors.New("record: no field with that name")
	ErrArityMismatch   = errors.New("record: types and names differ in length")
)

// Name is an optional field name. The zero Name is anonymous and never
// matches a lookup by name.
type Name struct {
	Value string
	Valid bool
}

func Named(s string) Name { return Name{Value: s, Valid: true} }

func (n Name) String() string {
	if !n.Valid {
		return "null"
	}
	return n.Value
}

// FieldDesc describes one column of a tuple.
type FieldDesc struct {
	Type Type
	Name Name
}

func (f FieldDesc) String() string {
	return f.Type.String() + "(" + f.Name.String() + ")"
}

// TupleDesc is the immutable, ordered schema of a tuple. Safe for concurrent
// use once built.
type TupleDesc struct {
	fields  []FieldDesc
	offsets []int // offsets[i] = byte offset of field i; len = n+1
}

func build(fields []FieldDesc) *TupleDesc {
	offsets := make([]int, len(fields)+1)
	for i, f := range fields {
		offsets[i+1] = offsets[i] + f.Type.Size()
	}
	return &TupleDesc{fields: fields, offsets: offsets}
}

// New pairs types[i] with names[i]. The slices must have equal length.
func New(types []Type, names []Name) (*TupleDesc, error) {
	if len(types) != len(names) {
		return nil, fmt.Errorf("%w: %d types, %d names", ErrArityMismatch, len(types), len(names))
	}
	fields := make([]FieldDesc, len(types))
	for i := range types {
		fields[i] = FieldDesc{Type: types[i], Name: names[i]}
	}
	return build(fields), nil
}

// NewNamed is New with every name present.
func NewNamed(types []Type, names ...string) (*TupleDesc, error) {
	ns := make([]Name, len(names))
	for i, s := range names {
		ns[i] = Named(s)
	}
	return New(types, ns)
}

// NewAnonymous builds a descriptor whose fields have no names.
func NewAnonymous(types ...Type) *TupleDesc {
	fields := make([]FieldDesc, len(types))
	for i, t := range types {
		fields[i] = FieldDesc{Type: t}
	}
	return build(fields)
}

func FromFields(fields []FieldDesc) *TupleDesc {
	return build(slices.Clone(fields))
}

// Merge returns a descriptor with all of a's fields followed by all of b's.
func Merge(a, b *TupleDesc) *TupleDesc {
	fields := make([]FieldDesc, 0, a.NumFields()+b.NumFields())
	if a != nil {
		fields = append(fields, a.fields...)
	}
	if b != nil {
		fields = append(fields, b.fields...)
	}
	return build(fields)
}

func (d *TupleDesc) NumFields() int {
	if d == nil {
		return 0
	}
	return len(d.fields)
}

func (d *TupleDesc) checkIndex(i int) error {
	if i < 0 || i >= d.NumFields() {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, i, d.NumFields())
	}
	return nil
}

func (d *TupleDesc) Field(i int) (FieldDesc, error) {
	if err := d.checkIndex(i); err != nil {
		return FieldDesc{}, err
	}
	return d.fields[i], nil
}

func (d *TupleDesc) FieldName(i int) (Name, error) {
	f, err := d.Field(i)
	return f.Name, err
}

func (d *TupleDesc) FieldType(i int) (Type, error) {
	f, err := d.Field(i)
	return f.Type, err
}

// FieldNameToIndex returns the index of the first field named name.
// Anonymous fields never match, and neither does the empty string.
func (d *TupleDesc) FieldNameToIndex(name string) (int, error) {
	if name != "" {
		for i, f := range d.All() {
			if f.Name.Valid && f.Name.Value == name {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrFieldNotFound, name)
}

// Size is the byte length of every tuple conforming to d.
func (d *TupleDesc) Size() int {
	if d == nil || len(d.offsets) == 0 {
		return 0
	}
	return d.offsets[len(d.fields)]
}

// Offset is the byte position of field i inside an encoded tuple.
func (d *TupleDesc) Offset(i int) (int, error) {
	if err := d.checkIndex(i); err != nil {
		return 0, err
	}
	return d.offsets[i], nil
}

func (d *TupleDesc) All() iter.Seq2[int, FieldDesc] {
	return func(yield func(int, FieldDesc) bool) {
		for i := 0; i < d.NumFields(); i++ {
			if !yield(i, d.fields[i]) {
				return
			}
		}
	}
}

func (d *TupleDesc) Fields() []FieldDesc {
	if d == nil {
		return nil
	}
	return slices.Clone(d.fields)
}

func (d *TupleDesc) Types() []Type {
	out := make([]Type, d.NumFields())
	for i, f := range d.All() {
		out[i] = f.Type
	}
	return out
}

func (d *TupleDesc) Names() []Name {
	out := make([]Name, d.NumFields())
	for i, f := range d.All() {
		out[i] = f.Name
	}
	return out
}

// Validate reports the first field whose type is not a valid Type.
func (d *TupleDesc) Validate() error {
	for i, f := range d.All() {
		if !f.Type.IsValid() {
			return fmt.Errorf("%w: field %d is %s", ErrUnknownType, i, f.Type)
		}
	}
	return nil
}

// Equal reports whether d and o have the same type sequence. Names are ignored.
func (d *TupleDesc) Equal(o *TupleDesc) bool {
	if d == nil || o == nil {
		return d == o
	}
	if len(d.fields) != len(o.fields) {
		return false
	}
	for i := range d.fields {
		if d.fields[i].Type != o.fields[i].Type {
			return false
		}
	}
	return true
}

// Hash is consistent with Equal: names do not contribute.
func (d *TupleDesc) Hash() uint64 {
	h := fnv.New64a()
	var b [8]byte
	for _, f := range d.All() {
		bx.PutU64(b[:], f.Type.Hash())
		_, _ = h.Write(b[:])
	}
	return h.Sum64()
}

func (d *TupleDesc) String() string {
	var sb strings.Builder
	for i, f := range d.All() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.String())
	}
	return sb.String()
}
