package record

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var string20 = StringType(20)

func TestNew_Basic(t *testing.T) {
	d, err := NewNamed([]Type{Int32Type, Int32Type}, "x", "y")
	require.NoError(t, err)

	require.Equal(t, 2, d.NumFields())
	require.Equal(t, 8, d.Size())

	idx, err := d.FieldNameToIndex("y")
	require.NoError(t, err)
	require.Equal(t, 1, idx)

	name, err := d.FieldName(0)
	require.NoError(t, err)
	require.Equal(t, Named("x"), name)

	ft, err := d.FieldType(1)
	require.NoError(t, err)
	require.Equal(t, Int32Type, ft)
}

func TestNew_ArityMismatch(t *testing.T) {
	t.Run("fewer names", func(t *testing.T) {
		d, err := New([]Type{Int32Type, Int64Type}, []Name{Named("a")})
		require.ErrorIs(t, err, ErrArityMismatch)
		require.Nil(t, d)
	})

	t.Run("more names", func(t *testing.T) {
		_, err := NewNamed([]Type{Int32Type}, "a", "b")
		require.ErrorIs(t, err, ErrArityMismatch)
	})

	t.Run("empty is fine", func(t *testing.T) {
		d, err := New(nil, nil)
		require.NoError(t, err)
		require.Equal(t, 0, d.NumFields())
		require.Equal(t, 0, d.Size())
	})
}

func TestAccessors_OutOfRange(t *testing.T) {
	d := NewAnonymous(Int32Type, BoolType)

	for _, i := range []int{-1, 2, 100} {
		_, err := d.FieldName(i)
		require.ErrorIs(t, err, ErrIndexOutOfRange)

		_, err = d.FieldType(i)
		require.ErrorIs(t, err, ErrIndexOutOfRange)

		_, err = d.Offset(i)
		require.ErrorIs(t, err, ErrIndexOutOfRange)
	}

	empty := NewAnonymous()
	_, err := empty.FieldType(0)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestAccessors_Stable(t *testing.T) {
	d, err := New(
		[]Type{Int64Type, string20, Float64Type},
		[]Name{Named("id"), {}, Named("score")},
	)
	require.NoError(t, err)

	for range 3 {
		for i := range d.NumFields() {
			ft, err := d.FieldType(i)
			require.NoError(t, err)
			require.Equal(t, d.Types()[i], ft)

			n, err := d.FieldName(i)
			require.NoError(t, err)
			require.Equal(t, d.Names()[i], n)
		}
	}

	// returned slices are copies
	fields := d.Fields()
	fields[0].Name = Named("changed")
	types := d.Types()
	types[0] = BoolType

	n, _ := d.FieldName(0)
	require.Equal(t, Named("id"), n)
	ft, _ := d.FieldType(0)
	require.Equal(t, Int64Type, ft)
}

func TestFromFields_Copies(t *testing.T) {
	in := []FieldDesc{{Type: Int32Type, Name: Named("a")}}
	d := FromFields(in)
	in[0].Type = BoolType

	ft, err := d.FieldType(0)
	require.NoError(t, err)
	require.Equal(t, Int32Type, ft)
}

func TestFieldNameToIndex(t *testing.T) {
	t.Run("first match wins", func(t *testing.T) {
		d, err := NewNamed([]Type{Int32Type, Int64Type}, "a", "a")
		require.NoError(t, err)

		idx, err := d.FieldNameToIndex("a")
		require.NoError(t, err)
		require.Equal(t, 0, idx)
	})

	t.Run("case sensitive", func(t *testing.T) {
		d, err := NewNamed([]Type{Int32Type}, "Name")
		require.NoError(t, err)

		_, err = d.FieldNameToIndex("name")
		require.ErrorIs(t, err, ErrFieldNotFound)
	})

	t.Run("skips anonymous", func(t *testing.T) {
		d, err := New([]Type{Int32Type, Int32Type}, []Name{{}, Named("b")})
		require.NoError(t, err)

		idx, err := d.FieldNameToIndex("b")
		require.NoError(t, err)
		require.Equal(t, 1, idx)
	})

	t.Run("missing", func(t *testing.T) {
		d, err := NewNamed([]Type{Int32Type}, "a")
		require.NoError(t, err)
		_, err = d.FieldNameToIndex("missing")
		require.ErrorIs(t, err, ErrFieldNotFound)

		_, err = NewAnonymous(Int32Type, Int32Type).FieldNameToIndex("missing")
		require.ErrorIs(t, err, ErrFieldNotFound)
	})

	t.Run("empty name never matches", func(t *testing.T) {
		_, err := NewAnonymous(Int32Type).FieldNameToIndex("")
		require.ErrorIs(t, err, ErrFieldNotFound)

		d, err := NewNamed([]Type{Int32Type}, "")
		require.NoError(t, err)
		_, err = d.FieldNameToIndex("")
		require.ErrorIs(t, err, ErrFieldNotFound)
	})
}

func TestSizeAndOffsets(t *testing.T) {
	d := NewAnonymous(Int32Type, Int64Type, BoolType, Float64Type, string20)
	require.Equal(t, 4+8+1+8+20, d.Size())

	want := []int{0, 4, 12, 13, 21}
	for i, w := range want {
		off, err := d.Offset(i)
		require.NoError(t, err)
		require.Equal(t, w, off)
	}
}

func TestMerge(t *testing.T) {
	a, err := NewNamed([]Type{Int32Type}, "a")
	require.NoError(t, err)
	b, err := NewNamed([]Type{string20}, "b")
	require.NoError(t, err)

	m := Merge(a, b)
	require.Equal(t, 2, m.NumFields())
	require.Equal(t, 24, m.Size())

	ft, _ := m.FieldType(0)
	require.Equal(t, Int32Type, ft)
	n, _ := m.FieldName(0)
	require.Equal(t, Named("a"), n)

	ft, _ = m.FieldType(1)
	require.Equal(t, string20, ft)
	n, _ = m.FieldName(1)
	require.Equal(t, Named("b"), n)

	// inputs untouched
	require.Equal(t, 1, a.NumFields())
	require.Equal(t, 1, b.NumFields())
}

func TestMerge_AppendsAll(t *testing.T) {
	a := NewAnonymous(Int32Type, Int64Type, BoolType)
	b := NewAnonymous(Float64Type, string20)

	m := Merge(a, b)
	require.Equal(t, a.NumFields()+b.NumFields(), m.NumFields())
	require.Equal(t, a.Size()+b.Size(), m.Size())

	for i := range m.NumFields() {
		got, err := m.FieldType(i)
		require.NoError(t, err)

		var want Type
		if i < a.NumFields() {
			want, err = a.FieldType(i)
		} else {
			want, err = b.FieldType(i - a.NumFields())
		}
		require.NoError(t, err)
		require.Equal(t, want, got, "field %d", i)
	}

	require.True(t, Merge(a, nil).Equal(a))
	require.True(t, Merge(nil, b).Equal(b))
	require.Equal(t, 0, Merge(nil, nil).NumFields())
}

func TestEqual(t *testing.T) {
	named, err := NewNamed([]Type{Int32Type}, "x")
	require.NoError(t, err)
	anon := NewAnonymous(Int32Type)

	tests := []struct {
		name string
		a, b *TupleDesc
		want bool
	}{
		{"names ignored", named, anon, true},
		{"self", anon, anon, true},
		{"same size different layout", NewAnonymous(Int32Type, Int32Type), NewAnonymous(Int64Type), false},
		{"different order", NewAnonymous(Int32Type, BoolType), NewAnonymous(BoolType, Int32Type), false},
		{"prefix", NewAnonymous(Int32Type), NewAnonymous(Int32Type, Int32Type), false},
		{"string widths", NewAnonymous(StringType(8)), NewAnonymous(StringType(9)), false},
		{"int64 vs float64", NewAnonymous(Int64Type), NewAnonymous(Float64Type), false},
		{"both empty", NewAnonymous(), NewAnonymous(), true},
		{"nil vs empty", nil, NewAnonymous(), false},
		{"nil vs nil", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.a.Equal(tt.b))
			require.Equal(t, tt.want, tt.b.Equal(tt.a))
			if tt.want && tt.a != nil {
				require.Equal(t, tt.a.Hash(), tt.b.Hash())
			}
		})
	}
}

func TestHash_IgnoresNames(t *testing.T) {
	types := []Type{Int32Type, string20, Float64Type}
	d1, err := NewNamed(types, "a", "b", "c")
	require.NoError(t, err)
	d2 := NewAnonymous(types...)

	require.Equal(t, d1.Hash(), d2.Hash())
	require.Equal(t, d1.Hash(), d1.Hash())
	require.NotEqual(t, d1.Hash(), NewAnonymous(Float64Type, string20, Int32Type).Hash())
}

func TestString(t *testing.T) {
	d, err := New([]Type{Int32Type, string20}, []Name{Named("id"), {}})
	require.NoError(t, err)

	s := d.String()
	require.Equal(t, "INT32(id), STRING(20)(null)", s)
	require.Equal(t, s, d.String())
	require.Empty(t, NewAnonymous().String())
}

func TestAll_StopsEarly(t *testing.T) {
	d := NewAnonymous(Int32Type, Int64Type, BoolType)

	var seen []int
	for i := range d.All() {
		seen = append(seen, i)
		if i == 1 {
			break
		}
	}
	require.Equal(t, []int{0, 1}, seen)
}

func TestConcurrentReaders(t *testing.T) {
	d, err := NewNamed([]Type{Int32Type, Int64Type, string20}, "a", "b", "c")
	require.NoError(t, err)
	want := d.Hash()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if _, err := d.FieldNameToIndex("c"); err != nil {
					errs <- err
					return
				}
				if d.Hash() != want || !strings.Contains(d.String(), "INT64(b)") {
					errs <- ErrIndexOutOfRange
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func TestZeroValue(t *testing.T) {
	var d TupleDesc
	require.Equal(t, 0, d.NumFields())
	require.Equal(t, 0, d.Size())
	require.True(t, d.Equal(NewAnonymous()))

	var nilDesc *TupleDesc
	require.Equal(t, 0, nilDesc.Size())
	_, err := nilDesc.FieldNameToIndex("a")
	require.ErrorIs(t, err, ErrFieldNotFound)
}
