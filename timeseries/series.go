// Package timeseries provides a chronological series of decimal values,
// each associated with a specific instant.
package timeseries

import (
	"iter"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Series stores a chronological series of values, each associated with a
// specific timestamp. It ensures that timestamps are unique and the series
// is always sorted in ascending time order.
//
// The zero value is an empty series ready for use.
type Series struct {
	stamps []time.Time
	values []decimal.Decimal
}

// compare orders two timestamps for binary search.
func compare(a, b time.Time) int { return a.Compare(b) }

// index returns the position of t in the series and whether it is present.
// When absent, the returned position is where t would be inserted.
func (s *Series) index(t time.Time) (int, bool) {
	return slices.BinarySearchFunc(s.stamps, t, compare)
}

// Len returns the number of points in the series.
func (s *Series) Len() int { return len(s.stamps) }

// Append adds a point to the series.
//
// An existing value at that timestamp is overwritten.
func (s *Series) Append(t time.Time, v decimal.Decimal) *Series {
	i, found := s.index(t)
	if found {
		// Replace, giving priority to the last data.
		s.values[i] = v
		return s
	}
	s.stamps = slices.Insert(s.stamps, i, t)
	s.values = slices.Insert(s.values, i, v)
	return s
}

// AppendAdd adds a point to the series.
//
// An existing value at that timestamp is summed with the new one.
func (s *Series) AppendAdd(t time.Time, v decimal.Decimal) *Series {
	i, found := s.index(t)
	if found {
		s.values[i] = s.values[i].Add(v)
		return s
	}
	s.stamps = slices.Insert(s.stamps, i, t)
	s.values = slices.Insert(s.values, i, v)
	return s
}

// Get returns the value at exactly t, and whether it exists.
func (s *Series) Get(t time.Time) (decimal.Decimal, bool) {
	i, found := s.index(t)
	if !found {
		return decimal.Decimal{}, false
	}
	return s.values[i], true
}

// AsOf returns the value at t, or the most recent value before it.
// It returns false when the series has no point at or before t.
func (s *Series) AsOf(t time.Time) (decimal.Decimal, bool) {
	i, found := s.index(t)
	if found {
		return s.values[i], true
	}
	if i == 0 {
		return decimal.Decimal{}, false
	}
	return s.values[i-1], true
}

// At returns the i-th point in chronological order.
func (s *Series) At(i int) (time.Time, decimal.Decimal) {
	return s.stamps[i], s.values[i]
}

// First returns the earliest point of the series.
// The series must not be empty.
func (s *Series) First() (time.Time, decimal.Decimal) { return s.At(0) }

// Last returns the latest point of the series.
// The series must not be empty.
func (s *Series) Last() (time.Time, decimal.Decimal) { return s.At(s.Len() - 1) }

// Values returns an iterator over all timestamp/value pairs, in
// chronological order.
func (s *Series) Values() iter.Seq2[time.Time, decimal.Decimal] {
	return func(yield func(time.Time, decimal.Decimal) bool) {
		for i, t := range s.stamps {
			if !yield(t, s.values[i]) {
				return
			}
		}
	}
}

// Stamps returns a copy of the series timestamps, in chronological order.
func (s *Series) Stamps() []time.Time { return slices.Clone(s.stamps) }

// Clone returns an independent copy of the series.
func (s *Series) Clone() *Series {
	return &Series{stamps: slices.Clone(s.stamps), values: slices.Clone(s.values)}
}

// CumSum returns a new series holding the running sum of s.
func (s *Series) CumSum() *Series {
	out := &Series{stamps: slices.Clone(s.stamps), values: make([]decimal.Decimal, len(s.values))}
	sum := decimal.Zero
	for i, v := range s.values {
		sum = sum.Add(v)
		out.values[i] = sum
	}
	return out
}

// Diff returns the period-over-period differences of s. The first period has
// no defined difference, so the result is one point shorter than s.
func (s *Series) Diff() *Series {
	if s.Len() == 0 {
		return &Series{}
	}
	out := &Series{
		stamps: slices.Clone(s.stamps[1:]),
		values: make([]decimal.Decimal, s.Len()-1),
	}
	for i := 1; i < s.Len(); i++ {
		out.values[i-1] = s.values[i].Sub(s.values[i-1])
	}
	return out
}

// Scale returns a new series with every value multiplied by k.
func (s *Series) Scale(k decimal.Decimal) *Series {
	out := s.Clone()
	for i := range out.values {
		out.values[i] = out.values[i].Mul(k)
	}
	return out
}

// Reindex projects s onto the given timestamps. Points absent from s take
// the explicit fill value; points of s absent from stamps are dropped.
func (s *Series) Reindex(stamps []time.Time, fill decimal.Decimal) *Series {
	out := &Series{
		stamps: slices.Clone(stamps),
		values: make([]decimal.Decimal, len(stamps)),
	}
	for i, t := range stamps {
		if v, ok := s.Get(t); ok {
			out.values[i] = v
		} else {
			out.values[i] = fill
		}
	}
	return out
}

// Equal reports whether the two series hold the same timestamps and
// numerically equal values.
func (s *Series) Equal(o *Series) bool {
	if s.Len() != o.Len() {
		return false
	}
	for i := range s.stamps {
		if !s.stamps[i].Equal(o.stamps[i]) || !s.values[i].Equal(o.values[i]) {
			return false
		}
	}
	return true
}

// UnionIndex returns the sorted distinct union of the timestamps of all
// given series.
func UnionIndex(series ...*Series) []time.Time {
	var union []time.Time
	for _, s := range series {
		for _, t := range s.stamps {
			i, found := slices.BinarySearchFunc(union, t, compare)
			if !found {
				union = slices.Insert(union, i, t)
			}
		}
	}
	return union
}

// Sum combines several series into one by an outer join over their
// timestamps: the result is indexed by the union of all timestamps, absent
// points contribute an explicit zero.
func Sum(series ...*Series) *Series {
	union := UnionIndex(series...)
	out := &Series{
		stamps: union,
		values: make([]decimal.Decimal, len(union)),
	}
	for i, t := range union {
		sum := decimal.Zero
		for _, s := range series {
			if v, ok := s.Get(t); ok {
				sum = sum.Add(v)
			}
		}
		out.values[i] = sum
	}
	return out
}
