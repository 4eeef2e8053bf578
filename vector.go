package seq

import (
	"fmt"
	"iter"
	"math"
	"unsafe"
)

// Vector is a contiguous, growable, ordered sequence.
// The zero value is an empty vector using DoublingGrowth.
// A Vector is not safe for concurrent mutation.
type Vector[T any] struct {
	data   []T
	growth GrowthPolicy
}

type vectorConfig struct {
	capacity int
	growth   GrowthPolicy
}

// VectorOption configures a Vector at construction.
type VectorOption func(*vectorConfig)

// WithCapacity reserves n slots up front.
func WithCapacity(n int) VectorOption {
	return func(cfg *vectorConfig) {
		cfg.capacity = n
	}
}

// WithGrowthPolicy replaces the default doubling policy.
func WithGrowthPolicy(p GrowthPolicy) VectorOption {
	return func(cfg *vectorConfig) {
		cfg.growth = p
	}
}

// NewVector returns an empty vector.
// @group Vector
//
// Example: empty on create
//
//	v := seq.NewVector[int]()
//	fmt.Println(v.Empty(), v.Size()) // true 0
//
// Example: with reserved capacity
//
//	v = seq.NewVector[int](seq.WithCapacity(16))
//	fmt.Println(v.Size(), v.Capacity() >= 16) // 0 true
func NewVector[T any](opts ...VectorOption) *Vector[T] {
	cfg := vectorConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	v := &Vector[T]{growth: cfg.growth}
	v.Reserve(cfg.capacity)
	return v
}

// VectorOf returns a vector holding values in order.
// @group Vector
//
// Example: literal vector
//
//	v := seq.VectorOf(3, 1, 4)
//	fmt.Println(v.Size()) // 3
func VectorOf[T any](values ...T) *Vector[T] {
	v := NewVector[T]()
	v.Append(values...)
	return v
}

// Size reports the number of live elements.
// @group Vector
func (v *Vector[T]) Size() int {
	return len(v.data)
}

// Capacity reports how many elements fit before the next reallocation.
// @group Vector
func (v *Vector[T]) Capacity() int {
	return cap(v.data)
}

// MaxSize is the upper bound on Size, independent of available memory.
// @group Vector
func (v *Vector[T]) MaxSize() int {
	var zero T
	width := int(unsafe.Sizeof(zero))
	if width == 0 {
		return math.MaxInt
	}
	return math.MaxInt / width
}

// Empty reports whether Size is zero.
// @group Vector
func (v *Vector[T]) Empty() bool {
	return len(v.data) == 0
}

// Begin is the position of the first element.
func (v *Vector[T]) Begin() int { return 0 }

// End is the position one past the last element.
func (v *Vector[T]) End() int { return len(v.data) }

// Append adds values after the last element, growing capacity first when needed.
// @group Vector
//
// Example: append
//
//	v := seq.NewVector[int]()
//	v.Append(7)
//	v.Append(8, 9)
//	fmt.Println(v.Size()) // 3
func (v *Vector[T]) Append(values ...T) {
	if len(values) == 0 {
		return
	}
	v.grow(len(v.data) + len(values))
	v.data = append(v.data, values...)
}

// Resize sets Size to n, appending zero values or truncating the tail.
// It panics if n is negative.
// @group Vector
//
// Example: resize up and down
//
//	v := seq.NewVector[int]()
//	v.Resize(10)
//	v.Resize(5)
//	fmt.Println(v.Size()) // 5
func (v *Vector[T]) Resize(n int) {
	if n < 0 {
		panic(fmt.Sprintf("seq: negative size %d", n))
	}
	if n <= len(v.data) {
		clear(v.data[n:])
		v.data = v.data[:n]
		return
	}
	v.grow(n)
	v.data = v.data[:n]
}

// Clear removes every element. Capacity is kept.
// @group Vector
func (v *Vector[T]) Clear() {
	clear(v.data)
	v.data = v.data[:0]
}

// EraseRange removes the elements at positions [begin, end).
// It panics if the range does not lie within [0, Size].
// @group Vector
//
// Example: erase everything
//
//	v := seq.VectorOf(1, 2, 3)
//	v.EraseRange(v.Begin(), v.End())
//	fmt.Println(v.Empty()) // true
func (v *Vector[T]) EraseRange(begin, end int) {
	if begin < 0 || end < begin || end > len(v.data) {
		panic(fmt.Sprintf("seq: erase range [%d:%d) out of bounds for size %d", begin, end, len(v.data)))
	}
	if begin == end {
		return
	}
	kept := copy(v.data[begin:], v.data[end:])
	clear(v.data[begin+kept:])
	v.data = v.data[:begin+kept]
}

// Erase removes the element at pos.
func (v *Vector[T]) Erase(pos int) {
	v.EraseRange(pos, pos+1)
}

// Reserve ensures Capacity is at least n without touching Size or elements.
// It panics if n exceeds MaxSize.
// @group Vector
//
// Example: reserve
//
//	v := seq.VectorOf(1, 2)
//	before := v.Capacity()
//	v.Reserve(before + 10)
//	fmt.Println(v.Size(), v.Capacity() > before) // 2 true
func (v *Vector[T]) Reserve(n int) {
	if n <= cap(v.data) {
		return
	}
	if n > v.MaxSize() {
		panic(fmt.Sprintf("seq: reserve %d exceeds max size %d", n, v.MaxSize()))
	}
	v.realloc(n)
}

// ShrinkToFit drops unused capacity.
func (v *Vector[T]) ShrinkToFit() {
	if cap(v.data) == len(v.data) {
		return
	}
	v.realloc(len(v.data))
}

// At returns the element at i, or a *RangeError when i is outside [0, Size).
// @group Vector
//
// Example: bounds-checked access
//
//	v := seq.VectorOf(1, 2, 3)
//	_, err := v.At(10)
//	fmt.Println(errors.Is(err, seq.ErrOutOfRange)) // true
func (v *Vector[T]) At(i int) (T, error) {
	if uint(i) >= uint(len(v.data)) {
		var zero T
		return zero, &RangeError{Index: i, Size: len(v.data)}
	}
	return v.data[i], nil
}

// Set replaces the element at i under the same bounds rule as At.
func (v *Vector[T]) Set(i int, value T) error {
	if uint(i) >= uint(len(v.data)) {
		return &RangeError{Index: i, Size: len(v.data)}
	}
	v.data[i] = value
	return nil
}

// PopBack removes and returns the last element.
func (v *Vector[T]) PopBack() (T, bool) {
	var zero T
	n := len(v.data)
	if n == 0 {
		return zero, false
	}
	last := v.data[n-1]
	v.data[n-1] = zero
	v.data = v.data[:n-1]
	return last, true
}

// Values returns a copy of the live elements in order.
func (v *Vector[T]) Values() []T {
	out := make([]T, len(v.data))
	copy(out, v.data)
	return out
}

// All yields positions and elements in order.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, value := range v.data {
			if !yield(i, value) {
				return
			}
		}
	}
}

// Clone returns an independent copy with the same capacity and growth policy.
func (v *Vector[T]) Clone() *Vector[T] {
	out := &Vector[T]{growth: v.growth}
	out.data = make([]T, len(v.data), cap(v.data))
	copy(out.data, v.data)
	return out
}

func (v *Vector[T]) grow(required int) {
	if required <= cap(v.data) {
		return
	}
	limit := v.MaxSize()
	if required > limit {
		panic(fmt.Sprintf("seq: size %d exceeds max size %d", required, limit))
	}
	policy := v.growth
	if policy == nil {
		policy = DoublingGrowth
	}
	next := policy(cap(v.data), required)
	if next < required {
		next = required
	}
	if next > limit {
		next = limit
	}
	v.realloc(next)
}

// realloc moves elements into fresh storage of exactly capacity slots.
func (v *Vector[T]) realloc(capacity int) {
	data := make([]T, len(v.data), capacity)
	copy(data, v.data)
	v.data = data
}
