package seq

import "iter"

// ObserveAPI exposes the side-effect free observers of a sequence.
type ObserveAPI interface {
	Size() int
	Capacity() int
	MaxSize() int
	Empty() bool
	Begin() int
	End() int
}

// MutateAPI exposes the size and capacity changing operations.
type MutateAPI[T any] interface {
	Append(values ...T)
	Resize(n int)
	Clear()
	EraseRange(begin, end int)
	Erase(pos int)
	Reserve(n int)
	ShrinkToFit()
	PopBack() (T, bool)
}

// AccessAPI exposes bounds-checked element access.
type AccessAPI[T any] interface {
	At(i int) (T, error)
	Set(i int, value T) error
	Values() []T
	All() iter.Seq2[int, T]
}

// SequenceAPI is the composed interface implemented by Vector.
type SequenceAPI[T any] interface {
	ObserveAPI
	MutateAPI[T]
	AccessAPI[T]
}

var _ SequenceAPI[int] = (*Vector[int])(nil)
