package seq

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

const snapshotVersion = 1

// maxRestoredSpare bounds the unused capacity a decoded snapshot reserves
// beyond its elements.
const maxRestoredSpare = 1 << 16

var (
	ErrCorruptSnapshot = errors.New("seq: corrupt snapshot")
	ErrSnapshotVersion = errors.New("seq: unsupported snapshot version")
)

type snapshot[T any] struct {
	Version  int `json:"v"`
	Capacity int `json:"cap"`
	Items    []T `json:"items"`
}

// EncodeSnapshot serializes the elements and capacity of v.
// @group Snapshots
//
// Example: round trip
//
//	v := seq.VectorOf(1, 2, 3)
//	body, _ := seq.EncodeSnapshot(v)
//	restored, _ := seq.DecodeSnapshot[int](body)
//	fmt.Println(restored.Size()) // 3
func EncodeSnapshot[T any](v *Vector[T]) ([]byte, error) {
	items := v.data
	if items == nil {
		items = []T{}
	}
	body, err := json.Marshal(snapshot[T]{
		Version:  snapshotVersion,
		Capacity: v.Capacity(),
		Items:    items,
	})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return body, nil
}

// DecodeSnapshot rebuilds a vector with the recorded elements. The recorded
// capacity is restored up to maxRestoredSpare slots past the last element.
// A capacity above MaxSize is reported as ErrCorruptSnapshot.
// @group Snapshots
func DecodeSnapshot[T any](body []byte, opts ...VectorOption) (*Vector[T], error) {
	var snap snapshot[T]
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrSnapshotVersion, snap.Version)
	}
	if snap.Capacity < len(snap.Items) {
		return nil, fmt.Errorf("%w: capacity %d below size %d", ErrCorruptSnapshot, snap.Capacity, len(snap.Items))
	}
	v := NewVector[T](opts...)
	if snap.Capacity > v.MaxSize() {
		return nil, fmt.Errorf("%w: capacity %d exceeds max size %d", ErrCorruptSnapshot, snap.Capacity, v.MaxSize())
	}
	v.Reserve(len(snap.Items) + min(snap.Capacity-len(snap.Items), maxRestoredSpare))
	v.Append(snap.Items...)
	return v, nil
}
