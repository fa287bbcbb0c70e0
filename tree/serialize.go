// Copyright 2025 Naren Yellavula
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tree

import (
	"bufio"
	"cmp"
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// The wire format is a sequence of sized records: an 8-byte
// little-endian unsigned length before every scalar, then the scalar's
// bytes. The stream opens with the duplicate-policy bool and continues
// with level-order key [value] pairs; no type tags are written, so the
// reader must be instantiated with the types that produced the stream.

var (
	// ErrCorrupted marks a stream that ends inside a record or carries
	// an impossible record size.
	ErrCorrupted = errors.New("corrupted tree data")
	// ErrUnsupportedType marks a key or value type the codec cannot
	// carry. Types implementing encoding.BinaryMarshaler and
	// BinaryUnmarshaler are carried via those.
	ErrUnsupportedType = errors.New("unsupported type")
)

// Streams are not trusted; a flipped size field must not drive an
// allocation of arbitrary size.
const maxRecordSize = 1 << 30

func writeSized(w io.Writer, data []byte) error {
	var hdr [8]byte
	binary.LittleEndian.PutUint64(hdr[:], uint64(len(data)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// readSized reads one sized record. A stream ending exactly before a
// size field returns io.EOF untouched; ending anywhere inside a record
// returns ErrCorrupted.
func readSized(r io.Reader) ([]byte, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("truncated size field: %w", ErrCorrupted)
		}
		return nil, err
	}
	size := binary.LittleEndian.Uint64(hdr[:])
	if size > maxRecordSize {
		return nil, fmt.Errorf("record size %d out of range: %w", size, ErrCorrupted)
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("truncated record: %w", ErrCorrupted)
	}
	return data, nil
}

func le16(v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return b[:]
}

func le32(v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return b[:]
}

func le64(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}

// encodeScalar writes one sized record for v. int and uint travel as 8
// bytes regardless of platform so streams are portable across word
// sizes.
func encodeScalar(w io.Writer, v any) error {
	switch x := v.(type) {
	case string:
		return writeSized(w, []byte(x))
	case bool:
		b := byte(0)
		if x {
			b = 1
		}
		return writeSized(w, []byte{b})
	case int:
		return writeSized(w, le64(uint64(x)))
	case int8:
		return writeSized(w, []byte{byte(x)})
	case int16:
		return writeSized(w, le16(uint16(x)))
	case int32:
		return writeSized(w, le32(uint32(x)))
	case int64:
		return writeSized(w, le64(uint64(x)))
	case uint:
		return writeSized(w, le64(uint64(x)))
	case uint8:
		return writeSized(w, []byte{x})
	case uint16:
		return writeSized(w, le16(x))
	case uint32:
		return writeSized(w, le32(x))
	case uint64:
		return writeSized(w, le64(x))
	case uintptr:
		return writeSized(w, le64(uint64(x)))
	case float32:
		return writeSized(w, le32(math.Float32bits(x)))
	case float64:
		return writeSized(w, le64(math.Float64bits(x)))
	}
	if m, ok := v.(encoding.BinaryMarshaler); ok {
		data, err := m.MarshalBinary()
		if err != nil {
			return err
		}
		return writeSized(w, data)
	}
	return fmt.Errorf("%w: %T", ErrUnsupportedType, v)
}

// decodeScalar reads one sized record into out, which must be a pointer
// to a supported type. A record whose size disagrees with the fixed
// width of the target type is corruption.
func decodeScalar(r io.Reader, out any) error {
	data, err := readSized(r)
	if err != nil {
		return err
	}
	need := func(n int) error {
		if len(data) != n {
			return fmt.Errorf("record size %d for %T: %w", len(data), out, ErrCorrupted)
		}
		return nil
	}
	switch p := out.(type) {
	case *string:
		*p = string(data)
		return nil
	case *bool:
		if err := need(1); err != nil {
			return err
		}
		*p = data[0] != 0
		return nil
	case *int:
		if err := need(8); err != nil {
			return err
		}
		*p = int(int64(binary.LittleEndian.Uint64(data)))
		return nil
	case *int8:
		if err := need(1); err != nil {
			return err
		}
		*p = int8(data[0])
		return nil
	case *int16:
		if err := need(2); err != nil {
			return err
		}
		*p = int16(binary.LittleEndian.Uint16(data))
		return nil
	case *int32:
		if err := need(4); err != nil {
			return err
		}
		*p = int32(binary.LittleEndian.Uint32(data))
		return nil
	case *int64:
		if err := need(8); err != nil {
			return err
		}
		*p = int64(binary.LittleEndian.Uint64(data))
		return nil
	case *uint:
		if err := need(8); err != nil {
			return err
		}
		*p = uint(binary.LittleEndian.Uint64(data))
		return nil
	case *uint8:
		if err := need(1); err != nil {
			return err
		}
		*p = data[0]
		return nil
	case *uint16:
		if err := need(2); err != nil {
			return err
		}
		*p = binary.LittleEndian.Uint16(data)
		return nil
	case *uint32:
		if err := need(4); err != nil {
			return err
		}
		*p = binary.LittleEndian.Uint32(data)
		return nil
	case *uint64:
		if err := need(8); err != nil {
			return err
		}
		*p = binary.LittleEndian.Uint64(data)
		return nil
	case *uintptr:
		if err := need(8); err != nil {
			return err
		}
		*p = uintptr(binary.LittleEndian.Uint64(data))
		return nil
	case *float32:
		if err := need(4); err != nil {
			return err
		}
		*p = math.Float32frombits(binary.LittleEndian.Uint32(data))
		return nil
	case *float64:
		if err := need(8); err != nil {
			return err
		}
		*p = math.Float64frombits(binary.LittleEndian.Uint64(data))
		return nil
	}
	if m, ok := out.(encoding.BinaryUnmarshaler); ok {
		return m.UnmarshalBinary(data)
	}
	return fmt.Errorf("%w: %T", ErrUnsupportedType, out)
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteTo streams the tree to w: the duplicate-policy flag, then every
// logical entry in level order. Level order makes the stream a
// recreation script; re-inserting in that order rebuilds the identical
// shape without storing any structure.
func (t *Tree[K, V]) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	if err := encodeScalar(cw, t.allowDup); err != nil {
		return cw.n, fmt.Errorf("encoding duplicate policy: %w", err)
	}
	for _, e := range t.Items() {
		if err := encodeScalar(cw, e.Key); err != nil {
			return cw.n, fmt.Errorf("encoding key %v: %w", e.Key, err)
		}
		if t.keyOnly {
			continue
		}
		if err := encodeScalar(cw, e.Value); err != nil {
			return cw.n, fmt.Errorf("encoding value for key %v: %w", e.Key, err)
		}
	}
	return cw.n, nil
}

// Serialize writes the tree to a file. On a write failure with
// deleteOnFailure set the partial file is removed; whether the removal
// itself succeeded is reported in the returned error.
func (t *Tree[K, V]) Serialize(path string, deleteOnFailure bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	_, werr := t.WriteTo(bw)
	if werr == nil {
		werr = bw.Flush()
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr == nil {
		return nil
	}
	if deleteOnFailure {
		if rmErr := os.Remove(path); rmErr != nil {
			return fmt.Errorf("writing %s: %w (partial file not removed: %v)", path, werr, rmErr)
		}
		return fmt.Errorf("writing %s (partial file removed): %w", path, werr)
	}
	return fmt.Errorf("writing %s: %w", path, werr)
}

// ReadItems decodes a stream produced by WriteTo into its
// duplicate-policy flag and level-order entries without building a
// tree. Callers re-inserting the entries themselves (to interpose
// progress reporting, say) use this; Decode wraps it.
func ReadItems[K cmp.Ordered, V comparable](r io.Reader, keyOnly bool) (allowDup bool, items []Entry[K, V], err error) {
	if err = decodeScalar(r, &allowDup); err != nil {
		if errors.Is(err, io.EOF) {
			err = fmt.Errorf("missing duplicate policy: %w", ErrCorrupted)
		}
		return false, nil, err
	}
	for {
		var key K
		err = decodeScalar(r, &key)
		if errors.Is(err, io.EOF) {
			return allowDup, items, nil
		}
		if err != nil {
			return allowDup, nil, fmt.Errorf("decoding key: %w", err)
		}
		var value V
		if !keyOnly {
			if err = decodeScalar(r, &value); err != nil {
				if errors.Is(err, io.EOF) {
					err = ErrCorrupted
				}
				return allowDup, nil, fmt.Errorf("decoding value for key %v: %w", key, err)
			}
		}
		items = append(items, Entry[K, V]{Key: key, Value: value})
	}
}

// Decode rebuilds a value-bearing tree of the given kind from a stream
// produced by WriteTo.
func Decode[K cmp.Ordered, V comparable](r io.Reader, kind Kind) (*Tree[K, V], error) {
	allowDup, items, err := ReadItems[K, V](r, false)
	if err != nil {
		return nil, err
	}
	return FromEntries(kind, items, allowDup), nil
}

// DecodeKeys rebuilds a key-only tree of the given kind from a stream
// produced by WriteTo.
func DecodeKeys[K cmp.Ordered](r io.Reader, kind Kind) (*Tree[K, struct{}], error) {
	allowDup, items, err := ReadItems[K, struct{}](r, true)
	if err != nil {
		return nil, err
	}
	t := NewKeys[K](kind, allowDup)
	t.InsertAll(items)
	return t, nil
}

// Deserialize rebuilds a value-bearing tree from a file written by
// Serialize.
func Deserialize[K cmp.Ordered, V comparable](path string, kind Kind) (*Tree[K, V], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	t, err := Decode[K, V](bufio.NewReader(f), kind)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return t, nil
}

// DeserializeKeys rebuilds a key-only tree from a file written by
// Serialize.
func DeserializeKeys[K cmp.Ordered](path string, kind Kind) (*Tree[K, struct{}], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	t, err := DecodeKeys[K](bufio.NewReader(f), kind)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return t, nil
}
