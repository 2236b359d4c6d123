// Package codec converts typed records to and from the string-safe
// representation stored in the cache.
//
// Cache values are UTF-8 strings. The default JSON codec produces canonical
// forms for the field types records actually carry: uuid.UUID values are
// written as their canonical string form and time.Time values as RFC 3339
// with a zone offset. Decoding exactly inverts that for the fields declared
// on the target type.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec encodes/decodes values of type T to a string for cache storage.
type Codec[T any] interface {
	Encode(T) (string, error)
	Decode(string) (T, error)
}

// DecodeError reports a cached value that could not be parsed back into the
// target type. Callers treat it as a cache miss, never as a request failure.
type DecodeError struct {
	Target string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("codec: decode into %s: %v", e.Target, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// JSON is the default Codec. The zero value is ready to use.
//
// encoding/json already renders uuid.UUID via its TextMarshaler (canonical
// string) and time.Time as RFC 3339 with zone, which matches the canonical
// cache representation.
type JSON[T any] struct{}

func (JSON[T]) Encode(v T) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (JSON[T]) Decode(s string) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return v, &DecodeError{Target: fmt.Sprintf("%T", v), Err: err}
	}
	return v, nil
}

// Msgpack is an alternative Codec using vmihailenco/msgpack/v5. More compact
// than JSON; the encoded bytes are carried in the string verbatim, which is
// fine for stores that round-trip values byte-for-byte.
type Msgpack[T any] struct{}

func (Msgpack[T]) Encode(v T) (string, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (Msgpack[T]) Decode(s string) (T, error) {
	var v T
	if err := msgpack.Unmarshal([]byte(s), &v); err != nil {
		return v, &DecodeError{Target: fmt.Sprintf("%T", v), Err: err}
	}
	return v, nil
}
