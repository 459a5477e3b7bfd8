package serial

// RawInt is the set of fixed-width integer types usable as a size or
// tag prefix by the proxy taxonomy below (§4.3's `S` type parameter).
type RawInt interface {
	uint8 | uint16 | uint32 | uint64 | int8 | int16 | int32 | int64
}

// RawValue encodes/decodes v as its exact fixed-width wire
// representation, swapping bytes to match the serializer's endian.
func RawValue[S RawInt](s *Serializer, v *S) {
	switch p := any(v).(type) {
	case *uint8:
		s.Uint8(p)
	case *uint16:
		s.Uint16(p)
	case *uint32:
		s.Uint32(p)
	case *uint64:
		s.Uint64(p)
	case *int8:
		s.Int8(p)
	case *int16:
		s.Int16(p)
	case *int32:
		s.Int32(p)
	case *int64:
		s.Int64(p)
	default:
		assertf("RawValue: unsupported type %T", v)
	}
}

// Proxy encodes T through a sized integer S (the SerProxy<S,T>
// taxonomy entry, §4.3) — the idiom for enums and booleans whose wire
// representation differs from their in-memory type. toRaw/fromRaw
// take the place of the compile-time conversion the spec's marker
// struct expresses; Go generics can't convert between two unrelated
// type parameters without them.
func Proxy[S RawInt, T any](s *Serializer, v *T, toRaw func(T) S, fromRaw func(S) T) {
	var raw S
	if s.mode == Writing {
		raw = toRaw(*v)
	}
	RawValue(s, &raw)
	if s.mode == Reading {
		*v = fromRaw(raw)
	}
}

// Buffer encodes exactly length bytes verbatim, no size prefix, no
// byte-swapping (SerBuffer, §4.3: "byte-level blobs are not swapped").
func Buffer(s *Serializer, buf *[]byte, length int) {
	if s.mode == Writing {
		if len(*buf) != length {
			assertf("Buffer: buffer length %d does not match declared length %d", len(*buf), length)
		}
		s.writeExact(*buf)
		return
	}
	data := make([]byte, length)
	s.readExact(data)
	*buf = data
}

// Sequence encodes exactly length copies of T with no size prefix —
// the length is known from context (SerSequence<T>, §4.3), such as a
// fixed-size array field. itemFn encodes/decodes a single element.
func Sequence[T any](s *Serializer, slice *[]T, length int, itemFn func(*Serializer, *T)) {
	if s.mode == Writing {
		if len(*slice) != length {
			assertf("Sequence: slice length %d does not match declared length %d", len(*slice), length)
		}
		for i := range *slice {
			itemFn(s, &(*slice)[i])
		}
		return
	}
	data := make([]T, length)
	for i := range data {
		itemFn(s, &data[i])
	}
	*slice = data
}

// Collection encodes an S size prefix followed by a resizable
// collection of T (SerCollection<S,T>, §4.3). Writing panics if the
// collection's length overflows S; reading panics if the decoded
// count would be negative.
func Collection[S RawInt, T any](s *Serializer, slice *[]T, itemFn func(*Serializer, *T)) {
	if s.mode == Writing {
		count := S(len(*slice))
		if int(count) != len(*slice) {
			assertf("Collection: length %d overflows prefix type", len(*slice))
		}
		RawValue(s, &count)
		for i := range *slice {
			itemFn(s, &(*slice)[i])
		}
		return
	}
	var count S
	RawValue(s, &count)
	n := int(count)
	if n < 0 {
		assertf("Collection: decoded negative count")
	}
	data := make([]T, n)
	for i := range data {
		itemFn(s, &data[i])
	}
	*slice = data
}

// String encodes an S size prefix then that many bytes of v
// (SerString<S,T> targeting a plain Go string). Writing panics if
// len(v) overflows S.
func String[S RawInt](s *Serializer, v *string) {
	if s.mode == Writing {
		length := S(len(*v))
		if int(length) != len(*v) {
			assertf("String: length %d overflows prefix type", len(*v))
		}
		RawValue(s, &length)
		s.writeExact([]byte(*v))
		return
	}
	var length S
	RawValue(s, &length)
	n := int(length)
	if n < 0 {
		assertf("String: decoded negative length")
	}
	buf := make([]byte, n)
	s.readExact(buf)
	*v = string(buf)
}

// StringInto decodes an S size-prefixed string straight into dst, a
// fixed-capacity destination buffer, appending a trailing NUL when
// room allows (the "readers append trailing NUL for fixed-cap
// targets" clause of §4.1). Panics if the decoded size exceeds
// len(dst), or if called on a writing serializer. Returns the number
// of content bytes written.
func StringInto[S RawInt](s *Serializer, dst []byte) int {
	if s.mode != Reading {
		assertf("StringInto: only valid on a reading serializer")
	}
	var length S
	RawValue(s, &length)
	n := int(length)
	if n < 0 || n > len(dst) {
		assertf("StringInto: size %d exceeds destination capacity %d", n, len(dst))
	}
	s.readExact(dst[:n])
	if n < len(dst) {
		dst[n] = 0
	}
	return n
}
