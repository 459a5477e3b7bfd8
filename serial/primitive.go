package serial

import "math"

// Uint8 encodes/decodes v in place depending on the serializer's mode.
func (s *Serializer) Uint8(v *uint8) {
	if s.mode == Writing {
		s.writeExact([]byte{*v})
		return
	}
	var buf [1]byte
	s.readExact(buf[:])
	*v = buf[0]
}

func (s *Serializer) Int8(v *int8) {
	var raw uint8
	if s.mode == Writing {
		raw = uint8(*v)
	}
	s.Uint8(&raw)
	if s.mode == Reading {
		*v = int8(raw)
	}
}

func (s *Serializer) Bool(v *bool) {
	var raw uint8
	if s.mode == Writing {
		if *v {
			raw = 1
		}
	}
	s.Uint8(&raw)
	if s.mode == Reading {
		*v = raw != 0
	}
}

func (s *Serializer) Uint16(v *uint16) {
	if s.mode == Writing {
		var buf [2]byte
		s.endian.PutUint16(buf[:], *v)
		s.writeExact(buf[:])
		return
	}
	var buf [2]byte
	s.readExact(buf[:])
	*v = s.endian.Uint16(buf[:])
}

func (s *Serializer) Int16(v *int16) {
	var raw uint16
	if s.mode == Writing {
		raw = uint16(*v)
	}
	s.Uint16(&raw)
	if s.mode == Reading {
		*v = int16(raw)
	}
}

func (s *Serializer) Uint32(v *uint32) {
	if s.mode == Writing {
		var buf [4]byte
		s.endian.PutUint32(buf[:], *v)
		s.writeExact(buf[:])
		return
	}
	var buf [4]byte
	s.readExact(buf[:])
	*v = s.endian.Uint32(buf[:])
}

func (s *Serializer) Int32(v *int32) {
	var raw uint32
	if s.mode == Writing {
		raw = uint32(*v)
	}
	s.Uint32(&raw)
	if s.mode == Reading {
		*v = int32(raw)
	}
}

func (s *Serializer) Uint64(v *uint64) {
	if s.mode == Writing {
		var buf [8]byte
		s.endian.PutUint64(buf[:], *v)
		s.writeExact(buf[:])
		return
	}
	var buf [8]byte
	s.readExact(buf[:])
	*v = s.endian.Uint64(buf[:])
}

func (s *Serializer) Int64(v *int64) {
	var raw uint64
	if s.mode == Writing {
		raw = uint64(*v)
	}
	s.Uint64(&raw)
	if s.mode == Reading {
		*v = int64(raw)
	}
}

func (s *Serializer) Float32(v *float32) {
	var raw uint32
	if s.mode == Writing {
		raw = math.Float32bits(*v)
	}
	s.Uint32(&raw)
	if s.mode == Reading {
		*v = math.Float32frombits(raw)
	}
}

func (s *Serializer) Float64(v *float64) {
	var raw uint64
	if s.mode == Writing {
		raw = math.Float64bits(*v)
	}
	s.Uint64(&raw)
	if s.mode == Reading {
		*v = math.Float64frombits(raw)
	}
}
