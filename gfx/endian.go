package gfx

import "encoding/binary"

// serialEndian is the wire endian for every blob gfx produces or
// consumes, matching the archive, KVS, and compiler binary codecs.
var serialEndian = binary.LittleEndian
