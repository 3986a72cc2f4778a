package encoding

import "encoding/binary"

// UnpackVersion splits a packed map version into its four components.
// The eight bytes of v are taken most significant first and every
// consecutive pair is read as a little-endian uint16.
func UnpackVersion(v uint64) (major, minor, patch, developer uint16) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return binary.LittleEndian.Uint16(b[0:2]),
		binary.LittleEndian.Uint16(b[2:4]),
		binary.LittleEndian.Uint16(b[4:6]),
		binary.LittleEndian.Uint16(b[6:8])
}

// PackVersion is the inverse of UnpackVersion.
func PackVersion(major, minor, patch, developer uint16) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint16(b[0:2], major)
	binary.LittleEndian.PutUint16(b[2:4], minor)
	binary.LittleEndian.PutUint16(b[4:6], patch)
	binary.LittleEndian.PutUint16(b[6:8], developer)
	return binary.BigEndian.Uint64(b[:])
}
