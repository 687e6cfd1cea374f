package byteutil

import "encoding/binary"

// EncodeUint64 returns an 8-byte big-endian key, so bbolt cursors walk
// keys in numeric order.
func EncodeUint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
