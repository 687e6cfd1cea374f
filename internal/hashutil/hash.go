package hashutil

import (
	"crypto/sha1"
	"encoding/hex"

	"github.com/docbreaker-games/docbreaker/internal/bytespool"
)

// Identity hashes a client identity (an IP address) with a salt so raw
// addresses are never persisted.
func Identity(salt, identity string) string {
	buf := bytespool.Get()
	defer func() {
		buf.Reset()
		bytespool.Put(buf)
	}()

	buf.WriteString(salt)
	buf.WriteByte(':')
	buf.WriteString(identity)

	sum := sha1.Sum(buf.Bytes())
	return hex.EncodeToString(sum[:])
}
