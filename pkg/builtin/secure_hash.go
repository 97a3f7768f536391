package builtin

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/xvandervort/graphoid/pkg/value"
)

// SecureHash hashes a value's canonical display form, giving a stable
// key usable for dedup/caching — backs the `secure_hash(value)` native
// and the `:no_duplicates` rule's hashing fast path.
func SecureHash(v value.Value) (string, error) {
	sum := blake2b.Sum256([]byte(value.Display(v)))
	return hex.EncodeToString(sum[:]), nil
}
