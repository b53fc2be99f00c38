package cipher

import (
	"encoding/binary"
	"fmt"

	"github.com/psoserv/blockserver/internal/dialect"
)

// keyTableSize is the RollingXORCipher key table size for the non-BB
// dialects; large enough that the §4.1 keystream doesn't cycle within a
// single burst sync.
const keyTableSize = 1024

// NewStreamCipher builds the StreamCipher appropriate for v from seed, the
// raw bytes handed out in that dialect's welcome packet (§4.1): a 4-byte
// seed for DC/DCv2/PC/GC/Ep3, a 48-byte seed for BB.
func NewStreamCipher(v dialect.Version, seed []byte) (StreamCipher, error) {
	if len(seed) < v.SeedSize() {
		return nil, fmt.Errorf("cipher: NewStreamCipher: %s wants a %d-byte seed, got %d", v, v.SeedSize(), len(seed))
	}
	if v == dialect.BB {
		return NewBBCipher(seed[:v.SeedSize()])
	}
	s := binary.LittleEndian.Uint32(seed[:4])
	return NewRollingXORCipher(s, keyTableSize), nil
}
