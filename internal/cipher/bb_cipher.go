package cipher

import (
	"fmt"

	"golang.org/x/crypto/blowfish"
)

// blockSize is Blowfish's fixed block size; BB's 8-byte header variant
// exists precisely so every frame is already block-aligned for this cipher.
const blockSize = 8

// BBCipher is the Blue Burst stream cipher: Blowfish run in CBC mode over
// the 48-byte seed handed out in the welcome packet, one direction only
// (recv and send each get their own instance and key). Frames are already
// padded to an 8-byte multiple by the wire codec (§4.1), so every Encrypt/
// Decrypt call operates on whole blocks.
type BBCipher struct {
	block *blowfish.Cipher
	iv    [blockSize]byte
}

// NewBBCipher derives a Blowfish key from a 48-byte BB seed and starts the
// CBC chain from a zero IV, matching the welcome-packet handshake: the
// seed itself seeds the cipher, nothing is exchanged out of band afterward.
func NewBBCipher(seed []byte) (*BBCipher, error) {
	if len(seed) == 0 {
		return nil, fmt.Errorf("cipher: NewBBCipher: empty seed")
	}
	key := seed
	if len(key) > 56 {
		key = key[:56] // blowfish.NewCipher caps at 56-byte keys
	}
	block, err := blowfish.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher: NewBBCipher: %w", err)
	}
	return &BBCipher{block: block}, nil
}

// Encrypt CBC-encrypts data in place. len(data) must be a multiple of 8.
func (c *BBCipher) Encrypt(data []byte) {
	iv := c.iv
	for off := 0; off+blockSize <= len(data); off += blockSize {
		blk := data[off : off+blockSize]
		for i := range blk {
			blk[i] ^= iv[i]
		}
		c.block.Encrypt(blk, blk)
		copy(iv[:], blk)
	}
	c.iv = iv
}

// Decrypt reverses Encrypt. len(data) must be a multiple of 8.
func (c *BBCipher) Decrypt(data []byte) {
	iv := c.iv
	for off := 0; off+blockSize <= len(data); off += blockSize {
		blk := data[off : off+blockSize]
		var cipherBlock [blockSize]byte
		copy(cipherBlock[:], blk)
		c.block.Decrypt(blk, blk)
		for i := range blk {
			blk[i] ^= iv[i]
		}
		iv = cipherBlock
	}
	c.iv = iv
}
