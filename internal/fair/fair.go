// Package fair implements the provably fair randomness derivation: every
// outcome is a pure function of (server seed, client seed, nonce, cursor)
// and can be recomputed bit-for-bit by a third party once the server seed
// is revealed.
package fair

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

const (
	// bytes consumed per derived float
	bytesPerFloat  = 4
	floatsPerBlock = sha256.Size / bytesPerFloat
)

// GenerateSeed returns a fresh 256-bit seed, hex encoded.
func GenerateSeed() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate seed: %v", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashSeed is the public commitment to a server seed, published before any
// bet is placed against it.
func HashSeed(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}

// block computes HMAC-SHA256(serverSeed, clientSeed:nonce:index). The
// server seed is the key, so nothing about the stream is predictable
// without it, while the committed hash pins it ahead of time.
func block(serverSeed, clientSeed string, nonce int64, index int) []byte {
	h := hmac.New(sha256.New, []byte(serverSeed))
	fmt.Fprintf(h, "%s:%d:%d", clientSeed, nonce, index)
	return h.Sum(nil)
}

// Proof is the digest a settled bet stores so the derivation can be audited
// without re-deriving: the first HMAC block of the round's stream.
func Proof(serverSeed, clientSeed string, nonce int64) string {
	return hex.EncodeToString(block(serverSeed, clientSeed, nonce, 0))
}

// DeriveFloats returns count uniform values in [0,1), starting at the given
// cursor into the round's float stream. Each float takes 4 bytes of HMAC
// output (prefix / 2^32); one block yields 8 floats and further blocks are
// derived by appending the block index to the message, so multi-draw games
// (one float per plinko row, one per card) consume successive cursors under
// a single nonce.
func DeriveFloats(serverSeed, clientSeed string, nonce int64, cursor, count int) []float64 {
	floats := make([]float64, 0, count)

	for i := cursor; i < cursor+count; i++ {
		buf := block(serverSeed, clientSeed, nonce, i/floatsPerBlock)
		offset := (i % floatsPerBlock) * bytesPerFloat
		v := binary.BigEndian.Uint32(buf[offset : offset+bytesPerFloat])
		floats = append(floats, float64(v)/float64(1<<32))
	}

	return floats
}
