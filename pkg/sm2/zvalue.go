package sm2

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"

	"github.com/smallyu/go-sm2/internal/crypto/commitment"
)

// DefaultUID is the identity used when the signer declares none.
var DefaultUID = []byte("1234567812345678")

// ComputeZ returns Z = H(ENTL ‖ ID ‖ a ‖ b ‖ Gx ‖ Gy ‖ Px ‖ Py), binding a
// signature to the signer's identity and the domain parameters. ENTL is the
// bit length of uid as a 16-bit big-endian field; every curve value is
// encoded at the field byte width.
func (e *Engine) ComputeZ(uid []byte, pub *PublicKey) ([]byte, error) {
	if len(uid) > math.MaxUint16/8 {
		return nil, makeError(ErrInvalidIdentity,
			fmt.Sprintf("identity of %d bytes exceeds the 16-bit ENTL field", len(uid)))
	}
	if err := e.checkPublicKey(pub); err != nil {
		return nil, err
	}

	var entl [2]byte
	binary.BigEndian.PutUint16(entl[:], uint16(len(uid)*8))

	size := e.params.ByteLen()
	field := func(v *big.Int) []byte { return commitment.IntToBytes(v, size) }
	return commitment.Sum(e.newHash,
		entl[:],
		uid,
		field(e.params.A),
		field(e.params.B),
		field(e.params.Gx),
		field(e.params.Gy),
		field(pub.X),
		field(pub.Y),
	), nil
}

// hashToInt computes e = H(Z ‖ M) as an integer.
func (e *Engine) hashToInt(z, msg []byte) *big.Int {
	return new(big.Int).SetBytes(commitment.Sum(e.newHash, z, msg))
}
