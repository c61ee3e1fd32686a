// Package sm2 implements the SM2 elliptic curve public key algorithms of
// GM/T 0003: digital signatures bound to a signer identity, and public key
// encryption with an integrity tag.
//
// All operations go through an Engine, which fixes the domain parameters,
// the scalar multiplication algorithm, the hash oracle and the random
// source:
//
//	e, err := sm2.New(sm2.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	priv, _ := e.GenerateKey()
//	sig, _ := e.SignWithID(priv, sm2.DefaultUID, msg)
//	ok := e.VerifyWithID(priv.Public(), sm2.DefaultUID, msg, sig)
//
// Errors carry an ErrorKind that can be matched with errors.Is:
//
//	if errors.Is(err, sm2.ErrMacMismatch) { ... }
package sm2
