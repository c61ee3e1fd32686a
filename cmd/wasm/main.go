//go:build js && wasm

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/smallyu/go-sm2/pkg/sm2"
)

// engine serves every call from JavaScript. It is immutable after New, so a
// single instance is shared.
var engine *sm2.Engine

func main() {
	c := make(chan struct{}, 0)

	var err error
	engine, err = sm2.New(sm2.DefaultConfig())
	if err != nil {
		panic(err)
	}

	fmt.Println("Go SM2 WASM Initialized")

	// Expose Go functions to JS
	js.Global().Set("GoSM2", map[string]interface{}{
		"GenerateKey": js.FuncOf(GenerateKey),
		"Sign":        js.FuncOf(Sign),
		"Verify":      js.FuncOf(Verify),
		"Encrypt":     js.FuncOf(Encrypt),
		"Decrypt":     js.FuncOf(Decrypt),
	})

	<-c
}

// GenerateKey creates a new key pair.
// Returns:
// JSON string { privateKey: hex, publicKey: hex }
func GenerateKey(this js.Value, args []js.Value) interface{} {
	priv, err := engine.GenerateKey()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}

	resp := map[string]interface{}{
		"privateKey": hex.EncodeToString(priv.Bytes()),
		"publicKey":  hex.EncodeToString(priv.Public().Bytes()),
	}
	respBytes, _ := json.Marshal(resp)
	return string(respBytes)
}

// Sign signs a message.
// Arguments:
// 0: private key (hex)
// 1: signer identity (string)
// 2: message (string)
// Returns:
// Signature r‖s (hex) or an error string
func Sign(this js.Value, args []js.Value) interface{} {
	if len(args) != 3 {
		return "error: expected 3 arguments (privateKey, uid, message)"
	}

	priv, err := parsePrivateKey(args[0].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}

	sig, err := engine.SignWithID(priv, []byte(args[1].String()), []byte(args[2].String()))
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return sig.Hex(engine.Params())
}

// Verify checks a signature.
// Arguments:
// 0: public key (hex)
// 1: signer identity (string)
// 2: message (string)
// 3: signature r‖s (hex)
// Returns:
// bool
func Verify(this js.Value, args []js.Value) interface{} {
	if len(args) != 4 {
		return false
	}

	pub, err := parsePublicKey(args[0].String())
	if err != nil {
		return false
	}
	sigBytes, err := hex.DecodeString(args[3].String())
	if err != nil {
		return false
	}
	sig, err := sm2.ParseSignature(engine.Params(), sigBytes)
	if err != nil {
		return false
	}
	return engine.VerifyWithID(pub, []byte(args[1].String()), []byte(args[2].String()), sig)
}

// Encrypt encrypts a message to a public key.
// Arguments:
// 0: public key (hex)
// 1: message (string)
// Returns:
// JSON string { c1, c2, c3 } or an error string
func Encrypt(this js.Value, args []js.Value) interface{} {
	if len(args) != 2 {
		return "error: expected 2 arguments (publicKey, message)"
	}

	pub, err := parsePublicKey(args[0].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}

	ct, err := engine.Encrypt(pub, []byte(args[1].String()))
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}

	respBytes, _ := json.Marshal(ct.Hex(engine.Params()))
	return string(respBytes)
}

// Decrypt decrypts a ciphertext.
// Arguments:
// 0: private key (hex)
// 1: JSON string { c1, c2, c3 }
// Returns:
// Plaintext (string) or an error string
func Decrypt(this js.Value, args []js.Value) interface{} {
	if len(args) != 2 {
		return "error: expected 2 arguments (privateKey, ciphertextJSON)"
	}

	priv, err := parsePrivateKey(args[0].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}

	var h sm2.CiphertextHex
	if err := json.Unmarshal([]byte(args[1].String()), &h); err != nil {
		return fmt.Sprintf("error: invalid json: %v", err)
	}
	ct, err := engine.ParseCiphertextHex(h)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}

	msg, err := engine.Decrypt(priv, ct)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(msg)
}

func parsePrivateKey(s string) (*sm2.PrivateKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid private key hex: %w", err)
	}
	return engine.ParsePrivateKey(b)
}

func parsePublicKey(s string) (*sm2.PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid public key hex: %w", err)
	}
	return engine.ParsePublicKey(b)
}
