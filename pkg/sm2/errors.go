package sm2

import "errors"

// ErrorKind identifies a kind of error. It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind
// when determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrInvalidPoint is returned when a point that must lie on the curve,
	// such as a public key or the C1 component of a ciphertext, does not.
	ErrInvalidPoint = ErrorKind("ErrInvalidPoint")

	// ErrDegenerateResult is returned when a scalar multiplication yields
	// the point at infinity where a proper point is required.
	ErrDegenerateResult = ErrorKind("ErrDegenerateResult")

	// ErrZeroSignatureComponent indicates r or s came out as zero during
	// signing. Sign retries internally; only the fixed-nonce testing path
	// surfaces it.
	ErrZeroSignatureComponent = ErrorKind("ErrZeroSignatureComponent")

	// ErrBoundaryViolation indicates r + k = n during signing. Handled the
	// same way as ErrZeroSignatureComponent.
	ErrBoundaryViolation = ErrorKind("ErrBoundaryViolation")

	// ErrZeroKeystream indicates the KDF produced an all-zero keystream.
	// Encrypt retries internally.
	ErrZeroKeystream = ErrorKind("ErrZeroKeystream")

	// ErrMacMismatch is returned when the C3 tag recomputed during
	// decryption does not match the supplied one.
	ErrMacMismatch = ErrorKind("ErrMacMismatch")

	// ErrRecoveryImpossible is returned by the nonce-reuse demonstrator when
	// the two signatures do not determine the private key.
	ErrRecoveryImpossible = ErrorKind("ErrRecoveryImpossible")

	// ErrInvalidPrivateKey is returned for private scalars outside
	// [1, n-2].
	ErrInvalidPrivateKey = ErrorKind("ErrInvalidPrivateKey")

	// ErrInvalidSignature is returned when an encoded signature cannot be
	// parsed or has a component outside [1, n-1].
	ErrInvalidSignature = ErrorKind("ErrInvalidSignature")

	// ErrInvalidCiphertext is returned when an encoded ciphertext is
	// malformed.
	ErrInvalidCiphertext = ErrorKind("ErrInvalidCiphertext")

	// ErrInvalidIdentity is returned when an identity is too long for its
	// bit length to fit the 16-bit ENTL field.
	ErrInvalidIdentity = ErrorKind("ErrInvalidIdentity")

	// ErrRetryLimitExceeded is returned when the configured attempt bound
	// is exhausted. With sound randomness this is practically impossible
	// and indicates a bug.
	ErrRetryLimitExceeded = ErrorKind("ErrRetryLimitExceeded")

	// ErrFixedNonceDisabled is returned by SignWithFixedNonce unless the
	// engine was configured with AllowFixedNonce.
	ErrFixedNonceDisabled = ErrorKind("ErrFixedNonceDisabled")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = ErrorKind("ErrInvalidConfig")

	// ErrRandomSource is returned when reading from the random source
	// fails.
	ErrRandomSource = ErrorKind("ErrRandomSource")

	// ErrInvalidNonce is returned by SignWithFixedNonce for a nonce outside
	// [1, n-1].
	ErrInvalidNonce = ErrorKind("ErrInvalidNonce")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to SM2 operations. It has full support
// for errors.Is and errors.As, so the caller can ascertain the specific
// reason for the error by checking the underlying error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// makeError creates an Error given a set of arguments.
func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}

// retryable reports whether err is resolved by drawing fresh randomness.
func retryable(err error) bool {
	var kind ErrorKind
	if !errors.As(err, &kind) {
		return false
	}
	switch kind {
	case ErrZeroSignatureComponent, ErrBoundaryViolation, ErrZeroKeystream, ErrDegenerateResult:
		return true
	}
	return false
}
