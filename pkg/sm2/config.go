package sm2

import (
	"crypto/rand"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/tjfoc/gmsm/sm3"
	"gopkg.in/yaml.v3"

	"github.com/smallyu/go-sm2/internal/crypto/curves"
	"github.com/smallyu/go-sm2/internal/crypto/kdf"
	"github.com/smallyu/go-sm2/internal/crypto/scalarmult"
	"github.com/smallyu/go-sm2/internal/logging"
)

// Config controls how an Engine is built. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	// Curve names the domain parameters: "sm2p256v1", "sm2-test" or
	// "secp256k1".
	Curve string `yaml:"curve"`

	// Method is the scalar multiplication algorithm: "binary",
	// "windowed" or "ladder".
	Method string `yaml:"method"`

	// WindowSize is the window width for arbitrary base points.
	WindowSize int `yaml:"window_size"`

	// BaseWindowSize is the window width of the table built for G.
	BaseWindowSize int `yaml:"base_window_size"`

	// TableCacheSize bounds the number of cached per-point tables.
	TableCacheSize int `yaml:"table_cache_size"`

	// ChunkSize is the plaintext size, in bytes, of each chunk produced by
	// EncryptLarge.
	ChunkSize int `yaml:"chunk_size"`

	// KDFWorkers bounds how many KDF rounds are hashed concurrently.
	KDFWorkers int `yaml:"kdf_workers"`

	// MaxAttempts bounds the fresh-randomness retries of Sign and Encrypt.
	// Zero means unbounded.
	MaxAttempts int `yaml:"max_attempts"`

	// AllowFixedNonce enables SignWithFixedNonce. Never set this outside
	// tests.
	AllowFixedNonce bool `yaml:"allow_fixed_nonce"`

	// Hash constructs the hash oracle. Defaults to SM3.
	Hash func() hash.Hash `yaml:"-"`

	// Rand is the source of nonces and ephemeral scalars. Defaults to
	// crypto/rand.Reader.
	Rand io.Reader `yaml:"-"`

	// Logger receives retry diagnostics. Defaults to slog.Default().
	Logger logging.Logger `yaml:"-"`
}

// DefaultConfig returns the recommended configuration.
func DefaultConfig() Config {
	return Config{
		Curve:          curves.SM2P256().Name,
		Method:         scalarmult.Windowed.String(),
		WindowSize:     scalarmult.DefaultWindow,
		BaseWindowSize: 6,
		TableCacheSize: scalarmult.DefaultCacheSize,
		ChunkSize:      1024,
		KDFWorkers:     kdf.DefaultWorkers,
		MaxAttempts:    64,
		Hash:           sm3.New,
		Rand:           rand.Reader,
		Logger:         logging.New(nil),
	}
}

// ParseConfig overlays YAML-encoded settings on DefaultConfig.
func ParseConfig(b []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, makeError(ErrInvalidConfig, fmt.Sprintf("parse config: %v", err))
	}
	return cfg, cfg.Validate()
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("sm2: load config: %w", err)
	}
	return ParseConfig(b)
}

// Validate checks the configuration for values New cannot work with.
func (c Config) Validate() error {
	if _, err := curves.ByName(c.Curve); err != nil {
		return makeError(ErrInvalidConfig, err.Error())
	}
	if _, err := scalarmult.ParseMethod(c.Method); err != nil {
		return makeError(ErrInvalidConfig, err.Error())
	}

	windows := []struct {
		name string
		v    int
	}{
		{"window_size", c.WindowSize},
		{"base_window_size", c.BaseWindowSize},
	}
	for _, w := range windows {
		if w.v < scalarmult.MinWindow || w.v > scalarmult.MaxWindow {
			return makeError(ErrInvalidConfig, fmt.Sprintf("%s %d out of range [%d, %d]",
				w.name, w.v, scalarmult.MinWindow, scalarmult.MaxWindow))
		}
	}

	switch {
	case c.TableCacheSize <= 0:
		return makeError(ErrInvalidConfig, "table_cache_size must be positive")
	case c.ChunkSize <= 0:
		return makeError(ErrInvalidConfig, "chunk_size must be positive")
	case c.KDFWorkers < 0:
		return makeError(ErrInvalidConfig, "kdf_workers must not be negative")
	case c.MaxAttempts < 0:
		return makeError(ErrInvalidConfig, "max_attempts must not be negative")
	}
	return nil
}
