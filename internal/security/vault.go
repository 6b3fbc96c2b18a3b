// Package security encrypts document blobs at rest with a passphrase
// derived AES-256-GCM key.
//
// Sealed values start with a marker so values written before encryption
// was enabled stay readable. The derived key lives only in memory; after a
// restart the vault is locked until Resume is called with the passphrase.
package security

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/common"
	"github.com/ternarybob/studydesk/internal/interfaces"
	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultRounds = 210000
	saltSize      = 16
	keySize       = 32
)

var (
	// ErrLocked is returned when sealed data is accessed before the key is loaded
	ErrLocked = errors.New("encryption is enabled but the key is not loaded")

	ErrNotEnabled      = errors.New("encryption is not enabled")
	ErrWrongPassphrase = errors.New("wrong passphrase")

	marker     = []byte("SDENC1:")
	checkPlain = []byte("studydesk-vault-check")
)

// Config is the persisted vault state. Check is a sealed known value used
// to verify the passphrase on Resume.
type Config struct {
	Enabled bool   `json:"enabled"`
	Salt    []byte `json:"salt,omitempty"`
	Rounds  int    `json:"rounds"`
	Check   []byte `json:"check,omitempty"`
}

// Vault implements interfaces.Sealer
type Vault struct {
	kv     interfaces.KeyValueStorage
	rounds int
	logger arbor.ILogger

	mu   sync.RWMutex
	cfg  Config
	aead cipher.AEAD
}

// Compile-time assertion
var _ interfaces.Sealer = (*Vault)(nil)

func NewVault(kv interfaces.KeyValueStorage, rounds int, logger arbor.ILogger) *Vault {
	if rounds <= 0 {
		rounds = DefaultRounds
	}
	return &Vault{
		kv:     kv,
		rounds: rounds,
		logger: logger,
		cfg:    Config{Rounds: rounds},
	}
}

// Load reads the persisted config. The vault stays locked.
func (v *Vault) Load(ctx context.Context) error {
	cfg, err := v.readConfig(ctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.cfg = cfg
	v.mu.Unlock()
	return nil
}

// Enabled reports whether new blobs are sealed
func (v *Vault) Enabled() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cfg.Enabled
}

// Unlocked reports whether the key is loaded
func (v *Vault) Unlocked() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.aead != nil
}

// Enable derives a key from a fresh salt and persists the config
func (v *Vault) Enable(ctx context.Context, passphrase string) error {
	if passphrase == "" {
		return fmt.Errorf("passphrase is required")
	}
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	aead, err := deriveAEAD(passphrase, salt, v.rounds)
	if err != nil {
		return err
	}
	check, err := seal(aead, checkPlain)
	if err != nil {
		return err
	}

	cfg := Config{Enabled: true, Salt: salt, Rounds: v.rounds, Check: check}
	if err := v.writeConfig(ctx, cfg); err != nil {
		return err
	}

	v.mu.Lock()
	v.cfg = cfg
	v.aead = aead
	v.mu.Unlock()

	v.logger.Info().Int("rounds", v.rounds).Msg("Encryption enabled")
	return nil
}

// Resume loads the key for an already enabled vault
func (v *Vault) Resume(ctx context.Context, passphrase string) error {
	cfg, err := v.readConfig(ctx)
	if err != nil {
		return err
	}
	if !cfg.Enabled || len(cfg.Salt) == 0 {
		return ErrNotEnabled
	}

	aead, err := deriveAEAD(passphrase, cfg.Salt, cfg.Rounds)
	if err != nil {
		return err
	}
	if len(cfg.Check) > 0 {
		plain, err := open(aead, cfg.Check)
		if err != nil || !bytes.Equal(plain, checkPlain) {
			return ErrWrongPassphrase
		}
	}

	v.mu.Lock()
	v.cfg = cfg
	v.aead = aead
	v.mu.Unlock()

	v.logger.Info().Msg("Encryption key loaded")
	return nil
}

// Disable forgets the key and stops sealing new blobs. Blobs sealed
// earlier become unreadable unless they were rewritten first.
func (v *Vault) Disable(ctx context.Context) error {
	cfg := Config{Enabled: false, Rounds: v.rounds}
	if err := v.writeConfig(ctx, cfg); err != nil {
		return err
	}

	v.mu.Lock()
	v.cfg = cfg
	v.aead = nil
	v.mu.Unlock()

	v.logger.Info().Msg("Encryption disabled")
	return nil
}

// Lock drops the in-memory key
func (v *Vault) Lock() {
	v.mu.Lock()
	v.aead = nil
	v.mu.Unlock()
}

// Seal encrypts plain when the vault is enabled and passes it through
// otherwise
func (v *Vault) Seal(plain []byte) ([]byte, error) {
	v.mu.RLock()
	enabled, aead := v.cfg.Enabled, v.aead
	v.mu.RUnlock()

	if !enabled {
		return plain, nil
	}
	if aead == nil {
		return nil, ErrLocked
	}
	return seal(aead, plain)
}

// Open decrypts sealed data. Data without the marker is returned as is.
func (v *Vault) Open(data []byte) ([]byte, error) {
	if !IsSealed(data) {
		return data, nil
	}

	v.mu.RLock()
	aead := v.aead
	v.mu.RUnlock()

	if aead == nil {
		return nil, ErrLocked
	}
	return open(aead, data)
}

// IsSealed reports whether data carries the sealed marker
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, marker)
}

func deriveAEAD(passphrase string, salt []byte, rounds int) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(passphrase), salt, rounds, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// seal returns marker | nonce | ciphertext
func seal(aead cipher.AEAD, plain []byte) ([]byte, error) {
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	out := make([]byte, 0, len(marker)+len(nonce)+len(plain)+aead.Overhead())
	out = append(out, marker...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plain, nil), nil
}

func open(aead cipher.AEAD, data []byte) ([]byte, error) {
	body := data[len(marker):]
	if len(body) < aead.NonceSize() {
		return nil, fmt.Errorf("sealed value is truncated")
	}
	nonce, ciphertext := body[:aead.NonceSize()], body[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plain, nil
}

func (v *Vault) readConfig(ctx context.Context) (Config, error) {
	cfg := Config{Rounds: v.rounds}
	raw, err := v.kv.Get(ctx, common.KeyEncryptionCfg)
	if errors.Is(err, interfaces.ErrKeyNotFound) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode encryption config: %w", err)
	}
	if cfg.Rounds <= 0 {
		cfg.Rounds = v.rounds
	}
	return cfg, nil
}

func (v *Vault) writeConfig(ctx context.Context, cfg Config) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return v.kv.Set(ctx, common.KeyEncryptionCfg, string(raw), "At-rest encryption settings")
}
