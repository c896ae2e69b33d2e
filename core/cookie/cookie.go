package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

const (
	// MaxCookieSize is the default upper bound for a Set-Cookie header.
	MaxCookieSize = 4096

	minSecretLength = 32
	flashPrefix     = "__flash_"

	signInfo    = "cookie-signing"
	encryptInfo = "cookie-encryption"
)

type keyPair struct {
	sign    []byte
	encrypt []byte
}

// Manager sets and reads plain, signed and encrypted cookies.
// It is safe for concurrent use.
type Manager struct {
	keys     []keyPair
	defaults Options
	maxSize  int
}

// New creates a Manager. Every secret must be at least 32 characters.
// The first secret is used for new cookies; all are tried on read.
func New(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	keys := make([]keyPair, 0, len(secrets))
	for i, secret := range secrets {
		if len(secret) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d",
				ErrSecretTooShort, i, len(secret), minSecretLength)
		}
		kp, err := deriveKeys(secret)
		if err != nil {
			return nil, err
		}
		keys = append(keys, kp)
	}

	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}.with(opts)

	return &Manager{
		keys:     keys,
		defaults: defaults,
		maxSize:  MaxCookieSize,
	}, nil
}

func deriveKeys(secret string) (keyPair, error) {
	derive := func(info string) ([]byte, error) {
		key := make([]byte, 32)
		if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key); err != nil {
			return nil, fmt.Errorf("derive %s key: %w", info, err)
		}
		return key, nil
	}

	sign, err := derive(signInfo)
	if err != nil {
		return keyPair{}, err
	}
	enc, err := derive(encryptInfo)
	if err != nil {
		return keyPair{}, err
	}
	return keyPair{sign: sign, encrypt: enc}, nil
}

// Set writes a plain cookie.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	o := m.defaults.with(opts)

	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   o.MaxAge,
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	}

	if size := len(c.String()); size > m.maxSize {
		return ErrCookieTooLarge{Name: name, Size: size, Max: m.maxSize}
	}

	http.SetCookie(w, c)
	return nil
}

// Get returns the raw cookie value.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Delete expires the cookie on the client.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.defaults.Path,
		Domain:   m.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: m.defaults.HttpOnly,
		SameSite: m.defaults.SameSite,
		Secure:   m.defaults.Secure,
	})
}

// SetSigned writes a cookie carrying an HMAC-SHA256 signature.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) error {
	return m.Set(w, name, m.sign(value), opts...)
}

// GetSigned returns the value of a signed cookie after verifying it
// against every configured secret.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	signed, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.verify(signed)
}

// SetEncrypted writes an AES-256-GCM encrypted cookie.
func (m *Manager) SetEncrypted(w http.ResponseWriter, name, value string, opts ...Option) error {
	encrypted, err := m.encrypt(value)
	if err != nil {
		return err
	}
	return m.Set(w, name, encrypted, opts...)
}

// GetEncrypted decrypts a cookie written by SetEncrypted.
func (m *Manager) GetEncrypted(r *http.Request, name string) (string, error) {
	encrypted, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.decrypt(encrypted)
}

// SetFlash stores a JSON encoded value that survives exactly one read.
func (m *Manager) SetFlash(w http.ResponseWriter, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal flash: %w", err)
	}
	return m.SetEncrypted(w, flashPrefix+key, string(data))
}

// GetFlash reads a flash value into dest and deletes it.
func (m *Manager) GetFlash(w http.ResponseWriter, r *http.Request, key string, dest any) error {
	name := flashPrefix + key

	data, err := m.GetEncrypted(r, name)
	if err != nil {
		return err
	}
	m.Delete(w, name)

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("unmarshal flash: %w", err)
	}
	return nil
}

func (m *Manager) mac(key []byte, value []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(value)
	return h.Sum(nil)
}

func (m *Manager) sign(value string) string {
	sig := m.mac(m.keys[0].sign, []byte(value))
	return base64.RawURLEncoding.EncodeToString([]byte(value)) + "." +
		base64.RawURLEncoding.EncodeToString(sig)
}

func (m *Manager) verify(signed string) (string, error) {
	encodedValue, encodedSig, ok := strings.Cut(signed, ".")
	if !ok {
		return "", ErrInvalidFormat
	}

	value, err := base64.RawURLEncoding.DecodeString(encodedValue)
	if err != nil {
		return "", ErrInvalidFormat
	}
	sig, err := base64.RawURLEncoding.DecodeString(encodedSig)
	if err != nil {
		return "", ErrInvalidFormat
	}

	for _, kp := range m.keys {
		if hmac.Equal(sig, m.mac(kp.sign, value)) {
			return string(value), nil
		}
	}
	return "", ErrInvalidSignature
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func (m *Manager) encrypt(value string) (string, error) {
	gcm, err := newGCM(m.keys[0].encrypt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(value), nil)
	return base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

func (m *Manager) decrypt(encrypted string) (string, error) {
	data, err := base64.RawURLEncoding.DecodeString(encrypted)
	if err != nil {
		return "", ErrInvalidFormat
	}

	for _, kp := range m.keys {
		gcm, err := newGCM(kp.encrypt)
		if err != nil {
			continue
		}
		if len(data) < gcm.NonceSize() {
			return "", ErrInvalidFormat
		}
		nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
		if plaintext, err := gcm.Open(nil, nonce, ciphertext, nil); err == nil {
			return string(plaintext), nil
		}
	}
	return "", ErrDecryptionFailed
}
