// Package secrets keeps named tokens in a per-user file, sealed with
// AES-GCM under a key derived from the OS user. It keeps tokens out of the
// plain-text config; it is not a keychain.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrNotFound is returned when no token is stored under the name.
var ErrNotFound = errors.New("token not found")

var errNameRequired = errors.New("token name required")

// Vault is a token file at Path.
type Vault struct {
	Path string
}

// tokenFile is the on-disk layout: name -> base64(nonce || ciphertext).
type tokenFile struct {
	Tokens map[string]string `json:"tokens"`
}

// DefaultVault returns the vault under the user config directory.
func DefaultVault() (Vault, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return Vault{}, err
	}
	return Vault{Path: filepath.Join(dir, "cardcraft", "tokens.json")}, nil
}

// StoreToken saves token under name in the default vault.
func StoreToken(name, token string) error {
	v, err := DefaultVault()
	if err != nil {
		return err
	}
	return v.Put(name, token)
}

// FetchToken reads name from the default vault.
func FetchToken(name string) (string, error) {
	v, err := DefaultVault()
	if err != nil {
		return "", err
	}
	return v.Get(name)
}

// DeleteToken removes name from the default vault.
func DeleteToken(name string) error {
	v, err := DefaultVault()
	if err != nil {
		return err
	}
	return v.Delete(name)
}

// Put seals token and stores it under name, replacing any previous value.
func (v Vault) Put(name, token string) error {
	name, err := tokenName(name)
	if err != nil {
		return err
	}
	aead, err := sealer()
	if err != nil {
		return err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return err
	}
	sealed := aead.Seal(nonce, nonce, []byte(token), nil)
	return v.update(func(tokens map[string]string) {
		tokens[name] = base64.StdEncoding.EncodeToString(sealed)
	})
}

// Get returns the token stored under name.
func (v Vault) Get(name string) (string, error) {
	name, err := tokenName(name)
	if err != nil {
		return "", err
	}
	f, err := v.read()
	if err != nil {
		return "", err
	}
	enc, ok := f.Tokens[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	sealed, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}
	aead, err := sealer()
	if err != nil {
		return "", err
	}
	if len(sealed) < aead.NonceSize() {
		return "", fmt.Errorf("decrypt %s: sealed value too short", name)
	}
	n := aead.NonceSize()
	plain, err := aead.Open(nil, sealed[:n], sealed[n:], nil)
	if err != nil {
		return "", fmt.Errorf("decrypt %s: %w", name, err)
	}
	return string(plain), nil
}

// Delete removes name. Deleting an absent token is not an error.
func (v Vault) Delete(name string) error {
	name, err := tokenName(name)
	if err != nil {
		return err
	}
	return v.update(func(tokens map[string]string) { delete(tokens, name) })
}

func (v Vault) read() (tokenFile, error) {
	f := tokenFile{Tokens: map[string]string{}}
	data, err := os.ReadFile(v.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return f, err
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("read %s: %w", v.Path, err)
	}
	if f.Tokens == nil {
		f.Tokens = map[string]string{}
	}
	return f, nil
}

// update applies fn to the stored tokens and writes the file back via a
// temp file and rename.
func (v Vault) update(fn func(map[string]string)) error {
	f, err := v.read()
	if err != nil {
		return err
	}
	fn(f.Tokens)
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(v.Path), 0o700); err != nil {
		return err
	}
	tmp := v.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, v.Path)
}

func tokenName(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", errNameRequired
	}
	return s, nil
}

func sealer() (cipher.AEAD, error) {
	key := sha256.Sum256([]byte(fmt.Sprintf("cardcraft-%s-%s", runtime.GOOS, os.Getenv("USER"))))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
