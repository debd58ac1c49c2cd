// Package filerepo stores the credential pair in a YAML file, optionally
// sealed with AES-GCM under a key derived from a user supplied secret.
package filerepo

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/go-study-client/credentials"
	apperrors "github.com/jrsteele09/go-study-client/internal/errors"
	"golang.org/x/crypto/hkdf"
	"gopkg.in/yaml.v3"
)

const (
	fileVersion = 1
	keyInfo     = "studyctl-credentials"
)

var _ credentials.Repo = (*FileCredentialRepo)(nil)

// credentialFile is the on-disk document. Plaintext files carry the tokens
// directly; sealed files carry only the nonce and ciphertext.
type credentialFile struct {
	Version      int    `yaml:"version"`
	AccessToken  string `yaml:"access_token,omitempty"`
	RefreshToken string `yaml:"refresh_token,omitempty"`
	Nonce        string `yaml:"nonce,omitempty"`
	Ciphertext   string `yaml:"ciphertext,omitempty"`
}

type FileCredentialRepo struct {
	path string
	key  []byte // nil for plaintext
	lock sync.Mutex
}

type Option func(*FileCredentialRepo) error

// WithSecret seals the file. The AES-256 key is derived from secret with HKDF-SHA256.
func WithSecret(secret string) Option {
	return func(r *FileCredentialRepo) error {
		if secret == "" {
			return nil
		}
		key, err := deriveKey([]byte(secret))
		if err != nil {
			return err
		}
		r.key = key
		return nil
	}
}

func New(path string, opts ...Option) (*FileCredentialRepo, error) {
	if path == "" {
		return nil, fmt.Errorf("[filerepo.New] path is required")
	}
	r := &FileCredentialRepo{path: path}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, apperrors.Wrapf(err, "[filerepo.New] option")
		}
	}
	return r, nil
}

func (r *FileCredentialRepo) Path() string {
	return r.path
}

func (r *FileCredentialRepo) Get() (credentials.Credential, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return credentials.Credential{}, nil
	}
	if err != nil {
		return credentials.Credential{}, apperrors.Wrapf(err, "reading %s", r.path)
	}

	var doc credentialFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return credentials.Credential{}, apperrors.Wrapf(apperrors.ErrCredentialCorrupt, "decoding %s: %v", r.path, err)
	}

	if doc.Ciphertext == "" {
		return credentials.Credential{AccessToken: doc.AccessToken, RefreshToken: doc.RefreshToken}, nil
	}
	if r.key == nil {
		return credentials.Credential{}, apperrors.Wrapf(apperrors.ErrCredentialCorrupt, "%s is encrypted and no key is configured", r.path)
	}
	return r.open(doc)
}

func (r *FileCredentialRepo) Set(cred credentials.Credential) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	doc := credentialFile{Version: fileVersion}
	if r.key == nil {
		doc.AccessToken = cred.AccessToken
		doc.RefreshToken = cred.RefreshToken
	} else {
		sealed, err := r.seal(cred)
		if err != nil {
			return err
		}
		doc = sealed
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return apperrors.Wrapf(err, "encoding credentials")
	}
	return writeFileAtomic(r.path, data)
}

func (r *FileCredentialRepo) Clear() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return apperrors.Wrapf(err, "removing %s", r.path)
	}
	return nil
}

func (r *FileCredentialRepo) seal(cred credentials.Credential) (credentialFile, error) {
	plaintext, err := yaml.Marshal(&cred)
	if err != nil {
		return credentialFile{}, apperrors.Wrapf(err, "encoding credentials")
	}

	gcm, err := newGCM(r.key)
	if err != nil {
		return credentialFile{}, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return credentialFile{}, apperrors.Wrapf(err, "generating nonce")
	}

	return credentialFile{
		Version:    fileVersion,
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(gcm.Seal(nil, nonce, plaintext, nil)),
	}, nil
}

func (r *FileCredentialRepo) open(doc credentialFile) (credentials.Credential, error) {
	nonce, err := base64.StdEncoding.DecodeString(doc.Nonce)
	if err != nil {
		return credentials.Credential{}, apperrors.Wrapf(apperrors.ErrCredentialCorrupt, "decoding nonce: %v", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(doc.Ciphertext)
	if err != nil {
		return credentials.Credential{}, apperrors.Wrapf(apperrors.ErrCredentialCorrupt, "decoding ciphertext: %v", err)
	}

	gcm, err := newGCM(r.key)
	if err != nil {
		return credentials.Credential{}, err
	}
	if len(nonce) != gcm.NonceSize() {
		return credentials.Credential{}, apperrors.Wrapf(apperrors.ErrCredentialCorrupt, "nonce has %d bytes", len(nonce))
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		// wrong key or tampered file
		return credentials.Credential{}, apperrors.Wrapf(apperrors.ErrCredentialCorrupt, "decrypting %s", r.path)
	}

	var cred credentials.Credential
	if err := yaml.Unmarshal(plaintext, &cred); err != nil {
		return credentials.Credential{}, apperrors.Wrapf(apperrors.ErrCredentialCorrupt, "decoding sealed credentials: %v", err)
	}
	return cred, nil
}

func deriveKey(secret []byte) ([]byte, error) {
	h := hkdf.New(sha256.New, secret, nil, []byte(keyInfo))
	key := make([]byte, 32)
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, err
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// writeFileAtomic writes to a temp file in the target directory then renames it
// over path, so the file always holds a complete pair.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return apperrors.Wrapf(err, "creating %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*.tmp")
	if err != nil {
		return apperrors.Wrapf(err, "creating temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperrors.Wrapf(err, "writing %s", tmpName)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return apperrors.Wrapf(err, "chmod %s", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return apperrors.Wrapf(err, "syncing %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Wrapf(err, "closing %s", tmpName)
	}
	return os.Rename(tmpName, path)
}
