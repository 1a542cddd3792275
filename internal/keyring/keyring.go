package keyring

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/clearsign"
	"github.com/ralt/updatelist/internal/models"
	"github.com/sirupsen/logrus"
)

// Verifier checks signatures on repository Release files
type Verifier interface {
	// VerifyClearsigned checks an InRelease file and returns the signed text
	VerifyClearsigned(data []byte) ([]byte, error)

	// VerifyDetached checks a Release file against its Release.gpg signature
	VerifyDetached(data, signature []byte) error
}

// Keyring implements Verifier with a set of trusted OpenPGP public keys
type Keyring struct {
	entities openpgp.EntityList
}

// New creates a keyring from already parsed entities
func New(entities ...*openpgp.Entity) *Keyring {
	return &Keyring{entities: entities}
}

// Load reads public keys from the given files. Each file may be armored
// (.asc) or a binary keyring (.gpg).
func Load(paths ...string) (*Keyring, error) {
	k := &Keyring{}
	for _, path := range paths {
		entities, err := readKeyFile(path)
		if err != nil {
			return nil, &models.Error{
				Type: models.ErrSignature,
				Err:  fmt.Errorf("failed to read keyring %s: %w", path, err),
			}
		}
		k.entities = append(k.entities, entities...)
	}
	return k, nil
}

// LoadTrusted reads apt's trusted keyrings below root: etc/apt/trusted.gpg
// and every *.gpg or *.asc file in etc/apt/trusted.gpg.d. Unreadable files
// are logged and skipped.
func LoadTrusted(root string) *Keyring {
	var paths []string

	legacy := filepath.Join(root, "etc", "apt", "trusted.gpg")
	if _, err := os.Stat(legacy); err == nil {
		paths = append(paths, legacy)
	}

	dir := filepath.Join(root, "etc", "apt", "trusted.gpg.d")
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		logrus.Warnf("Failed to read %s: %v", dir, err)
	}
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".gpg" && ext != ".asc") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	k := &Keyring{}
	for _, path := range paths {
		entities, err := readKeyFile(path)
		if err != nil {
			logrus.Warnf("Skipping keyring %s: %v", path, err)
			continue
		}
		logrus.Debugf("Loaded %d keys from %s", len(entities), path)
		k.entities = append(k.entities, entities...)
	}
	return k
}

func readKeyFile(path string) (openpgp.EntityList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Try to parse as armored key first
	entities, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(data))
	if err != nil {
		// Try as binary key
		entities, err = openpgp.ReadKeyRing(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
	}

	if len(entities) == 0 {
		return nil, fmt.Errorf("no keys found in key file")
	}
	return entities, nil
}

// Len returns the number of keys in the keyring
func (k *Keyring) Len() int {
	return len(k.entities)
}

// VerifyClearsigned checks an InRelease file and returns the signed text
func (k *Keyring) VerifyClearsigned(data []byte) ([]byte, error) {
	block, _ := clearsign.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no cleartext signature found")
	}
	if len(k.entities) == 0 {
		return block.Plaintext, fmt.Errorf("no trusted keys")
	}
	if _, err := block.VerifySignature(k.entities, nil); err != nil {
		return block.Plaintext, fmt.Errorf("bad signature: %w", err)
	}
	return block.Plaintext, nil
}

// VerifyDetached checks data against an armored or binary detached signature
func (k *Keyring) VerifyDetached(data, signature []byte) error {
	if len(k.entities) == 0 {
		return fmt.Errorf("no trusted keys")
	}

	var err error
	if strings.HasPrefix(strings.TrimSpace(string(signature)), "-----BEGIN PGP") {
		_, err = openpgp.CheckArmoredDetachedSignature(k.entities, bytes.NewReader(data), bytes.NewReader(signature), nil)
	} else {
		_, err = openpgp.CheckDetachedSignature(k.entities, bytes.NewReader(data), bytes.NewReader(signature), nil)
	}
	if err != nil {
		return fmt.Errorf("bad signature: %w", err)
	}
	return nil
}

// Plaintext returns the text of an InRelease file without verifying it
func Plaintext(data []byte) ([]byte, bool) {
	block, _ := clearsign.Decode(data)
	if block == nil {
		return nil, false
	}
	return block.Plaintext, true
}
