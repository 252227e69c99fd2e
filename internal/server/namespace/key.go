// Package namespace implements the per-user storage key policy.
//
// Every object a user owns lives under "users/{identity}/"; all key
// construction goes through this package so no request can produce a key
// outside the caller's own prefix. Identities and filenames are untrusted
// path segments and are validated before use.
package namespace

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/filevault/internal/common"
)

const root = "users/"

// ValidateIdentity rejects identities that are empty or could escape the
// namespace root when embedded in a key.
func ValidateIdentity(identity string) error {
	if identity == "" {
		return fmt.Errorf("%w: empty identity", common.ErrValidation)
	}
	if strings.Contains(identity, "/") || strings.Contains(identity, "\\") {
		return fmt.Errorf("%w: identity must not contain path separators", common.ErrValidation)
	}
	if identity == "." || identity == ".." {
		return fmt.Errorf("%w: invalid identity", common.ErrValidation)
	}
	return nil
}

// ValidateFilename rejects empty filenames and path-traversal attempts.
// Subdirectories within a user's own namespace are allowed ("docs/a.pdf"),
// but no segment may be "." or "..", and the name may not start with "/".
func ValidateFilename(filename string) error {
	if filename == "" {
		return fmt.Errorf("%w: empty filename", common.ErrValidation)
	}
	if strings.HasPrefix(filename, "/") {
		return fmt.Errorf("%w: filename must be relative", common.ErrValidation)
	}
	if strings.Contains(filename, "\\") {
		return fmt.Errorf("%w: filename must not contain backslashes", common.ErrValidation)
	}
	for _, seg := range strings.Split(filename, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("%w: invalid filename segment", common.ErrValidation)
		}
	}
	return nil
}

// Key derives the fully-qualified storage key for a user's file:
// users/{identity}/{filename}.
func Key(identity, filename string) (string, error) {
	if err := ValidateIdentity(identity); err != nil {
		return "", err
	}
	if err := ValidateFilename(filename); err != nil {
		return "", err
	}
	return root + identity + "/" + filename, nil
}

// ListPrefix derives the listing prefix scoping a user's namespace:
// users/{identity}/.
func ListPrefix(identity string) (string, error) {
	if err := ValidateIdentity(identity); err != nil {
		return "", err
	}
	return root + identity + "/", nil
}

// Owns reports whether key lies strictly under the identity's prefix.
func Owns(identity, key string) bool {
	prefix, err := ListPrefix(identity)
	if err != nil {
		return false
	}
	return len(key) > len(prefix) && strings.HasPrefix(key, prefix)
}

// CheckOwnership returns common.ErrNamespaceViolation when key does not lie
// under the identity's prefix. Keys are never rewritten to fit; a foreign
// key is an error, full stop.
func CheckOwnership(identity, key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", common.ErrValidation)
	}
	if !Owns(identity, key) {
		return fmt.Errorf("%w: %q", common.ErrNamespaceViolation, key)
	}
	return nil
}

// Filename extracts the display name (the part after the identity prefix)
// from a storage key. Returns the key unchanged when it has no prefix.
func Filename(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}
