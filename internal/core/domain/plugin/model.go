package plugindomain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// DefaultHost is where shorthand sources such as "owner/name" are cloned from
const DefaultHost = "github.com"

// ErrInvalidSource is returned when no (owner, name) pair can be derived from a source
var ErrInvalidSource = errors.New("invalid plugin source")

// Source is a configured reference to a remotely hosted plugin repository,
// either a full URL or an "owner/name" shorthand.
type Source string

// Identity is the storage key of a plugin inside the plugin store
type Identity struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// String returns the "owner/name" form of the identity
func (i Identity) String() string {
	return i.Owner + "/" + i.Name
}

// Resolve derives the plugin identity from its source. The last two
// non-empty path segments become owner and name. Resolve never touches the
// filesystem or the network.
func Resolve(source Source) (Identity, error) {
	segments := pathSegments(string(source))
	if len(segments) < 2 {
		return Identity{}, fmt.Errorf("%w: %q", ErrInvalidSource, source)
	}

	owner := segments[len(segments)-2]
	name := strings.TrimSuffix(segments[len(segments)-1], ".git")
	if owner == "" || name == "" || name == "." || owner == "." || name == ".." || owner == ".." {
		return Identity{}, fmt.Errorf("%w: %q", ErrInvalidSource, source)
	}

	return Identity{Owner: owner, Name: name}, nil
}

// CloneURL returns the address handed to the version-control client.
// Bare "owner/name" shorthands are expanded against host; URLs, scp-style
// addresses and local paths are returned untouched.
func CloneURL(source Source, host string) string {
	raw := strings.TrimSpace(string(source))
	if host == "" {
		host = DefaultHost
	}

	if strings.Contains(raw, "://") || isSCPLike(raw) || isLocalPath(raw) {
		return raw
	}

	segments := splitPath(raw)
	switch {
	case len(segments) == 2:
		return fmt.Sprintf("https://%s/%s/%s.git", host, segments[0], strings.TrimSuffix(segments[1], ".git"))
	case len(segments) > 2:
		// host already present, e.g. "gitlab.com/owner/name"
		return "https://" + strings.Join(segments, "/")
	default:
		return raw
	}
}

// pathSegments extracts the non-empty path segments of a source, ignoring
// scheme, host, query and fragment of URLs.
func pathSegments(raw string) []string {
	raw = strings.TrimSpace(raw)

	switch {
	case strings.Contains(raw, "://"):
		u, err := url.Parse(raw)
		if err != nil {
			return nil
		}
		return splitPath(u.Path)
	case isSCPLike(raw):
		// git@host:owner/name.git
		return splitPath(raw[strings.Index(raw, ":")+1:])
	default:
		return splitPath(raw)
	}
}

func splitPath(p string) []string {
	var segments []string
	for _, segment := range strings.Split(p, "/") {
		if segment = strings.TrimSpace(segment); segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}

func isSCPLike(raw string) bool {
	colon := strings.Index(raw, ":")
	if colon <= 0 {
		return false
	}
	slash := strings.Index(raw, "/")
	return slash == -1 || colon < slash
}

func isLocalPath(raw string) bool {
	return path.IsAbs(raw) ||
		strings.HasPrefix(raw, "./") ||
		strings.HasPrefix(raw, "../") ||
		strings.HasPrefix(raw, "~/")
}

// Fingerprint is the SHA-256 digest of the raw configuration document
type Fingerprint [sha256.Size]byte

// FingerprintOf hashes the raw bytes of a configuration document. Formatting
// changes produce a different fingerprint; the document is never re-parsed
// for comparison.
func FingerprintOf(raw []byte) Fingerprint {
	return Fingerprint(sha256.Sum256(raw))
}

// String returns the lowercase hex encoding used on disk
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// ParseFingerprint decodes the hex form produced by String
func ParseFingerprint(s string) (Fingerprint, error) {
	var f Fingerprint

	decoded, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return f, fmt.Errorf("invalid fingerprint: %w", err)
	}
	if len(decoded) != len(f) {
		return f, fmt.Errorf("invalid fingerprint length: got %d bytes, want %d", len(decoded), len(f))
	}

	copy(f[:], decoded)
	return f, nil
}
