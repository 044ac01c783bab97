package kv

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/matzehuels/topolayout/pkg/errors"
)

// Backend schemes understood by Open.
const (
	SchemeMemory = "memory"
	SchemeNull   = "null"
	SchemeFile   = "file"
	SchemeSQLite = "sqlite"
	SchemeRedis  = "redis"
	SchemeRedisS = "rediss"
	SchemeMongo  = "mongodb"
	SchemeMongoS = "mongodb+srv"
)

// Open creates a store from a URL. A bare filesystem path is treated as a
// file store directory.
func Open(ctx context.Context, rawURL string) (Store, error) {
	scheme, rest := SplitURL(rawURL)

	var (
		s   Store
		err error
	)
	switch scheme {
	case SchemeMemory:
		return NewMemory(), nil
	case SchemeNull:
		return NewNull(), nil
	case SchemeFile:
		if rest == "" {
			return nil, errors.New(errors.ErrCodeInvalidStoreURL, "file store needs a directory: %q", rawURL)
		}
		s, err = NewFile(rest)
	case SchemeSQLite:
		if rest == "" {
			return nil, errors.New(errors.ErrCodeInvalidStoreURL, "sqlite store needs a path: %q", rawURL)
		}
		s, err = NewSQLite(rest)
	case SchemeRedis, SchemeRedisS:
		s, err = NewRedis(ctx, rawURL)
	case SchemeMongo, SchemeMongoS:
		s, err = NewMongo(ctx, rawURL)
	default:
		return nil, errors.New(errors.ErrCodeInvalidStoreURL, "unsupported store scheme %q", scheme)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "open %s store", scheme)
	}
	return s, nil
}

// SplitURL returns the scheme of a store URL and its location part.
// Paths without a scheme are reported as file stores.
func SplitURL(rawURL string) (scheme, rest string) {
	rawURL = strings.TrimSpace(rawURL)
	i := strings.Index(rawURL, ":")
	if i <= 1 {
		// No scheme, or a Windows drive letter.
		return SchemeFile, rawURL
	}
	scheme = strings.ToLower(rawURL[:i])
	rest = strings.TrimPrefix(rawURL[i+1:], "//")
	switch scheme {
	case SchemeFile, SchemeSQLite:
		if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
			rest = u.Path
			if u.Host != "" {
				rest = filepath.Join(u.Host, u.Path)
			}
		}
	}
	return scheme, rest
}

// Describe returns a display form of a store URL with credentials removed.
func Describe(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.User == nil {
		return rawURL
	}
	u.User = url.User(u.User.Username())
	return u.String()
}
