package metadata

import (
	"errors"
	"fmt"
	"net/url"

	"gopkg.in/yaml.v3"
)

// URL is a validated absolute URL.
type URL struct {
	u *url.URL
}

// ParseURL parses s as an absolute URL. The empty string and relative
// references are rejected.
func ParseURL(s string) (URL, error) {
	if s == "" {
		return URL{}, errors.New("empty string is not a valid URL")
	}
	u, err := url.Parse(s)
	if err != nil {
		return URL{}, err
	}
	if u.Scheme == "" {
		return URL{}, fmt.Errorf("relative URL without a base: %q", s)
	}
	if u.Host == "" && u.Opaque == "" && u.Path == "" {
		return URL{}, fmt.Errorf("URL has no host or path: %q", s)
	}
	return URL{u: u}, nil
}

// MustParseURL is like ParseURL but panics on error.
func MustParseURL(s string) URL {
	u, err := ParseURL(s)
	if err != nil {
		panic(fmt.Sprintf("metadata: MustParseURL(%q): %v", s, err))
	}
	return u
}

// String returns the string form of the URL.
func (u URL) String() string {
	if u.u == nil {
		return ""
	}
	return u.u.String()
}

// URL returns a copy of the underlying net/url value.
func (u URL) URL() *url.URL {
	if u.u == nil {
		return nil
	}
	c := *u.u
	if u.u.User != nil {
		user := *u.u.User
		c.User = &user
	}
	return &c
}

// IsZero reports whether u holds no URL.
func (u URL) IsZero() bool {
	return u.u == nil
}

// MarshalYAML implements yaml.Marshaler.
func (u URL) MarshalYAML() (interface{}, error) {
	if u.u == nil {
		return nil, errors.New("cannot encode empty URL")
	}
	return u.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (u *URL) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a URL string", value.Line)
	}
	parsed, err := ParseURL(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid URL: %w", value.Line, err)
	}
	*u = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (u URL) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *URL) UnmarshalText(text []byte) error {
	parsed, err := ParseURL(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
