package util

import (
	"crypto/rand"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var LogFn func(format string, params ...interface{})

func logfn(format string, params ...interface{}) {
	if LogFn != nil {
		LogFn(format, params...)
	}
}

// NewLocalToken mints a fresh, locally-assigned identifier for a not-yet-saved
// entity: 32 lowercase hex characters, matching the shape is-new() checks for.
// Adapted from the teacher's UUID helper (crypto/rand-backed), dropping the
// dashed UUID rendering since the declared shape here is a bare hex token.
func NewLocalToken() (string, error) {
	b := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", b), nil
}

// IsLocalToken reports whether s has the 32-hex-character shape minted by
// NewLocalToken.
func IsLocalToken(s string) bool {
	if len(s) != 32 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		default:
			return false
		}
	}
	return true
}

// Interpolate replaces "${key}" placeholders in s with the string form of
// vars[key], leaving unrecognized placeholders untouched.
func Interpolate(s string, vars map[string]interface{}) string {
	var b strings.Builder
	for {
		i := strings.Index(s, "${")
		if i < 0 {
			b.WriteString(s)
			break
		}
		j := strings.Index(s[i:], "}")
		if j < 0 {
			b.WriteString(s)
			break
		}
		j += i
		b.WriteString(s[:i])
		key := s[i+2 : j]
		if v, ok := vars[key]; ok {
			if sv, ok := v.(string); ok {
				b.WriteString(sv)
			} else {
				fmt.Fprintf(&b, "%v", v)
			}
		} else {
			b.WriteString(s[i : j+1])
		}
		s = s[j+1:]
	}
	return b.String()
}

// FineTimeSecs converts a comma-separated duration string like "2h, 30m, 5s"
// into total seconds. A term with no unit suffix is treated as seconds.
// Backs the "relative shortcuts" scalar/timestamp accepts alongside RFC3339.
func FineTimeSecs(s string) (t int64, err error) {
	var t0 int64
	for _, s0 := range strings.Split(s, ",") {
		t1, err := oneFineTimeSecs(strings.Trim(s0, ", \t"))
		t0 = t0 + t1
		if err != nil {
			return t0, err
		}
	}
	return t0, nil
}

func oneFineTimeSecs(s string) (t int64, err error) {
	if s == "" {
		return 0, fmt.Errorf("empty duration term")
	}
	slen := len(s)
	s1 := s[0 : slen-1]
	s2 := s[slen-1 : slen]
	t1, err := strconv.ParseInt(s1, 10, 64)
	if err != nil {
		return
	}
	switch s2 {
	case "s":
		t = t1
	case "m":
		t = t1 * 60
	case "h":
		t = t1 * 60 * 60
	case "d":
		t = t1 * 60 * 60 * 24
	default:
		t, err = oneFineTimeSecs(s + "s")
		if err != nil {
			return
		}
	}
	return
}
