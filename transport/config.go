package transport

import (
	"strings"

	"github.com/Jakan-Kink/stash-graphql-client/zerror"
)

// Config is the client's connection configuration: scheme/host/port of the
// remote GraphQL endpoint, its API key, and the Logger operations log
// through. Fields are read case-insensitively out of a map[string]any at
// construction (NewConfig) so callers can build one from whatever
// configuration format they already use (flags, env, json) without this
// package taking a dependency on any of them.
type Config struct {
	Scheme string
	Host   string
	Port   int
	ApiKey string
	Logger Logger
}

// NewConfig builds and validates a Config from raw. Recognized keys (matched
// case-insensitively): scheme, host, port, apikey, logger. Scheme must be
// "http" or "https"; port, if given, must be in [0, 65535]. A refused value
// is reported as a *zerror.Config, never silently defaulted, since a bad
// connection configuration must never reach the transport.
func NewConfig(raw map[string]interface{}) (*Config, error) {
	c := &Config{Scheme: "https", Logger: NoopLogger}
	for k, v := range raw {
		switch strings.ToLower(k) {
		case "scheme":
			s, _ := v.(string)
			c.Scheme = s
		case "host":
			s, _ := v.(string)
			c.Host = s
		case "port":
			switch p := v.(type) {
			case int:
				c.Port = p
			case int64:
				c.Port = int(p)
			case float64:
				c.Port = int(p)
			}
		case "apikey":
			s, _ := v.(string)
			c.ApiKey = s
		case "logger":
			if l, ok := v.(Logger); ok {
				c.Logger = l
			}
		}
	}
	if c.Scheme != "http" && c.Scheme != "https" {
		return nil, &zerror.Config{Reason: "scheme must be http or https, got " + c.Scheme}
	}
	if c.Host == "" {
		return nil, &zerror.Config{Reason: "host is required"}
	}
	if c.Port < 0 || c.Port > 65535 {
		return nil, &zerror.Config{Reason: "port out of range"}
	}
	if c.ApiKey == "" {
		return nil, &zerror.Config{Reason: "apiKey is required"}
	}
	if c.Logger == nil {
		c.Logger = NoopLogger
	}
	return c, nil
}
