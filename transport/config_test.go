package transport_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jakan-Kink/stash-graphql-client/transport"
)

func TestNewConfigHappyPath(t *testing.T) {
	c, err := transport.NewConfig(map[string]interface{}{
		"Scheme": "https",
		"Host":   "stash.example.com",
		"Port":   9999,
		"ApiKey": "secret",
	})
	require.NoError(t, err)
	require.Equal(t, "https", c.Scheme)
	require.Equal(t, "stash.example.com", c.Host)
	require.Equal(t, 9999, c.Port)
	require.Equal(t, "secret", c.ApiKey)
	require.Equal(t, transport.NoopLogger, c.Logger)
}

func TestNewConfigIsCaseInsensitive(t *testing.T) {
	c, err := transport.NewConfig(map[string]interface{}{
		"SCHEME": "http",
		"host":   "localhost",
		"PoRt":   8080,
		"apikey": "k",
	})
	require.NoError(t, err)
	require.Equal(t, "http", c.Scheme)
	require.Equal(t, "localhost", c.Host)
	require.Equal(t, 8080, c.Port)
}

func TestNewConfigRejectsBadScheme(t *testing.T) {
	_, err := transport.NewConfig(map[string]interface{}{
		"scheme": "ftp",
		"host":   "x",
		"apikey": "k",
	})
	require.Error(t, err)
}

func TestNewConfigRejectsMissingHost(t *testing.T) {
	_, err := transport.NewConfig(map[string]interface{}{
		"scheme": "https",
		"apikey": "k",
	})
	require.Error(t, err)
}

func TestNewConfigRejectsMissingApiKey(t *testing.T) {
	_, err := transport.NewConfig(map[string]interface{}{
		"scheme": "https",
		"host":   "x",
	})
	require.Error(t, err)
}

func TestNewConfigRejectsPortOutOfRange(t *testing.T) {
	_, err := transport.NewConfig(map[string]interface{}{
		"scheme": "https",
		"host":   "x",
		"apikey": "k",
		"port":   99999,
	})
	require.Error(t, err)
}
