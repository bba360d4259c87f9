package gateway

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCredentials_Valid(t *testing.T) {
	creds, err := NewCredentials("alice", "s3cret", true)
	require.NoError(t, err)
	assert.False(t, creds.Empty())
}

func TestNewCredentials_MissingPasswordRequired(t *testing.T) {
	_, err := NewCredentials("alice", "", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rpcpassword=")
	assert.Contains(t, err.Error(), "MUST NOT be the same")

	// The remediation message carries a usable random password suggestion.
	m := regexp.MustCompile(`rpcpassword=(\S+)`).FindStringSubmatch(err.Error())
	require.Len(t, m, 2)
	raw, decErr := base58.Decode(m[1])
	require.NoError(t, decErr)
	assert.Len(t, raw, 32)
}

func TestNewCredentials_UsernameEqualsPassword(t *testing.T) {
	_, err := NewCredentials("same", "same", true)
	assert.Error(t, err)
}

func TestNewCredentials_NotRequiredFailsClosed(t *testing.T) {
	creds, err := NewCredentials("alice", "", false)
	require.NoError(t, err)
	assert.True(t, creds.Empty())
}

func TestSuggestionsAreRandom(t *testing.T) {
	_, err1 := NewCredentials("a", "", true)
	_, err2 := NewCredentials("a", "", true)
	require.Error(t, err1)
	require.Error(t, err2)
	assert.NotEqual(t, err1.Error(), err2.Error())
}

func TestLoadCredentialsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rpc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rpcuser: alice\nrpcpassword: s3cret\n"), 0o600))

	f, err := LoadCredentialsFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alice", f.Username)
	assert.Equal(t, "s3cret", f.Password)
}

func TestLoadCredentialsFile_Missing(t *testing.T) {
	_, err := LoadCredentialsFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadCredentialsFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rpc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rpcuser: [unterminated"), 0o600))

	_, err := LoadCredentialsFile(path)
	assert.Error(t, err)
}
