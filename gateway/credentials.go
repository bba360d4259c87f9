package gateway

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mr-tron/base58"
	"gopkg.in/yaml.v3"
)

// DefaultAuthFailDelay is slept before answering a failed authentication
// attempt, to rate-limit brute-forcing.
const DefaultAuthFailDelay = 250 * time.Millisecond

// Config configures the gateway.
type Config struct {
	// Username and Password form the single accepted RPC credential.
	Username string
	Password string

	// RequireCredentials makes Start fail when no usable password is
	// configured. When false, an unusable credential still fails closed:
	// every authentication attempt is rejected.
	RequireCredentials bool

	// AuthFailDelay overrides DefaultAuthFailDelay when non-zero.
	AuthFailDelay time.Duration

	Log *slog.Logger
}

// Credentials holds the expected user:secret pair, computed once at
// startup and immutable afterwards. The zero value is empty and rejects
// every authentication attempt.
type Credentials struct {
	userColonPass string
}

// Empty reports whether authentication was never usably initialized.
func (c Credentials) Empty() bool {
	return c.userColonPass == ""
}

// NewCredentials validates the configured username and password. A missing
// password, or a password equal to the username, is unusable: with require
// set this is a startup error whose message carries a freshly generated
// password suggestion; without it the returned credentials are empty and
// fail closed.
func NewCredentials(username, password string, require bool) (Credentials, error) {
	if password == "" || username == password {
		if require {
			return Credentials{}, fmt.Errorf(
				"no usable RPC credentials configured; set rpcuser and rpcpassword in the credentials file.\n"+
					"It is recommended you use the following random password:\n"+
					"rpcuser=noderpc\n"+
					"rpcpassword=%s\n"+
					"(you do not need to remember this password)\n"+
					"The username and password MUST NOT be the same",
				suggestPassword())
		}
		return Credentials{}, nil
	}
	return Credentials{userColonPass: username + ":" + password}, nil
}

// suggestPassword generates a random password for the remediation message.
func suggestPassword() string {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms.
		panic(err)
	}
	return base58.Encode(buf[:])
}

// CredentialsFile is the on-disk YAML credentials format.
type CredentialsFile struct {
	Username string `yaml:"rpcuser"`
	Password string `yaml:"rpcpassword"`
}

// LoadCredentialsFile reads rpcuser and rpcpassword from a YAML file.
func LoadCredentialsFile(path string) (*CredentialsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}
	var f CredentialsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing credentials file %s: %w", path, err)
	}
	return &f, nil
}
