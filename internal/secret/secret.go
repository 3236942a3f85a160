package secret

import (
	"fmt"
	"strings"

	"github.com/containeroo/resolver"
	"github.com/zalando/go-keyring"
)

// KeyringService is the OS keychain service credentials are stored under.
const KeyringService = "sprintreport"

const keyringPrefix = "keyring:"

// Resolve expands a credential reference.
// "keyring:<account>" reads the OS keychain; "env:", "file:" and the other
// resolver schemes are handled by containeroo/resolver; anything else is returned as is.
func Resolve(value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", nil
	}
	if account, ok := strings.CutPrefix(v, keyringPrefix); ok {
		return LoadToken(account)
	}
	out, err := resolver.ResolveVariable(v)
	if err != nil {
		return "", fmt.Errorf("resolve credential: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// LoadToken retrieves a stored token from the OS keychain.
func LoadToken(account string) (string, error) {
	if account == "" {
		return "", keyring.ErrNotFound
	}
	tok, err := keyring.Get(KeyringService, account)
	if err != nil {
		return "", fmt.Errorf("keyring %q: %w", account, err)
	}
	return tok, nil
}
