package cli

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

// promptPassword prompts for a password with hidden input.
func promptPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)

	password, err := term.ReadPassword(syscall.Stdin)
	fmt.Fprintln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}

	return password, nil
}

// promptKeyfilePassphrase is the passphrase callback for the extension
// backend's login.
func promptKeyfilePassphrase(_ context.Context) (string, error) {
	pass, err := promptPassword("Keyfile passphrase: ")
	if err != nil {
		return "", err
	}
	result := string(pass)
	zero(pass)
	return result, nil
}

// promptNewPassphrase prompts for a new keyfile passphrase with
// confirmation.
func promptNewPassphrase() (string, error) {
	pass, err := promptPassword("Enter keyfile passphrase: ")
	if err != nil {
		return "", err
	}

	if len(pass) < 8 {
		zero(pass)
		return "", manorerr.WithSuggestion(
			manorerr.ErrInvalidInput,
			"passphrase must be at least 8 characters",
		)
	}

	confirm, err := promptPassword("Confirm passphrase: ")
	if err != nil {
		zero(pass)
		return "", err
	}
	defer zero(confirm)

	if string(pass) != string(confirm) {
		zero(pass)
		return "", manorerr.WithSuggestion(
			manorerr.ErrInvalidInput,
			"passphrases do not match",
		)
	}

	result := string(pass)
	zero(pass)
	return result, nil
}

func zero(data []byte) {
	for i := range data {
		data[i] = 0
	}
}
