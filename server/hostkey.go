package server

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"fmt"
	"os"

	"golang.org/x/crypto/ssh"
)

// LoadHostKey parses a PEM encoded private key file.
func LoadHostKey(path string) (ssh.Signer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read host key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse host key '%s': %w", path, err)
	}
	return signer, nil
}

// GenerateHostKey creates an ephemeral ed25519 host key.
func GenerateHostKey() (ssh.Signer, error) {
	_, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate host key: %w", err)
	}

	return ssh.NewSignerFromKey(private)
}

// WriteHostKey generates an ed25519 key and stores it PEM encoded at path.
func WriteHostKey(path string) (ssh.Signer, error) {
	_, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate host key: %w", err)
	}

	block, err := ssh.MarshalPrivateKey(private, "sftptest host key")
	if err != nil {
		return nil, fmt.Errorf("failed to encode host key: %w", err)
	}
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0600); err != nil {
		return nil, fmt.Errorf("failed to write host key: %w", err)
	}

	return ssh.NewSignerFromKey(private)
}
