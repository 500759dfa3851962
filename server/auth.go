package server

import (
	"github.com/mwantia/sftptest/log"
	"golang.org/x/crypto/ssh"
)

// newServerConfig accepts every client: no authentication, any password
// and any public key all succeed.
func newServerConfig(signer ssh.Signer, logger *log.Logger) *ssh.ServerConfig {
	config := &ssh.ServerConfig{
		NoClientAuth: true,
		PasswordCallback: func(conn ssh.ConnMetadata, _ []byte) (*ssh.Permissions, error) {
			logger.Debug("Auth: accepted password for '%s' from %s", conn.User(), conn.RemoteAddr())
			return &ssh.Permissions{}, nil
		},
		PublicKeyCallback: func(conn ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions, error) {
			logger.Debug("Auth: accepted %s key for '%s' from %s", key.Type(), conn.User(), conn.RemoteAddr())
			return &ssh.Permissions{}, nil
		},
		KeyboardInteractiveCallback: func(conn ssh.ConnMetadata, _ ssh.KeyboardInteractiveChallenge) (*ssh.Permissions, error) {
			return &ssh.Permissions{}, nil
		},
		ServerVersion: "SSH-2.0-sftptest",
	}
	config.AddHostKey(signer)

	return config
}
