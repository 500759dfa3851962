package server

import (
	"fmt"
	"net/url"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// Client is an sftp client together with the ssh connection it runs on.
type Client struct {
	*sftp.Client
	conn *ssh.Client
}

// Dial connects to addr with password authentication. Host keys are not
// verified: the servers this talks to use ephemeral keys.
func Dial(addr, user, password string) (*Client, error) {
	config := &ssh.ClientConfig{
		User:            user,
		Auth:            []ssh.AuthMethod{ssh.Password(password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         10 * time.Second,
	}

	conn, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to start sftp session: %w", err)
	}

	return &Client{Client: client, conn: conn}, nil
}

// DialURL connects using an sftp://user:pw@host:port/ URL.
func DialURL(rawURL string) (*Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "sftp" {
		return nil, fmt.Errorf("unsupported scheme '%s'", u.Scheme)
	}

	password, _ := u.User.Password()
	return Dial(u.Host, u.User.Username(), password)
}

// Dial connects a client to s.
func (s *Server) Dial() (*Client, error) {
	addr := s.Addr()
	if addr == nil {
		return nil, fmt.Errorf("server is not listening")
	}
	return Dial(addr.String(), s.options.User, s.options.Password)
}

func (c *Client) Close() error {
	err := c.Client.Close()
	if cerr := c.conn.Close(); err == nil {
		err = cerr
	}
	return err
}
