package server

import (
	"errors"
	"io"
	"net"

	"github.com/google/uuid"
	"github.com/mwantia/sftptest/handler"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

func (s *Server) handleConn(conn net.Conn) {
	id := uuid.Must(uuid.NewV7()).String()
	logger := s.log.Named("conn")

	sshConn, chans, reqs, err := ssh.NewServerConn(conn, s.config)
	if err != nil {
		logger.Debug("Handshake: failed for %s: %v", conn.RemoteAddr(), err)
		conn.Close()
		return
	}
	defer sshConn.Close()

	logger.Debug("Handshake: session %s for '%s' from %s", id, sshConn.User(), sshConn.RemoteAddr())
	go ssh.DiscardRequests(reqs)

	for newChan := range chans {
		if newChan.ChannelType() != "session" {
			newChan.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}

		ch, requests, err := newChan.Accept()
		if err != nil {
			logger.Debug("Channel: failed to accept for %s: %v", id, err)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleSession(id, ch, requests)
		}()
	}

	logger.Debug("Handshake: session %s closed", id)
}

// handleSession answers channel requests until the sftp subsystem is
// requested, then serves it on the channel.
func (s *Server) handleSession(id string, ch ssh.Channel, requests <-chan *ssh.Request) {
	defer ch.Close()

	served := false
	for req := range requests {
		if req.Type != "subsystem" || served {
			if req.WantReply {
				req.Reply(false, nil)
			}
			continue
		}

		var payload struct {
			Name string
		}
		if err := ssh.Unmarshal(req.Payload, &payload); err != nil || payload.Name != "sftp" {
			req.Reply(false, nil)
			continue
		}
		req.Reply(true, nil)
		served = true

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer ch.Close()

			s.serveSFTP(id, ch)
		}()
	}
}

func (s *Server) serveSFTP(id string, ch ssh.Channel) {
	logger := s.log.Named("sftp")

	h, err := handler.New(s.provider,
		handler.WithLogger(s.log.Named("handler")),
		handler.WithJournal(s.journal),
		handler.WithSession(id),
	)
	if err != nil {
		logger.Error("Serve: failed to create handler for %s: %v", id, err)
		return
	}
	defer h.CloseAll()

	rs := sftp.NewRequestServer(ch, h.Handlers())
	defer rs.Close()

	if err := rs.Serve(); err != nil && !errors.Is(err, io.EOF) {
		logger.Debug("Serve: session %s ended: %v", id, err)
	}
}
