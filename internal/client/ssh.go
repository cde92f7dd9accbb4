package client

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/sftp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Ciphers offered to the server, in order of preference.
var sshCiphers = []string{"aes128-ctr", "aes192-ctr", "aes256-ctr", "aes128-cbc"}

// SSHOptions describe how to reach and authenticate to a host.
type SSHOptions struct {
	Host       string
	Port       int
	Username   string
	Password   string
	PrivateKey []byte
	KnownHosts string
	Timeout    time.Duration
}

// ParseSSHTarget splits "host[:port]".
func ParseSSHTarget(target string, defaultPort int) (string, int, error) {
	if target == "" {
		return "", 0, fmt.Errorf("--target is required")
	}

	host, sPort, err := net.SplitHostPort(target)
	if err != nil {
		// no port given
		return strings.Trim(target, "[]"), defaultPort, nil
	}
	port, err := strconv.Atoi(sPort)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, fmt.Errorf("invalid SSH port %q", sPort)
	}
	return host, port, nil
}

func (opts SSHOptions) clientConfig() (*ssh.ClientConfig, error) {
	var auth []ssh.AuthMethod
	if len(opts.PrivateKey) > 0 {
		signer, err := ssh.ParsePrivateKey(opts.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("parse private key: %w", err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if opts.Password != "" {
		auth = append(auth, ssh.Password(opts.Password))
	}
	if len(auth) == 0 {
		return nil, fmt.Errorf("either a password or a private key is required")
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey()
	if opts.KnownHosts != "" {
		cb, err := knownhosts.New(opts.KnownHosts)
		if err != nil {
			return nil, fmt.Errorf("load known hosts: %w", err)
		}
		hostKeyCallback = cb
	} else {
		log.WithField("host", opts.Host).Debug("Host key verification is disabled")
	}

	return &ssh.ClientConfig{
		Config:          ssh.Config{Ciphers: sshCiphers},
		User:            opts.Username,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
		Timeout:         opts.Timeout,
	}, nil
}

// DialSSH opens an authenticated SSH connection.
func DialSSH(ctx context.Context, opts SSHOptions) (*ssh.Client, error) {
	cfg, err := opts.clientConfig()
	if err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))
	dialer := net.Dialer{Timeout: opts.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("target host error: %w", err)
	}

	c, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ssh handshake with %s: %w", addr, err)
	}
	return ssh.NewClient(c, chans, reqs), nil
}

// NewSFTP starts an SFTP session over an existing connection.
func NewSFTP(conn *ssh.Client) (*sftp.Client, error) {
	c, err := sftp.NewClient(conn)
	if err != nil {
		return nil, fmt.Errorf("start sftp session: %w", err)
	}
	return c, nil
}
