// Package ssh forwards a local port to a Trino coordinator that is only
// reachable through a bastion host.
//
// Design decisions:
//   - Key-based authentication only, with optional passphrase.
//   - The local side binds 127.0.0.1:0 and the chosen port is handed to
//     the driver, so several tunnels can coexist.
//   - Host keys are checked against a known_hosts file when one is
//     configured; otherwise any key is accepted and a warning is logged.
package ssh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"sync"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/DachengChen/trinoai/applog"
	"github.com/DachengChen/trinoai/config"
)

// Addr is the local end of a running tunnel.
type Addr struct {
	Host string
	Port int
}

// Tunnel is one bastion connection plus a local listener.
type Tunnel struct {
	sshConfig  *ssh.ClientConfig
	sshAddr    string // bastion host:port
	remoteAddr string // coordinator host:port, resolved on the bastion

	client   *ssh.Client
	listener net.Listener
	conns    sync.WaitGroup
	stopOnce sync.Once
}

// NewTunnel validates credentials and prepares a tunnel to
// remoteHost:remotePort. Nothing is dialed until Start.
func NewTunnel(cfg config.SSHConfig, remoteHost string, remotePort int) (*Tunnel, error) {
	auth, err := buildAuthMethods(cfg)
	if err != nil {
		return nil, err
	}
	hostKeys, err := hostKeyCallback(cfg.KnownHosts)
	if err != nil {
		return nil, err
	}

	return &Tunnel{
		sshConfig: &ssh.ClientConfig{
			User:            cfg.User,
			Auth:            auth,
			HostKeyCallback: hostKeys,
		},
		sshAddr:    net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		remoteAddr: net.JoinHostPort(remoteHost, strconv.Itoa(remotePort)),
	}, nil
}

// RemoteAddr returns the forwarded destination as seen from the bastion.
func (t *Tunnel) RemoteAddr() string { return t.remoteAddr }

// Start dials the bastion and begins accepting local connections.
func (t *Tunnel) Start(ctx context.Context) (*Addr, error) {
	var d net.Dialer
	raw, err := d.DialContext(ctx, "tcp", t.sshAddr)
	if err != nil {
		return nil, fmt.Errorf("ssh dial %s: %w", t.sshAddr, err)
	}
	conn, chans, reqs, err := ssh.NewClientConn(raw, t.sshAddr, t.sshConfig)
	if err != nil {
		raw.Close()
		return nil, fmt.Errorf("ssh handshake %s: %w", t.sshAddr, err)
	}
	t.client = ssh.NewClient(conn, chans, reqs)

	t.listener, err = net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.client.Close()
		return nil, fmt.Errorf("local listen: %w", err)
	}

	port := t.listener.Addr().(*net.TCPAddr).Port
	applog.Event("ssh", "tunnel started", "bastion", t.sshAddr, "remote", t.remoteAddr, "local_port", port)

	t.conns.Add(1)
	go t.serve()
	return &Addr{Host: "127.0.0.1", Port: port}, nil
}

// Stop closes the listener, waits for open connections and hangs up
// on the bastion. Calling it twice is harmless.
func (t *Tunnel) Stop() {
	t.stopOnce.Do(func() {
		if t.listener != nil {
			t.listener.Close()
		}
		if t.client != nil {
			// Closing the client unblocks forwards still copying.
			t.client.Close()
		}
		t.conns.Wait()
		applog.Event("ssh", "tunnel stopped", "bastion", t.sshAddr)
	})
}

func (t *Tunnel) serve() {
	defer t.conns.Done()
	for {
		local, err := t.listener.Accept()
		if errors.Is(err, net.ErrClosed) {
			return
		}
		if err != nil {
			applog.Error("ssh accept: %v", err)
			continue
		}
		t.conns.Add(1)
		go t.pipe(local)
	}
}

// pipe copies bytes both ways until either side closes.
func (t *Tunnel) pipe(local net.Conn) {
	defer t.conns.Done()
	defer local.Close()

	remote, err := t.client.Dial("tcp", t.remoteAddr)
	if err != nil {
		applog.Error("ssh forward to %s: %v", t.remoteAddr, err)
		return
	}
	defer remote.Close()

	errc := make(chan error, 2)
	go func() { _, err := io.Copy(remote, local); errc <- err }()
	go func() { _, err := io.Copy(local, remote); errc <- err }()
	<-errc
}

func hostKeyCallback(knownHostsPath string) (ssh.HostKeyCallback, error) {
	if knownHostsPath == "" {
		applog.Event("ssh", "host key not verified", "hint", "set TRINO_SSH_KNOWN_HOSTS")
		return ssh.InsecureIgnoreHostKey(), nil
	}
	cb, err := knownhosts.New(knownHostsPath)
	if err != nil {
		return nil, fmt.Errorf("load known hosts %s: %w", knownHostsPath, err)
	}
	return cb, nil
}

func buildAuthMethods(cfg config.SSHConfig) ([]ssh.AuthMethod, error) {
	if cfg.KeyPath == "" {
		return nil, errors.New("no SSH authentication methods configured (set TRINO_SSH_KEY_PATH)")
	}

	pem, err := os.ReadFile(cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("read ssh key %s: %w", cfg.KeyPath, err)
	}

	var signer ssh.Signer
	if cfg.KeyPassphrase != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(pem, []byte(cfg.KeyPassphrase))
	} else {
		signer, err = ssh.ParsePrivateKey(pem)
	}
	if err != nil {
		return nil, fmt.Errorf("parse ssh key: %w", err)
	}
	return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
}
