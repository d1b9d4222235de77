package vault

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/user"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"vellum/internal/logging"
)

// RemoteOptions holds SFTP connection settings for a remote vault.
type RemoteOptions struct {
	Host     string
	Port     int
	User     string
	Password string // fallback if no key
	KeyFile  string
	Root     string
	Timeout  time.Duration
}

// Remote serves a vault over SFTP. The connection is established lazily
// and re-established when the keepalive probe fails.
type Remote struct {
	opts RemoteOptions

	mu   sync.Mutex
	conn *ssh.Client
	sftp *sftp.Client
}

// NewRemote creates a remote vault. No connection is made until first use.
func NewRemote(opts RemoteOptions) *Remote {
	if opts.Port <= 0 {
		opts.Port = 22
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.User == "" {
		if current, err := user.Current(); err == nil {
			opts.User = current.Username
		}
	}
	return &Remote{opts: opts}
}

// Root returns the remote vault root.
func (v *Remote) Root() string {
	return fmt.Sprintf("sftp://%s@%s:%d%s", v.opts.User, v.opts.Host, v.opts.Port, v.opts.Root)
}

// Connect establishes the SSH connection and SFTP session.
func (v *Remote) Connect(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.connectLocked(ctx)
}

func (v *Remote) connectLocked(ctx context.Context) error {
	if v.conn != nil {
		_, _, err := v.conn.SendRequest("keepalive@openssh.com", true, nil)
		if err == nil {
			return nil
		}
		// Connection dead, close and reconnect.
		v.closeLocked()
	}

	sshConfig, err := v.buildSSHConfig()
	if err != nil {
		return fmt.Errorf("failed to build SSH config: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", v.opts.Host, v.opts.Port)
	logging.Info("connecting to remote vault", "addr", addr, "user", v.opts.User)

	dialer := &net.Dialer{Timeout: v.opts.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, sshConfig)
	if err != nil {
		conn.Close()
		return fmt.Errorf("SSH handshake failed: %w", err)
	}
	client := ssh.NewClient(sshConn, chans, reqs)

	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		client.Close()
		return fmt.Errorf("failed to open SFTP session: %w", err)
	}

	v.conn = client
	v.sftp = sftpClient
	logging.Info("remote vault connected", "host", v.opts.Host)
	return nil
}

func (v *Remote) buildSSHConfig() (*ssh.ClientConfig, error) {
	var authMethods []ssh.AuthMethod

	if v.opts.KeyFile != "" {
		keyPath := expandHome(v.opts.KeyFile)
		if key, err := os.ReadFile(keyPath); err != nil {
			logging.Warn("failed to read SSH key", "path", keyPath, "error", err)
		} else if signer, err := ssh.ParsePrivateKey(key); err != nil {
			logging.Warn("failed to parse SSH key", "path", keyPath, "error", err)
		} else {
			authMethods = append(authMethods, ssh.PublicKeys(signer))
		}
	}

	// Try common key files when none was configured.
	if len(authMethods) == 0 {
		for _, keyFile := range []string{"id_ed25519", "id_ecdsa", "id_rsa"} {
			keyPath := expandHome(filepath.Join("~/.ssh", keyFile))
			if key, err := os.ReadFile(keyPath); err == nil {
				if signer, err := ssh.ParsePrivateKey(key); err == nil {
					authMethods = append(authMethods, ssh.PublicKeys(signer))
					break
				}
			}
		}
	}

	if v.opts.Password != "" {
		authMethods = append(authMethods, ssh.Password(v.opts.Password))
	}

	if len(authMethods) == 0 {
		return nil, fmt.Errorf("no authentication method available")
	}

	return &ssh.ClientConfig{
		User: v.opts.User,
		Auth: authMethods,
		// TODO: verify against known_hosts once host key pinning is configurable.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         v.opts.Timeout,
	}, nil
}

// ensure returns a live SFTP session, reconnecting if needed.
func (v *Remote) ensure() (*sftp.Client, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.connectLocked(context.Background()); err != nil {
		return nil, err
	}
	return v.sftp, nil
}

func (v *Remote) resolve(p string) (string, error) {
	rel, err := CleanPath(p)
	if err != nil {
		return "", err
	}
	return path.Join(v.opts.Root, rel), nil
}

// Exists reports whether path exists in the remote vault.
func (v *Remote) Exists(p string) bool {
	client, err := v.ensure()
	if err != nil {
		return false
	}
	full, err := v.resolve(p)
	if err != nil {
		return false
	}
	_, err = client.Stat(full)
	return err == nil
}

// ReadFile returns the content of a remote document.
func (v *Remote) ReadFile(p string) (string, error) {
	client, err := v.ensure()
	if err != nil {
		return "", err
	}
	full, err := v.resolve(p)
	if err != nil {
		return "", err
	}
	f, err := client.Open(full)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var sb strings.Builder
	if _, err := f.WriteTo(&sb); err != nil {
		return "", fmt.Errorf("failed to read remote file: %w", err)
	}
	return sb.String(), nil
}

// WriteFile stores content at path, creating parent directories as needed.
func (v *Remote) WriteFile(p string, content string) error {
	client, err := v.ensure()
	if err != nil {
		return err
	}
	full, err := v.resolve(p)
	if err != nil {
		return err
	}
	if dir := path.Dir(full); dir != "." && dir != "/" {
		if err := client.MkdirAll(dir); err != nil {
			return fmt.Errorf("failed to create remote directory: %w", err)
		}
	}
	f, err := client.Create(full)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write([]byte(content)); err != nil {
		return fmt.Errorf("failed to write remote file: %w", err)
	}
	return nil
}

// ReadDir lists the entries of a remote directory, sorted by name.
func (v *Remote) ReadDir(p string) ([]Entry, error) {
	client, err := v.ensure()
	if err != nil {
		return nil, err
	}
	full, err := v.resolve(p)
	if err != nil {
		return nil, err
	}
	infos, err := client.ReadDir(full)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, Entry{Name: info.Name(), IsDir: info.IsDir()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Mkdir creates a remote directory, including missing parents.
func (v *Remote) Mkdir(p string) error {
	client, err := v.ensure()
	if err != nil {
		return err
	}
	full, err := v.resolve(p)
	if err != nil {
		return err
	}
	return client.MkdirAll(full)
}

// Close tears down the SFTP session and SSH connection.
func (v *Remote) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closeLocked()
}

func (v *Remote) closeLocked() error {
	var err error
	if v.sftp != nil {
		err = v.sftp.Close()
		v.sftp = nil
	}
	if v.conn != nil {
		if cerr := v.conn.Close(); err == nil {
			err = cerr
		}
		v.conn = nil
	}
	return err
}

// expandHome expands a leading ~/ to the user's home directory.
func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		if usr, err := user.Current(); err == nil {
			return filepath.Join(usr.HomeDir, p[2:])
		}
	}
	return p
}
