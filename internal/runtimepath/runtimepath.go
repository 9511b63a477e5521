// Package runtimepath locates the per-user socket the daemon and its clients
// agree on.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

const (
	socketEnv  = "TASKSTRIP_SOCKET"
	socketName = "taskstrip.sock"
)

// Dir returns the directory holding the daemon socket: XDG_RUNTIME_DIR when
// set, else /run/user/<uid> when present, else a private directory under the
// system temp dir.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}

	uid := strconv.Itoa(os.Getuid())
	if info, err := os.Stat(filepath.Join("/run/user", uid)); err == nil && info.IsDir() {
		return filepath.Join("/run/user", uid), nil
	}
	return privateDir(filepath.Join(os.TempDir(), "taskstrip-runtime-"+uid))
}

// privateDir creates dir with mode 0700. An existing entry is accepted only
// when it is a directory other users cannot reach, since anyone able to
// write there could stand in for the daemon.
func privateDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	info, err := os.Lstat(dir)
	if err != nil {
		return "", fmt.Errorf("failed to inspect runtime dir: %w", err)
	}
	if !info.IsDir() || info.Mode().Perm()&0o077 != 0 {
		return "", fmt.Errorf("runtime dir %s is not private (mode %v)", dir, info.Mode())
	}
	return dir, nil
}

// SocketPath returns the daemon socket path. TASKSTRIP_SOCKET overrides it.
func SocketPath() (string, error) {
	if path := os.Getenv(socketEnv); path != "" {
		return path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, socketName), nil
}
