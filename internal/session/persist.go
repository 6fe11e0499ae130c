package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrCorruptSession is returned by Load when stored content cannot be read
// as a session.
var ErrCorruptSession = errors.New("corrupt session file")

// Persister stores a session between process runs
type Persister interface {
	Load() (*Session, error)
	Save(Session) error
	Delete() error
}

// FilePersister keeps the session as JSON in a single file readable only by
// the owner.
type FilePersister struct {
	Path string
}

// NewFilePersister creates a persister writing to path.
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{Path: path}
}

// DefaultPath is the session file under the user's config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(dir, "flightctl", "session.json"), nil
}

func (p *FilePersister) Load() (*Session, error) {
	data, err := os.ReadFile(p.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrCorruptSession, p.Path, err)
	}
	return &s, nil
}

func (p *FilePersister) Save(s Session) error {
	if err := os.MkdirAll(filepath.Dir(p.Path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	tmp := p.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, p.Path)
}

func (p *FilePersister) Delete() error {
	err := os.Remove(p.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
