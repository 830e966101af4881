package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/NMHx2005/lms-frontend-sub000/internal/errors"
	"gopkg.in/yaml.v3"
)

var _ Store = (*FileStore)(nil)

// FileStore persists the session as a small YAML document so it survives
// restarts of the CLI. With a passphrase the document is sealed at rest.
type FileStore struct {
	path       string
	passphrase string
	lock       sync.Mutex
}

type FileStoreOption func(*FileStore)

// WithPassphrase seals the file contents with a key derived from passphrase.
func WithPassphrase(passphrase string) FileStoreOption {
	return func(f *FileStore) {
		f.passphrase = passphrase
	}
}

func NewFileStore(path string, opts ...FileStoreOption) *FileStore {
	f := &FileStore{path: path}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// fileLayout is the on-disk document. Either the plain fields or Sealed is set.
type fileLayout struct {
	AccessToken  string     `yaml:"accessToken,omitempty"`
	RefreshToken string     `yaml:"refreshToken,omitempty"`
	Sealed       *sealedBox `yaml:"sealed,omitempty"`
}

func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Get(_ context.Context, key Key) (string, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	values, err := f.load()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

func (f *FileStore) Set(_ context.Context, key Key, value string) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value
	return f.save(values)
}

func (f *FileStore) Clear(_ context.Context, keys ...Key) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(values, k)
	}
	if len(values) == 0 {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove session file: %w", err)
		}
		return nil
	}
	return f.save(values)
}

func (f *FileStore) load() (map[Key]string, error) {
	values := make(map[Key]string)

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var layout fileLayout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("parse session file %s: %w", f.path, err)
	}

	if layout.Sealed != nil {
		if f.passphrase == "" {
			return nil, apperrors.Wrapf(apperrors.ErrWrongPassphrase, "session file %s is sealed", f.path)
		}
		plain, err := openBox(f.passphrase, layout.Sealed)
		if err != nil {
			return nil, err
		}
		layout = fileLayout{}
		if err := yaml.Unmarshal(plain, &layout); err != nil {
			return nil, fmt.Errorf("parse sealed session: %w", err)
		}
	}

	if layout.AccessToken != "" {
		values[KeyAccessToken] = layout.AccessToken
	}
	if layout.RefreshToken != "" {
		values[KeyRefreshToken] = layout.RefreshToken
	}
	return values, nil
}

func (f *FileStore) save(values map[Key]string) error {
	layout := fileLayout{
		AccessToken:  values[KeyAccessToken],
		RefreshToken: values[KeyRefreshToken],
	}
	data, err := yaml.Marshal(layout)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if f.passphrase != "" {
		box, err := sealBox(f.passphrase, data)
		if err != nil {
			return err
		}
		if data, err = yaml.Marshal(fileLayout{Sealed: box}); err != nil {
			return fmt.Errorf("encode sealed session: %w", err)
		}
	}

	return writeFileAtomic(f.path, data)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
