package filesystem

import (
	"errors"
	"os"
	"path/filepath"
)

var (
	ErrFileNotFound = errors.New("filesystem: file not found")
	ErrInvalidPath  = errors.New("filesystem: invalid path")
	ErrNoRoot       = errors.New("filesystem: no root directory configured")
)

// Store is the read/write collaborator behind the /files routes. Names are
// resolved against a single root directory fixed at construction.
type Store interface {
	Open(name string) ([]byte, error)
	Create(name string, content []byte) error
}

type localStore struct {
	root string
}

// NewLocalStore returns a Store rooted at root. An empty root yields a
// store whose operations always fail with ErrNoRoot.
func NewLocalStore(root string) Store {
	return &localStore{root: root}
}

func (store *localStore) Open(name string) ([]byte, error) {
	path, err := store.resolve(name)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}

	return content, nil
}

// Create writes content verbatim, creating parent directories as needed.
// Concurrent creates to the same name are last-writer-wins.
func (store *localStore) Create(name string, content []byte) error {
	path, err := store.resolve(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0770); err != nil {
		return err
	}

	return os.WriteFile(path, content, 0644)
}

// resolve confines name to the root; "../" segments cannot escape it.
func (store *localStore) resolve(name string) (string, error) {
	if store.root == "" {
		return "", ErrNoRoot
	}
	if name == "" {
		return "", ErrInvalidPath
	}
	return filepath.Join(store.root, filepath.Clean("/"+name)), nil
}
