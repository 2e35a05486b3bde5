package repository

import (
	"context"
	"errors"
	"path"

	"github.com/noah-isme/hurricane-api/pkg/storage"
)

type blobStorage interface {
	Save(filename string, data []byte) error
	Read(filename string) ([]byte, error)
	Delete(filename string) error
}

// FileStore writes one JSON document per key. A namespaced key "ns:name"
// lives at ns/name.json.
type FileStore struct {
	files blobStorage
}

// NewFileStore constructs a file-backed store.
func NewFileStore(files blobStorage) *FileStore {
	return &FileStore{files: files}
}

func (s *FileStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	data, err := s.files.Read(fileName(key))
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (s *FileStore) Save(_ context.Context, key string, value []byte) error {
	return s.files.Save(fileName(key), value)
}

func (s *FileStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		if err := s.files.Delete(fileName(key)); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileStore) Ping(context.Context) error { return nil }

func (s *FileStore) Name() string { return "file" }

func fileName(key string) string {
	ns, name := splitKey(key)
	if ns == "" {
		return name + ".json"
	}
	return path.Join(ns, name+".json")
}
