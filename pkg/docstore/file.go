package docstore

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mapscript/mapscript/pkg/errors"
)

// mapExt is the file extension for stored documents.
const mapExt = ".map"

// FileStore keeps documents as plain .map files in a directory, so stored
// diagrams stay editable with any text editor.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir. An empty dir uses
// ~/.config/mapscript/documents.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "resolve home directory")
		}
		dir = filepath.Join(home, ".config", "mapscript", "documents")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create document directory")
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the document's source to <name>.map.
func (s *FileStore) Save(ctx context.Context, doc Document) error {
	if err := validate(doc.Name); err != nil {
		return err
	}
	if err := os.WriteFile(s.path(doc.Name), []byte(doc.Source), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write document %q", doc.Name)
	}
	return nil
}

// Load reads <name>.map.
func (s *FileStore) Load(ctx context.Context, name string) (Document, error) {
	if err := validate(name); err != nil {
		return Document{}, err
	}
	path := s.path(name)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Document{}, errors.New(errors.ErrCodeNotFound, "document %q not found", name)
	}
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeStorage, err, "read document %q", name)
	}

	doc := Document{Name: name, Source: string(data)}
	if info, err := os.Stat(path); err == nil {
		doc.UpdatedAt = info.ModTime()
	}
	return doc, nil
}

// List returns the stored documents sorted by name.
func (s *FileStore) List(ctx context.Context) ([]Document, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list documents")
	}

	var docs []Document
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), mapExt) {
			continue
		}
		doc := Document{Name: strings.TrimSuffix(e.Name(), mapExt)}
		if info, err := e.Info(); err == nil {
			doc.UpdatedAt = info.ModTime()
		}
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

// Delete removes <name>.map. Deleting an absent document is not an error.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := validate(name); err != nil {
		return err
	}
	err := os.Remove(s.path(name))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete document %q", name)
	}
	return nil
}

// Close does nothing for the file store.
func (s *FileStore) Close(ctx context.Context) error {
	return nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+mapExt)
}

var _ Store = (*FileStore)(nil)
