// Package docstore persists named MapScript documents.
//
// The edit server saves and loads working documents by name; the CLI can do
// the same for diagrams you want to keep outside a repository. Two backends
// are provided:
//
//   - file: a directory of .map files, used by the CLI
//   - mongo: a MongoDB collection, used by a multi-user edit server
//
// # Usage
//
//	store, err := docstore.NewFileStore("")  // Uses ~/.config/mapscript/documents/
//	if err != nil {
//	    return err
//	}
//	defer store.Close(ctx)
//
//	err = store.Save(ctx, docstore.Document{Name: "infra", Source: text})
//	doc, err := store.Load(ctx, "infra")
package docstore

import (
	"context"
	"time"

	"github.com/mapscript/mapscript/pkg/errors"
)

// Document is a named MapScript source text.
type Document struct {
	Name      string    `json:"name" bson:"_id"`
	Source    string    `json:"source" bson:"source"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for document storage backends.
type Store interface {
	// Save stores a document, overwriting any existing document with the
	// same name. UpdatedAt is set by the store.
	Save(ctx context.Context, doc Document) error

	// Load retrieves a document by name. A missing document is reported
	// with errors.ErrCodeNotFound.
	Load(ctx context.Context, name string) (Document, error)

	// List returns all stored documents sorted by name, with Source left
	// empty.
	List(ctx context.Context) ([]Document, error)

	// Delete removes a document. Deleting an absent document is not an
	// error.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// validate rejects unusable document names before they reach a backend.
func validate(name string) error {
	return errors.ValidateDocumentName(name)
}
