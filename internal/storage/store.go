// Package storage implements the record store: financial transactions and
// identity documents held in memory and persisted as a single JSON file,
// with CSV and XML codecs for backup and restore. The store assumes
// single-threaded, sequential access from one process; mutations rewrite the
// whole data file.
package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/debray/finkeep/internal/model"
)

const (
	dataFileName = "data.json"
	documentsDir = "documents"
)

// Store owns the transaction sequence and the per-category document lists.
type Store struct {
	dataPath     string
	documentsDir string
	transactions []model.Transaction
	documents    map[string][]model.Document
	schemas      *SchemaRegistry
}

// storeFile is the shape of the persisted JSON document. custom_schemas
// keeps user-defined category layouts across restarts; readers that only
// know the two spec'd keys can ignore it.
type storeFile struct {
	Transactions  []model.Transaction         `json:"transactions"`
	Documents     map[string][]model.Document `json:"documents"`
	CustomSchemas map[string][]string         `json:"custom_schemas,omitempty"`
}

// New opens the record store rooted at dataDir, creating the directory tree
// on first use. A missing data file is an empty store.
func New(dataDir string) (*Store, error) {
	docsDir := filepath.Join(dataDir, documentsDir)
	if err := os.MkdirAll(docsDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{
		dataPath:     filepath.Join(dataDir, dataFileName),
		documentsDir: docsDir,
		documents:    make(map[string][]model.Document),
		schemas:      NewSchemaRegistry(),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// DocumentsDir returns the managed directory holding image copies.
func (s *Store) DocumentsDir() string {
	return s.documentsDir
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.dataPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read data file: %w", err)
	}

	var file storeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse data file: %w", err)
	}
	s.apply(file)
	return nil
}

// apply swaps the in-memory state for the contents of a decoded file.
// Transactions written before stable identifiers existed get one assigned.
func (s *Store) apply(file storeFile) {
	for i := range file.Transactions {
		if file.Transactions[i].ID == "" {
			file.Transactions[i].ID = model.NewID()
		}
	}
	if file.Transactions == nil {
		file.Transactions = []model.Transaction{}
	}
	if file.Documents == nil {
		file.Documents = make(map[string][]model.Document)
	}

	registry := NewSchemaRegistry()
	for name, fields := range file.CustomSchemas {
		// Schemas in the file were validated when registered.
		_ = registry.Register(name, fields)
	}
	inferSchemas(registry, file.Documents)

	s.transactions = file.Transactions
	s.documents = file.Documents
	s.schemas = registry
}

func (s *Store) snapshot() storeFile {
	return storeFile{
		Transactions:  s.transactions,
		Documents:     s.documents,
		CustomSchemas: s.schemas.customFields(),
	}
}

// persist rewrites the whole data file via temp file + rename.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.snapshot(), "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}

	tmp := s.dataPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := os.Rename(tmp, s.dataPath); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}

// copyFile copies src into the documents directory, keeping the base name.
// The source file is left in place.
func (s *Store) copyFile(src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open image %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	name := filepath.Base(src)
	out, err := os.Create(filepath.Join(s.documentsDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create image copy: %w", err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return "", fmt.Errorf("failed to copy image: %w", err)
	}
	return name, nil
}
