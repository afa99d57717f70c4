package storage

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/debray/finkeep/internal/common"
	"github.com/debray/finkeep/internal/model"
)

// Category and field names become XML element names on export, so they are
// restricted to identifier characters.
var categoryNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// SchemaRegistry maps category names to their document schemas: the five
// built-in categories plus any user-defined ones.
type SchemaRegistry struct {
	schemas map[string]model.Schema
	order   []string
}

// NewSchemaRegistry returns a registry seeded with the built-in categories.
func NewSchemaRegistry() *SchemaRegistry {
	r := &SchemaRegistry{schemas: make(map[string]model.Schema)}
	for _, schema := range model.BuiltinSchemas() {
		r.schemas[schema.Name] = schema
		r.order = append(r.order, schema.Name)
	}
	return r
}

// Register adds a user-defined category. Every field is required and stored
// as an opaque string; custom categories carry no image attachments.
func (r *SchemaRegistry) Register(name string, fields []string) error {
	if _, exists := r.schemas[name]; exists {
		return fmt.Errorf("category %q: %w", name, common.ErrDuplicateCategory)
	}
	if !categoryNameRe.MatchString(name) {
		return fmt.Errorf("category name %q must be an identifier: %w", name, common.ErrInvalidFormat)
	}
	if len(fields) == 0 {
		return fmt.Errorf("at least one field is required: %w", common.ErrMissingField)
	}

	specs := make([]model.FieldSpec, 0, len(fields))
	seen := make(map[string]bool)
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if !categoryNameRe.MatchString(field) {
			return fmt.Errorf("field name %q must be an identifier: %w", field, common.ErrInvalidFormat)
		}
		if seen[field] {
			return fmt.Errorf("field %q listed twice: %w", field, common.ErrInvalidFormat)
		}
		seen[field] = true
		specs = append(specs, model.FieldSpec{Name: field, Label: field})
	}

	r.schemas[name] = model.Schema{Name: name, Fields: specs}
	r.order = append(r.order, name)
	return nil
}

// Get returns the schema for a category.
func (r *SchemaRegistry) Get(name string) (model.Schema, bool) {
	schema, ok := r.schemas[name]
	return schema, ok
}

// MustGet returns the schema for a category known to exist; absent
// categories yield a zero schema.
func (r *SchemaRegistry) MustGet(name string) model.Schema {
	return r.schemas[name]
}

// Categories returns all category names: built-ins in display order, then
// custom categories in registration order.
func (r *SchemaRegistry) Categories() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// customFields returns the user-defined schemas as name -> ordered fields,
// the shape persisted in the data file.
func (r *SchemaRegistry) customFields() map[string][]string {
	out := make(map[string][]string)
	for _, name := range r.order {
		schema := r.schemas[name]
		if schema.Builtin {
			continue
		}
		out[name] = schema.FieldNames()
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Schemas exposes the registry for category listings and export layout.
func (s *Store) Schemas() *SchemaRegistry {
	return s.schemas
}

// RegisterCategory adds a user-defined document category and persists the
// schema alongside the data.
func (s *Store) RegisterCategory(name string, fields []string) error {
	if err := s.schemas.Register(name, fields); err != nil {
		return err
	}
	if err := s.persist(); err != nil {
		s.schemas.remove(name)
		return err
	}
	return nil
}

func (r *SchemaRegistry) remove(name string) {
	delete(r.schemas, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}

// AddDocument validates fields against the category schema, copies each
// referenced image into the managed documents directory, appends the record,
// and persists. Only the base filename of each image copy is stored; source
// files are never moved or deleted. Documents are add-only: there is no edit
// or delete operation.
func (s *Store) AddDocument(category string, fields map[string]string, images map[string]string) (model.Document, error) {
	schema, ok := s.schemas.Get(category)
	if !ok {
		return model.Document{}, fmt.Errorf("category %q: %w", category, common.ErrUnknownCategory)
	}

	if builtin, err := model.ValidateBuiltin(category, fields); builtin {
		if err != nil {
			return model.Document{}, err
		}
	} else {
		for _, spec := range schema.Fields {
			if fields[spec.Name] == "" {
				return model.Document{}, fmt.Errorf("field %q is required: %w", spec.Name, common.ErrMissingField)
			}
		}
	}
	for _, image := range schema.Images {
		if images[image] == "" {
			return model.Document{}, fmt.Errorf("image %q is required: %w", image, common.ErrMissingField)
		}
	}

	record := make(map[string]string, len(schema.Fields)+len(schema.Images))
	for _, spec := range schema.Fields {
		record[spec.Name] = fields[spec.Name]
	}
	for _, image := range schema.Images {
		name, err := s.copyFile(images[image])
		if err != nil {
			return model.Document{}, err
		}
		record[image] = name
	}

	doc := model.Document{ID: model.NewID(), Fields: record}
	s.documents[category] = append(s.documents[category], doc)
	if err := s.persist(); err != nil {
		docs := s.documents[category]
		s.documents[category] = docs[:len(docs)-1]
		return model.Document{}, err
	}
	return doc, nil
}

// Documents returns a copy of the stored records for a category.
func (s *Store) Documents(category string) ([]model.Document, error) {
	if _, ok := s.schemas.Get(category); !ok {
		return nil, fmt.Errorf("category %q: %w", category, common.ErrUnknownCategory)
	}
	docs := s.documents[category]
	out := make([]model.Document, len(docs))
	copy(out, docs)
	return out, nil
}

// SearchDocuments returns the category's records with any field value
// containing keyword, case-insensitively.
func (s *Store) SearchDocuments(category, keyword string) ([]model.Document, error) {
	if _, ok := s.schemas.Get(category); !ok {
		return nil, fmt.Errorf("category %q: %w", category, common.ErrUnknownCategory)
	}

	keyword = strings.ToLower(keyword)
	var out []model.Document
	for _, doc := range s.documents[category] {
		if keyword == "" || documentMatches(doc, keyword) {
			out = append(out, doc)
		}
	}
	return out, nil
}

// SearchAll runs the keyword across transactions and every document
// category, the global search the app's header exposes. Keys of the
// document map are category names.
func (s *Store) SearchAll(keyword string) ([]model.Transaction, map[string][]model.Document) {
	docs := make(map[string][]model.Document)
	for _, category := range s.schemas.Categories() {
		matches, err := s.SearchDocuments(category, keyword)
		if err == nil && len(matches) > 0 {
			docs[category] = matches
		}
	}
	return s.Search(keyword), docs
}

func documentMatches(doc model.Document, keyword string) bool {
	for _, value := range doc.Fields {
		if strings.Contains(strings.ToLower(value), keyword) {
			return true
		}
	}
	return false
}
