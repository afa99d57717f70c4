package storage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/debray/finkeep/internal/common"
	"github.com/debray/finkeep/internal/model"
)

// Format identifies a backup/restore serialization.
type Format string

// Supported formats. JSON round-trips the full store; CSV carries
// transactions only; XML carries transactions and documents.
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXML  Format = "xml"
)

// csvHeader is the fixed column order of the CSV export.
var csvHeader = []string{"Type", "Category", "Date", "Amount", "Description"}

// FormatForPath picks the serialization format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".xml":
		return FormatXML, nil
	default:
		return "", fmt.Errorf("cannot infer format from %q: %w", path, common.ErrUnsupportedFormat)
	}
}

// Serialize renders the store in the given format.
func (s *Store) Serialize(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(s.snapshot(), "", "    ")
	case FormatCSV:
		return s.serializeCSV()
	case FormatXML:
		return s.serializeXML()
	default:
		return nil, fmt.Errorf("format %q: %w", format, common.ErrUnsupportedFormat)
	}
}

// Deserialize replaces the store contents with the decoded data and
// persists. Decoding happens into fresh structures first; any failure
// returns ErrMalformedInput and leaves both memory and disk untouched.
func (s *Store) Deserialize(format Format, data []byte) error {
	var (
		file storeFile
		err  error
	)
	switch format {
	case FormatJSON:
		file, err = decodeJSON(data)
	case FormatCSV:
		file, err = decodeCSV(data)
	case FormatXML:
		file, err = decodeXML(data)
	default:
		return fmt.Errorf("format %q: %w", format, common.ErrUnsupportedFormat)
	}
	if err != nil {
		return err
	}

	prev := s.snapshot()
	s.apply(file)
	if err := s.persist(); err != nil {
		s.apply(prev)
		return err
	}
	return nil
}

// Backup serializes the store to path, choosing the format by extension.
func (s *Store) Backup(path string) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	data, err := s.Serialize(format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

// Restore replaces the store from the file at path, choosing the format by
// extension.
func (s *Store) Restore(path string) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	return s.Deserialize(format, data)
}

func decodeJSON(data []byte) (storeFile, error) {
	// The top-level keys are required even when empty; anything else in the
	// object is ignored.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return storeFile{}, fmt.Errorf("%w: %v", common.ErrMalformedInput, err)
	}
	if _, ok := raw["transactions"]; !ok {
		return storeFile{}, fmt.Errorf("missing transactions key: %w", common.ErrMalformedInput)
	}
	if _, ok := raw["documents"]; !ok {
		return storeFile{}, fmt.Errorf("missing documents key: %w", common.ErrMalformedInput)
	}

	var file storeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return storeFile{}, fmt.Errorf("%w: %v", common.ErrMalformedInput, err)
	}
	return file, nil
}

func (s *Store) serializeCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, t := range s.transactions {
		row := []string{string(t.Kind), t.Category, t.Date, formatAmount(t.Amount), t.Description}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeCSV parses a transactions-only backup. Documents do not survive a
// CSV round-trip; restoring from CSV yields a store with no documents.
func decodeCSV(data []byte) (storeFile, error) {
	r := csv.NewReader(bytes.NewReader(data))
	rows, err := r.ReadAll()
	if err != nil {
		return storeFile{}, fmt.Errorf("%w: %v", common.ErrMalformedInput, err)
	}
	if len(rows) == 0 || !slices.Equal(rows[0], csvHeader) {
		return storeFile{}, fmt.Errorf("missing CSV header: %w", common.ErrMalformedInput)
	}

	transactions := make([]model.Transaction, 0, len(rows)-1)
	for _, row := range rows[1:] {
		amount, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return storeFile{}, fmt.Errorf("bad amount %q: %w", row[3], common.ErrMalformedInput)
		}
		transactions = append(transactions, model.Transaction{
			Kind:        model.TransactionKind(row[0]),
			Category:    row[1],
			Date:        row[2],
			Amount:      amount,
			Description: row[4],
		})
	}
	return storeFile{Transactions: transactions}, nil
}

// XML layout: <data> holds <transactions> and <documents>; every record
// field becomes a named child element, and each document category is a
// grouping element named after the category.
type xmlData struct {
	XMLName      xml.Name        `xml:"data"`
	Transactions xmlTransactions `xml:"transactions"`
	Documents    xmlDocuments    `xml:"documents"`
}

type xmlTransactions struct {
	Items []xmlEntry `xml:"transaction"`
}

type xmlDocuments struct {
	Categories []xmlCategory `xml:",any"`
}

type xmlCategory struct {
	XMLName xml.Name
	Items   []xmlEntry `xml:"document"`
}

type xmlEntry struct {
	Fields []xmlField `xml:",any"`
}

type xmlField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

func field(name, value string) xmlField {
	return xmlField{XMLName: xml.Name{Local: name}, Value: value}
}

func (s *Store) serializeXML() ([]byte, error) {
	doc := xmlData{}
	for _, t := range s.transactions {
		doc.Transactions.Items = append(doc.Transactions.Items, xmlEntry{Fields: []xmlField{
			field("type", string(t.Kind)),
			field("category", t.Category),
			field("date", t.Date),
			field("amount", formatAmount(t.Amount)),
			field("description", t.Description),
			field("id", t.ID),
		}})
	}

	for _, category := range s.schemas.Categories() {
		records := s.documents[category]
		if len(records) == 0 {
			continue
		}
		schema, _ := s.schemas.Get(category)
		group := xmlCategory{XMLName: xml.Name{Local: category}}
		for _, record := range records {
			entry := xmlEntry{}
			for _, name := range append(schema.FieldNames(), schema.Images...) {
				entry.Fields = append(entry.Fields, field(name, record.Field(name)))
			}
			entry.Fields = append(entry.Fields, field("id", record.ID))
			group.Items = append(group.Items, entry)
		}
		doc.Documents.Categories = append(doc.Documents.Categories, group)
	}

	out, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode XML: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

func decodeXML(data []byte) (storeFile, error) {
	var doc xmlData
	if err := xml.Unmarshal(data, &doc); err != nil {
		return storeFile{}, fmt.Errorf("%w: %v", common.ErrMalformedInput, err)
	}

	file := storeFile{Documents: make(map[string][]model.Document)}
	for _, entry := range doc.Transactions.Items {
		fields := entry.fieldMap()
		amount, err := strconv.ParseFloat(fields["amount"], 64)
		if err != nil {
			return storeFile{}, fmt.Errorf("bad amount %q: %w", fields["amount"], common.ErrMalformedInput)
		}
		file.Transactions = append(file.Transactions, model.Transaction{
			ID:          fields["id"],
			Kind:        model.TransactionKind(fields["type"]),
			Category:    fields["category"],
			Date:        fields["date"],
			Amount:      amount,
			Description: fields["description"],
		})
	}

	builtin := make(map[string]bool)
	for _, schema := range model.BuiltinSchemas() {
		builtin[schema.Name] = true
	}
	for _, group := range doc.Documents.Categories {
		category := group.XMLName.Local
		for _, entry := range group.Items {
			fields := entry.fieldMap()
			id := fields["id"]
			delete(fields, "id")
			file.Documents[category] = append(file.Documents[category], model.Document{ID: id, Fields: fields})
		}
		// A custom category's field order is recoverable from the element
		// order of its first document.
		if !builtin[category] && len(group.Items) > 0 {
			var order []string
			for _, f := range group.Items[0].Fields {
				if f.XMLName.Local != "id" {
					order = append(order, f.XMLName.Local)
				}
			}
			if file.CustomSchemas == nil {
				file.CustomSchemas = make(map[string][]string)
			}
			file.CustomSchemas[category] = order
		}
	}
	return file, nil
}

func (e xmlEntry) fieldMap() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.XMLName.Local] = f.Value
	}
	return out
}

// inferSchemas registers categories that appear in imported documents but
// have no stored schema, so lookups keep working after a restore from a file
// written by an older version. Field order falls back to sorted names.
func inferSchemas(registry *SchemaRegistry, documents map[string][]model.Document) {
	for category, docs := range documents {
		if _, ok := registry.Get(category); ok || len(docs) == 0 {
			continue
		}
		names := make([]string, 0, len(docs[0].Fields))
		for name := range docs[0].Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		_ = registry.Register(category, names)
	}
}
