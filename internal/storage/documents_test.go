package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debray/finkeep/internal/common"
	"github.com/debray/finkeep/internal/model"
)

// writeImage creates a throwaway source image outside the store's managed
// directory.
func writeImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("not really a png"), 0o600))
	return path
}

func aadharFields() map[string]string {
	return map[string]string{
		"name":    "Asha Rao",
		"number":  "123456789012",
		"dob":     "1990-04-12",
		"address": "12 Lake Road",
	}
}

func aadharImages(t *testing.T) map[string]string {
	t.Helper()
	return map[string]string{
		"front_image": writeImage(t, "front.png"),
		"back_image":  writeImage(t, "back.png"),
	}
}

func TestAddDocument(t *testing.T) {
	t.Run("valid aadhar record", func(t *testing.T) {
		store := newTestStore(t)

		doc, err := store.AddDocument(model.CategoryAadhar, aadharFields(), aadharImages(t))
		require.NoError(t, err)
		assert.NotEmpty(t, doc.ID)
		assert.Equal(t, "Asha Rao", doc.Field("name"))

		docs, err := store.Documents(model.CategoryAadhar)
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})

	t.Run("aadhar number must be 12 digits", func(t *testing.T) {
		store := newTestStore(t)

		fields := aadharFields()
		fields["number"] = "12345"
		_, err := store.AddDocument(model.CategoryAadhar, fields, aadharImages(t))
		assert.ErrorIs(t, err, common.ErrInvalidFormat)

		docs, err := store.Documents(model.CategoryAadhar)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("missing field rejected", func(t *testing.T) {
		store := newTestStore(t)

		fields := aadharFields()
		fields["address"] = ""
		_, err := store.AddDocument(model.CategoryAadhar, fields, aadharImages(t))
		assert.ErrorIs(t, err, common.ErrMissingField)
	})

	t.Run("missing image rejected", func(t *testing.T) {
		store := newTestStore(t)

		images := map[string]string{"front_image": writeImage(t, "front.png")}
		_, err := store.AddDocument(model.CategoryAadhar, aadharFields(), images)
		assert.ErrorIs(t, err, common.ErrMissingField)
	})

	t.Run("pan number format", func(t *testing.T) {
		store := newTestStore(t)

		fields := map[string]string{
			"name": "Asha Rao", "number": "ABCDE1234F", "dob": "1990-04-12", "address": "12 Lake Road",
		}
		images := map[string]string{"front_image": writeImage(t, "pan.png")}
		_, err := store.AddDocument(model.CategoryPAN, fields, images)
		assert.NoError(t, err)

		fields["number"] = "1234ABCDEF"
		_, err = store.AddDocument(model.CategoryPAN, fields, map[string]string{"front_image": writeImage(t, "pan2.png")})
		assert.ErrorIs(t, err, common.ErrInvalidFormat)
	})

	t.Run("bank account IFSC format", func(t *testing.T) {
		store := newTestStore(t)

		fields := map[string]string{
			"name": "State Bank", "account_number": "00112233", "ifsc": "SBIN0001234",
			"branch": "Main", "address": "1 Bank St",
		}
		images := map[string]string{"passbook_image": writeImage(t, "passbook.png")}
		_, err := store.AddDocument(model.CategoryBankAccount, fields, images)
		assert.NoError(t, err)

		fields["ifsc"] = "SB1N0001234"
		_, err = store.AddDocument(model.CategoryBankAccount, fields, map[string]string{"passbook_image": writeImage(t, "pb2.png")})
		assert.ErrorIs(t, err, common.ErrInvalidFormat)
	})

	t.Run("unknown category", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.AddDocument("passport", map[string]string{"name": "x"}, nil)
		assert.ErrorIs(t, err, common.ErrUnknownCategory)
	})
}

func TestImageCopy(t *testing.T) {
	store := newTestStore(t)

	source := writeImage(t, "front.png")
	images := map[string]string{"front_image": source, "back_image": writeImage(t, "back.png")}

	doc, err := store.AddDocument(model.CategoryAadhar, aadharFields(), images)
	require.NoError(t, err)

	// Only the base name is stored, the copy lives in the managed
	// directory, and the source file stays put.
	assert.Equal(t, "front.png", doc.Field("front_image"))
	assert.FileExists(t, filepath.Join(store.DocumentsDir(), "front.png"))
	assert.FileExists(t, source)
}

func TestCustomCategories(t *testing.T) {
	t.Run("register and add", func(t *testing.T) {
		store := newTestStore(t)

		require.NoError(t, store.RegisterCategory("passport", []string{"name", "number", "expiry"}))

		doc, err := store.AddDocument("passport", map[string]string{
			"name": "Asha Rao", "number": "K1234567", "expiry": "2030-01-01",
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "K1234567", doc.Field("number"))
	})

	t.Run("every field is required", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.RegisterCategory("passport", []string{"name", "number"}))

		_, err := store.AddDocument("passport", map[string]string{"name": "Asha Rao"}, nil)
		assert.ErrorIs(t, err, common.ErrMissingField)
	})

	t.Run("duplicate category rejected", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.RegisterCategory("passport", []string{"name"}))

		err := store.RegisterCategory("passport", []string{"number"})
		assert.ErrorIs(t, err, common.ErrDuplicateCategory)
	})

	t.Run("built-in name cannot be reused", func(t *testing.T) {
		store := newTestStore(t)

		err := store.RegisterCategory(model.CategoryAadhar, []string{"name"})
		assert.ErrorIs(t, err, common.ErrDuplicateCategory)
	})

	t.Run("category name must be an identifier", func(t *testing.T) {
		store := newTestStore(t)

		err := store.RegisterCategory("my documents", []string{"name"})
		assert.ErrorIs(t, err, common.ErrInvalidFormat)
	})

	t.Run("custom schema survives reopen", func(t *testing.T) {
		dir := t.TempDir()
		store, err := New(dir)
		require.NoError(t, err)
		require.NoError(t, store.RegisterCategory("passport", []string{"name", "number"}))

		reopened, err := New(dir)
		require.NoError(t, err)
		schema, ok := reopened.Schemas().Get("passport")
		require.True(t, ok)
		assert.Equal(t, []string{"name", "number"}, schema.FieldNames())
	})
}

func TestSearchDocuments(t *testing.T) {
	store := newTestStore(t)
	_, err := store.AddDocument(model.CategoryAadhar, aadharFields(), aadharImages(t))
	require.NoError(t, err)

	other := aadharFields()
	other["name"] = "Vikram Shah"
	other["number"] = "999988887777"
	_, err = store.AddDocument(model.CategoryAadhar, other, aadharImages(t))
	require.NoError(t, err)

	t.Run("case-insensitive match on any field", func(t *testing.T) {
		got, err := store.SearchDocuments(model.CategoryAadhar, "ASHA")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Asha Rao", got[0].Field("name"))
	})

	t.Run("number match", func(t *testing.T) {
		got, err := store.SearchDocuments(model.CategoryAadhar, "9999")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("empty keyword returns all", func(t *testing.T) {
		got, err := store.SearchDocuments(model.CategoryAadhar, "")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := store.SearchDocuments("passport", "x")
		assert.ErrorIs(t, err, common.ErrUnknownCategory)
	})
}

func TestSearchAll(t *testing.T) {
	store := newTestStore(t)
	mustAdd(t, store, model.KindExpense, "Food", "2024-03-01", 20, "market trip")
	_, err := store.AddDocument(model.CategoryAadhar, aadharFields(), aadharImages(t))
	require.NoError(t, err)

	transactions, documents := store.SearchAll("asha")
	assert.Empty(t, transactions)
	assert.Len(t, documents[model.CategoryAadhar], 1)

	transactions, documents = store.SearchAll("market")
	assert.Len(t, transactions, 1)
	assert.Empty(t, documents)
}
