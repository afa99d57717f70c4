package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debray/finkeep/internal/common"
	"github.com/debray/finkeep/internal/model"
)

func TestFormatForPath(t *testing.T) {
	cases := []struct {
		path   string
		format Format
	}{
		{"backup.json", FormatJSON},
		{"backup.JSON", FormatJSON},
		{"/tmp/backup.csv", FormatCSV},
		{"backup.xml", FormatXML},
	}
	for _, tc := range cases {
		format, err := FormatForPath(tc.path)
		require.NoError(t, err, tc.path)
		assert.Equal(t, tc.format, format, tc.path)
	}

	_, err := FormatForPath("backup.txt")
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
}

// seededStore fills a store with a few transactions, a built-in document,
// and a custom-category document for round-trip tests.
func seededStore(t *testing.T) *Store {
	t.Helper()
	store := newTestStore(t)
	mustAdd(t, store, model.KindIncome, "Salary", "2024-01-15", 2500, "january pay")
	mustAdd(t, store, model.KindExpense, "Food", "2024-01-20", 42.5, "dinner, with friends")

	_, err := store.AddDocument(model.CategoryAadhar, aadharFields(), aadharImages(t))
	require.NoError(t, err)

	require.NoError(t, store.RegisterCategory("passport", []string{"name", "number", "expiry"}))
	_, err = store.AddDocument("passport", map[string]string{
		"name": "Asha Rao", "number": "K1234567", "expiry": "2030-01-01",
	}, nil)
	require.NoError(t, err)
	return store
}

func TestJSONRoundTrip(t *testing.T) {
	t.Run("empty store", func(t *testing.T) {
		store := newTestStore(t)
		data, err := store.Serialize(FormatJSON)
		require.NoError(t, err)

		target := newTestStore(t)
		require.NoError(t, target.Deserialize(FormatJSON, data))
		assert.Empty(t, target.Transactions())
	})

	t.Run("full store", func(t *testing.T) {
		store := seededStore(t)
		data, err := store.Serialize(FormatJSON)
		require.NoError(t, err)

		target := newTestStore(t)
		require.NoError(t, target.Deserialize(FormatJSON, data))

		assert.Equal(t, store.Transactions(), target.Transactions())

		docs, err := target.Documents(model.CategoryAadhar)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "Asha Rao", docs[0].Field("name"))

		schema, ok := target.Schemas().Get("passport")
		require.True(t, ok)
		assert.Equal(t, []string{"name", "number", "expiry"}, schema.FieldNames())
	})

	t.Run("restore replaces existing contents", func(t *testing.T) {
		source := newTestStore(t)
		mustAdd(t, source, model.KindIncome, "Salary", "2024-01-15", 100, "pay")
		data, err := source.Serialize(FormatJSON)
		require.NoError(t, err)

		target := newTestStore(t)
		mustAdd(t, target, model.KindExpense, "Food", "2024-02-01", 5, "coffee")
		require.NoError(t, target.Deserialize(FormatJSON, data))

		got := target.Transactions()
		require.Len(t, got, 1)
		assert.Equal(t, "Salary", got[0].Category)
	})
}

func TestJSONMalformedInput(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not json", "notjson{"},
		{"missing transactions key", `{"documents": {}}`},
		{"missing documents key", `{"transactions": []}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newTestStore(t)
			mustAdd(t, store, model.KindIncome, "Salary", "2024-01-15", 100, "pay")

			err := store.Deserialize(FormatJSON, []byte(tc.data))
			assert.ErrorIs(t, err, common.ErrMalformedInput)
			assert.Len(t, store.Transactions(), 1)
		})
	}
}

func TestCSVRoundTrip(t *testing.T) {
	store := seededStore(t)
	data, err := store.Serialize(FormatCSV)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Type,Category,Date,Amount,Description\n"))

	target := newTestStore(t)
	require.NoError(t, target.Deserialize(FormatCSV, data))

	got := target.Transactions()
	require.Len(t, got, 2)
	assert.Equal(t, "Salary", got[0].Category)
	assert.Equal(t, 42.5, got[1].Amount)
	assert.Equal(t, "dinner, with friends", got[1].Description)
	for _, tx := range got {
		assert.NotEmpty(t, tx.ID)
	}

	// CSV carries no documents, so restoring from it leaves none behind.
	docs, err := target.Documents(model.CategoryAadhar)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestCSVMalformedInput(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"empty file", ""},
		{"wrong header", "Kind,Category,Date,Amount,Description\n"},
		{"bad amount", "Type,Category,Date,Amount,Description\nincome,Salary,2024-01-15,lots,pay\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newTestStore(t)
			mustAdd(t, store, model.KindIncome, "Salary", "2024-01-15", 100, "pay")

			err := store.Deserialize(FormatCSV, []byte(tc.data))
			assert.ErrorIs(t, err, common.ErrMalformedInput)
			assert.Len(t, store.Transactions(), 1)
		})
	}
}

func TestXMLRoundTrip(t *testing.T) {
	store := seededStore(t)
	data, err := store.Serialize(FormatXML)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<?xml"))

	target := newTestStore(t)
	require.NoError(t, target.Deserialize(FormatXML, data))

	assert.Equal(t, store.Transactions(), target.Transactions())

	docs, err := target.Documents(model.CategoryAadhar)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "123456789012", docs[0].Field("number"))
	assert.Equal(t, "front.png", docs[0].Field("front_image"))

	// The custom category's field order is carried by the element order.
	schema, ok := target.Schemas().Get("passport")
	require.True(t, ok)
	assert.Equal(t, []string{"name", "number", "expiry"}, schema.FieldNames())

	passports, err := target.Documents("passport")
	require.NoError(t, err)
	require.Len(t, passports, 1)
	assert.Equal(t, "K1234567", passports[0].Field("number"))
}

func TestXMLMalformedInput(t *testing.T) {
	store := newTestStore(t)
	mustAdd(t, store, model.KindIncome, "Salary", "2024-01-15", 100, "pay")

	err := store.Deserialize(FormatXML, []byte("<data><transactions>"))
	assert.ErrorIs(t, err, common.ErrMalformedInput)
	assert.Len(t, store.Transactions(), 1)
}

func TestBackupRestore(t *testing.T) {
	store := seededStore(t)
	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, store.Backup(path))
	assert.FileExists(t, path)

	target := newTestStore(t)
	require.NoError(t, target.Restore(path))
	assert.Equal(t, store.Transactions(), target.Transactions())

	t.Run("unsupported extension", func(t *testing.T) {
		assert.ErrorIs(t, store.Backup(filepath.Join(t.TempDir(), "backup.txt")), common.ErrUnsupportedFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		err := target.Restore(filepath.Join(t.TempDir(), "absent.json"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
