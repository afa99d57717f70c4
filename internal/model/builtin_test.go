package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debray/finkeep/internal/common"
)

func TestAadharCardValidate(t *testing.T) {
	valid := AadharCard{Name: "Asha Rao", Number: "123456789012", DOB: "1990-04-12", Address: "12 Lake Road"}
	assert.NoError(t, valid.Validate())

	t.Run("number length", func(t *testing.T) {
		for _, number := range []string{"12345", "1234567890123", "12345678901a", ""} {
			card := valid
			card.Number = number
			assert.Error(t, card.Validate(), number)
		}
	})

	t.Run("missing field", func(t *testing.T) {
		card := valid
		card.Address = ""
		assert.ErrorIs(t, card.Validate(), common.ErrMissingField)
	})
}

func TestPANCardValidate(t *testing.T) {
	valid := PANCard{Name: "Asha Rao", Number: "ABCDE1234F", DOB: "1990-04-12", Address: "12 Lake Road"}
	assert.NoError(t, valid.Validate())

	for _, number := range []string{"abcde1234f", "ABCDE12345", "ABCD1234FG", "ABCDE1234FX"} {
		card := valid
		card.Number = number
		assert.ErrorIs(t, card.Validate(), common.ErrInvalidFormat, number)
	}
}

func TestBankAccountValidate(t *testing.T) {
	valid := BankAccount{
		Name: "State Bank", AccountNumber: "00112233", IFSC: "SBIN0001234",
		Branch: "Main", Address: "1 Bank St",
	}
	assert.NoError(t, valid.Validate())

	t.Run("lowercase bank code accepted", func(t *testing.T) {
		account := valid
		account.IFSC = "sbin0001234"
		assert.NoError(t, account.Validate())
	})

	t.Run("fifth character must be zero", func(t *testing.T) {
		account := valid
		account.IFSC = "SBIN1001234"
		assert.ErrorIs(t, account.Validate(), common.ErrInvalidFormat)
	})
}

func TestValidateBuiltin(t *testing.T) {
	t.Run("routes builtin categories", func(t *testing.T) {
		builtin, err := ValidateBuiltin(CategoryDrivingLicense, map[string]string{
			"name": "Asha Rao", "number": "DL-0420110012345", "dob": "1990-04-12", "address": "12 Lake Road",
		})
		assert.True(t, builtin)
		assert.NoError(t, err)
	})

	t.Run("certificate needs all fields", func(t *testing.T) {
		builtin, err := ValidateBuiltin(CategoryCertificate, map[string]string{"name": "BSc"})
		assert.True(t, builtin)
		assert.ErrorIs(t, err, common.ErrMissingField)
	})

	t.Run("custom categories fall through", func(t *testing.T) {
		builtin, err := ValidateBuiltin("passport", map[string]string{})
		assert.False(t, builtin)
		assert.NoError(t, err)
	})
}

func TestBuiltinSchemas(t *testing.T) {
	schemas := BuiltinSchemas()
	require.Len(t, schemas, 5)

	byName := make(map[string]Schema)
	for _, schema := range schemas {
		assert.True(t, schema.Builtin)
		byName[schema.Name] = schema
	}
	assert.Equal(t, []string{"front_image", "back_image"}, byName[CategoryAadhar].Images)
	assert.Equal(t, []string{"passbook_image"}, byName[CategoryBankAccount].Images)
	assert.Equal(t,
		[]string{"name", "account_number", "ifsc", "branch", "address"},
		byName[CategoryBankAccount].FieldNames())
}

func TestCategoriesFor(t *testing.T) {
	assert.Contains(t, CategoriesFor(KindIncome), "Salary")
	assert.Contains(t, CategoriesFor(KindExpense), "Food")
	assert.Empty(t, CategoriesFor("transfer"))

	assert.True(t, ValidKind(KindIncome))
	assert.False(t, ValidKind("transfer"))
	assert.True(t, ValidCategory(KindExpense, "Food"))
	assert.False(t, ValidCategory(KindIncome, "Food"))
}
