package model

import (
	"fmt"
	"regexp"

	"github.com/debray/finkeep/internal/common"
)

// Built-in document categories. Their keys double as the grouping keys in
// the persisted JSON file and the XML export.
const (
	CategoryAadhar         = "aadhar"
	CategoryPAN            = "pan"
	CategoryBankAccount    = "bank_accounts"
	CategoryDrivingLicense = "driving_license"
	CategoryCertificate    = "certificates"
)

var (
	aadharNumberRe = regexp.MustCompile(`^[0-9]{12}$`)
	panNumberRe    = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	ifscCodeRe     = regexp.MustCompile(`^[A-Za-z]{4}0[A-Z0-9]{6}$`)
)

// AadharCard is the typed record behind the "aadhar" category.
type AadharCard struct {
	Name    string
	Number  string
	DOB     string
	Address string
}

// Validate checks required fields and the 12-digit number format.
func (c AadharCard) Validate() error {
	if err := requireFields(map[string]string{
		"name": c.Name, "number": c.Number, "dob": c.DOB, "address": c.Address,
	}); err != nil {
		return err
	}
	if !aadharNumberRe.MatchString(c.Number) {
		return fmt.Errorf("aadhar number must be exactly 12 digits: %w", common.ErrInvalidFormat)
	}
	return nil
}

// PANCard is the typed record behind the "pan" category.
type PANCard struct {
	Name    string
	Number  string
	DOB     string
	Address string
}

// Validate checks required fields and the AAAAA9999A number format.
func (c PANCard) Validate() error {
	if err := requireFields(map[string]string{
		"name": c.Name, "number": c.Number, "dob": c.DOB, "address": c.Address,
	}); err != nil {
		return err
	}
	if !panNumberRe.MatchString(c.Number) {
		return fmt.Errorf("PAN number must match AAAAA9999A: %w", common.ErrInvalidFormat)
	}
	return nil
}

// BankAccount is the typed record behind the "bank_accounts" category.
type BankAccount struct {
	Name          string
	AccountNumber string
	IFSC          string
	Branch        string
	Address       string
}

// Validate checks required fields and the 11-character IFSC format.
func (c BankAccount) Validate() error {
	if err := requireFields(map[string]string{
		"name": c.Name, "account_number": c.AccountNumber, "ifsc": c.IFSC,
		"branch": c.Branch, "address": c.Address,
	}); err != nil {
		return err
	}
	if !ifscCodeRe.MatchString(c.IFSC) {
		return fmt.Errorf("IFSC code must be 11 characters (AAAA0XXXXXX): %w", common.ErrInvalidFormat)
	}
	return nil
}

// DrivingLicense is the typed record behind the "driving_license" category.
// License numbers vary by issuing state, so only presence is checked.
type DrivingLicense struct {
	Name    string
	Number  string
	DOB     string
	Address string
}

// Validate checks that all fields are present.
func (c DrivingLicense) Validate() error {
	return requireFields(map[string]string{
		"name": c.Name, "number": c.Number, "dob": c.DOB, "address": c.Address,
	})
}

// Certificate is the typed record behind the "certificates" category.
type Certificate struct {
	Name        string
	Issuer      string
	Date        string
	Description string
}

// Validate checks that all fields are present.
func (c Certificate) Validate() error {
	return requireFields(map[string]string{
		"name": c.Name, "issuer": c.Issuer, "date": c.Date, "description": c.Description,
	})
}

func requireFields(fields map[string]string) error {
	for name, value := range fields {
		if value == "" {
			return fmt.Errorf("field %q is required: %w", name, common.ErrMissingField)
		}
	}
	return nil
}

// ValidateBuiltin routes a generic field map through the typed record for
// the given built-in category. It reports false when the category is not a
// built-in one.
func ValidateBuiltin(category string, fields map[string]string) (bool, error) {
	switch category {
	case CategoryAadhar:
		return true, AadharCard{
			Name: fields["name"], Number: fields["number"],
			DOB: fields["dob"], Address: fields["address"],
		}.Validate()
	case CategoryPAN:
		return true, PANCard{
			Name: fields["name"], Number: fields["number"],
			DOB: fields["dob"], Address: fields["address"],
		}.Validate()
	case CategoryBankAccount:
		return true, BankAccount{
			Name: fields["name"], AccountNumber: fields["account_number"],
			IFSC: fields["ifsc"], Branch: fields["branch"], Address: fields["address"],
		}.Validate()
	case CategoryDrivingLicense:
		return true, DrivingLicense{
			Name: fields["name"], Number: fields["number"],
			DOB: fields["dob"], Address: fields["address"],
		}.Validate()
	case CategoryCertificate:
		return true, Certificate{
			Name: fields["name"], Issuer: fields["issuer"],
			Date: fields["date"], Description: fields["description"],
		}.Validate()
	}
	return false, nil
}

// BuiltinSchemas returns the five fixed document schemas in display order.
func BuiltinSchemas() []Schema {
	return []Schema{
		{
			Name:    CategoryAadhar,
			Builtin: true,
			Fields: []FieldSpec{
				{Name: "name", Label: "Full Name"},
				{Name: "number", Label: "Aadhar Number"},
				{Name: "dob", Label: "Date of Birth"},
				{Name: "address", Label: "Address"},
			},
			Images: []string{"front_image", "back_image"},
		},
		{
			Name:    CategoryPAN,
			Builtin: true,
			Fields: []FieldSpec{
				{Name: "name", Label: "Full Name"},
				{Name: "number", Label: "PAN Number"},
				{Name: "dob", Label: "Date of Birth"},
				{Name: "address", Label: "Address"},
			},
			Images: []string{"front_image"},
		},
		{
			Name:    CategoryBankAccount,
			Builtin: true,
			Fields: []FieldSpec{
				{Name: "name", Label: "Bank Name"},
				{Name: "account_number", Label: "Account Number"},
				{Name: "ifsc", Label: "IFSC Code"},
				{Name: "branch", Label: "Branch Name"},
				{Name: "address", Label: "Address"},
			},
			Images: []string{"passbook_image"},
		},
		{
			Name:    CategoryDrivingLicense,
			Builtin: true,
			Fields: []FieldSpec{
				{Name: "name", Label: "Full Name"},
				{Name: "number", Label: "License Number"},
				{Name: "dob", Label: "Date of Birth"},
				{Name: "address", Label: "Address"},
			},
			Images: []string{"front_image", "back_image"},
		},
		{
			Name:    CategoryCertificate,
			Builtin: true,
			Fields: []FieldSpec{
				{Name: "name", Label: "Certificate Name"},
				{Name: "issuer", Label: "Issuing Authority"},
				{Name: "date", Label: "Issue Date"},
				{Name: "description", Label: "Description"},
			},
			Images: []string{"image"},
		},
	}
}
