package docgen

import (
	"fmt"
	"time"
)

// DocumentType discriminates the two subscriber form variants.
type DocumentType string

const (
	TypeParticuliers DocumentType = "particuliers"
	TypeEntreprise   DocumentType = "entreprise"
)

// ValidType reports whether t is one of the two supported form variants.
func ValidType(t DocumentType) bool {
	return t == TypeParticuliers || t == TypeEntreprise
}

// DocumentData is the canonical, template-ready view of one submission.
// Lookups are total: a field the submission never set resolves to "" so that
// optional form fields can never abort rendering.
type DocumentData map[string]string

// Field returns the value for name, or "" when the field is absent.
func (d DocumentData) Field(name string) string {
	return d[name]
}

// Form fields holding dates, reformatted for display during normalization.
var dateFields = []string{"date", "date_delivery", "date_cin_gerant"}

// Input layouts accepted from the UI. The forms submit ISO dates; the other
// layouts cover rows imported from the previous spreadsheet-based process.
var dateLayouts = []string{"2006-01-02", time.RFC3339, "02/01/2006", "02-01-2006"}

const displayDateLayout = "02-01-2006"

// FormatDisplayDate normalizes a submitted date to DD-MM-YYYY. Absent or
// unparsable values collapse to "" rather than erroring.
func FormatDisplayDate(value string) string {
	if value == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(displayDateLayout)
		}
	}
	return ""
}

// BuildCanonical turns a raw form submission into canonical document data:
// every submitted field is carried over, date fields are reformatted for
// display, Reference_client is pinned to the contract reference, Code_client
// starts empty until a directory client code is obtained, and only the offer
// slot matching the form variant survives.
func BuildCanonical(docType DocumentType, form map[string]string, reference string) (DocumentData, error) {
	if !ValidType(docType) {
		return nil, fmt.Errorf("%w: unknown document type %q", ErrInvalidInput, docType)
	}
	if len(form) == 0 {
		return nil, fmt.Errorf("%w: empty submission", ErrInvalidInput)
	}

	data := make(DocumentData, len(form)+2)
	for k, v := range form {
		data[k] = v
	}
	for _, f := range dateFields {
		data[f] = FormatDisplayDate(data[f])
	}

	data["Reference_client"] = reference
	data["Code_client"] = ""

	// The forms submit a single internet_offer field; split it into one slot
	// per variant so each language template only reads its own.
	switch docType {
	case TypeParticuliers:
		data["internet_offer_entreprise"] = ""
	case TypeEntreprise:
		data["internet_offer_entreprise"] = data["internet_offer"]
		data["internet_offer"] = ""
	}

	return data, nil
}

// IdentityField returns the canonical field that identifies a subscriber of
// the given variant: the national identity card number for individuals, the
// tax identifier for companies.
func IdentityField(docType DocumentType) string {
	if docType == TypeEntreprise {
		return "nif"
	}
	return "Num_CIN"
}
