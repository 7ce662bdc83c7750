package inquiry

import (
	"errors"
	"fmt"
	"strings"
)

// Field names one of the four inquiry form inputs.
type Field string

const (
	FieldFullName           Field = "fullName"
	FieldPhoneNumber        Field = "phoneNumber"
	FieldEmailAddress       Field = "emailAddress"
	FieldProjectDescription Field = "projectDescription"
)

// Fields lists the form inputs in display order.
var Fields = []Field{
	FieldFullName,
	FieldPhoneNumber,
	FieldEmailAddress,
	FieldProjectDescription,
}

// Label returns the human readable label shown next to the input.
func (f Field) Label() string {
	switch f {
	case FieldFullName:
		return "Full Name"
	case FieldPhoneNumber:
		return "Phone Number"
	case FieldEmailAddress:
		return "Email Address"
	case FieldProjectDescription:
		return "Project Description"
	}
	return string(f)
}

// ParseField maps a wire name onto a Field.
func ParseField(name string) (Field, error) {
	for _, f := range Fields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Form holds the values a visitor typed into the inquiry dialog.
type Form struct {
	FullName           string `json:"fullName"`
	PhoneNumber        string `json:"phoneNumber"`
	EmailAddress       string `json:"emailAddress"`
	ProjectDescription string `json:"projectDescription"`
}

// Get returns the value held for f.
func (f Form) Get(field Field) string {
	switch field {
	case FieldFullName:
		return f.FullName
	case FieldPhoneNumber:
		return f.PhoneNumber
	case FieldEmailAddress:
		return f.EmailAddress
	case FieldProjectDescription:
		return f.ProjectDescription
	}
	return ""
}

func (f *Form) set(field Field, value string) {
	switch field {
	case FieldFullName:
		f.FullName = value
	case FieldPhoneNumber:
		f.PhoneNumber = value
	case FieldEmailAddress:
		f.EmailAddress = value
	case FieldProjectDescription:
		f.ProjectDescription = value
	}
}

// Missing returns the required fields that are still empty, in display order.
func (f Form) Missing() []Field {
	var missing []Field
	for _, field := range Fields {
		if f.Get(field) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// IsEmpty reports whether every field is the empty string.
func (f Form) IsEmpty() bool {
	return f == Form{}
}

// IncompleteError reports a submit attempt with required fields left empty.
type IncompleteError struct {
	Missing []Field
}

func (e *IncompleteError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return fmt.Sprintf("inquiry: required fields empty: %s", strings.Join(names, ", "))
}

// Is lets errors.Is(err, ErrIncomplete) match any IncompleteError.
func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncomplete
}

var (
	// ErrNotOpen is returned when a field is set or a submit attempted while the dialog is closed
	ErrNotOpen = errors.New("inquiry: form is not open")
	// ErrUnknownField is returned for a field name outside the four dialog fields
	ErrUnknownField = errors.New("inquiry: unknown field")
	// ErrIncomplete matches every IncompleteError
	ErrIncomplete = errors.New("inquiry: required fields empty")
)
