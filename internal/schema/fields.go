package schema

import (
	"slices"
	"strings"
)

// TotalSteps is the number of pages in the lead form.
const TotalSteps = 3

// FieldSpec describes how a submission field is presented and checked.
type FieldSpec struct {
	Name     string
	Label    string
	Step     int
	Options  []string
	Optional bool
	Message  string
}

// Fields lists every submission field in form order.
var Fields = []FieldSpec{
	{Name: "firstName", Label: "First Name", Step: 1, Message: "First name must be at least 2 characters"},
	{Name: "lastName", Label: "Last Name", Step: 1, Message: "Last name must be at least 2 characters"},
	{Name: "email", Label: "Email Address", Step: 1, Message: "Please enter a valid email address"},
	{Name: "phone", Label: "Phone Number", Step: 1, Message: "Please enter a valid phone number"},
	{Name: "companyName", Label: "Company Name", Step: 2, Message: "Company name is required"},
	{Name: "companySize", Label: "Company Size", Step: 2, Options: CompanySizes, Message: "Please select a company size"},
	{Name: "industry", Label: "Industry", Step: 2, Message: "Industry is required"},
	{Name: "leadType", Label: "Lead Type", Step: 3, Options: LeadTypes, Message: "Please select a lead type"},
	{Name: "monthlyBudget", Label: "Monthly Budget", Step: 3, Options: MonthlyBudgets, Message: "Please select a budget range"},
	{Name: "timeline", Label: "Timeline", Step: 3, Options: Timelines, Message: "Please select a timeline"},
	{Name: "additionalInfo", Label: "Additional Information", Step: 3, Optional: true},
}

// StepFields returns the names of the validated fields shown on the given step.
func StepFields(step int) []string {
	var names []string
	for _, f := range Fields {
		if f.Step == step && !f.Optional {
			names = append(names, f.Name)
		}
	}
	return names
}

// FieldsForStep returns every field rendered on the given step, optional ones included.
func FieldsForStep(step int) []FieldSpec {
	var out []FieldSpec
	for _, f := range Fields {
		if f.Step == step {
			out = append(out, f)
		}
	}
	return out
}

// Lookup returns the metadata for a JSON field name.
func Lookup(name string) (FieldSpec, bool) {
	i := fieldIndex(name)
	if i < 0 {
		return FieldSpec{}, false
	}
	return Fields[i], true
}

func fieldIndex(name string) int {
	return slices.IndexFunc(Fields, func(f FieldSpec) bool { return f.Name == name })
}

func messageFor(name string) string {
	if f, ok := Lookup(name); ok && f.Message != "" {
		return f.Message
	}
	return "Invalid value"
}

// Get returns the value of a field by JSON name.
func (s *Submission) Get(name string) (string, bool) {
	p := s.field(name)
	if p == nil {
		return "", false
	}
	return *p, true
}

// Set assigns a field by JSON name and reports whether the name is known.
func (s *Submission) Set(name, value string) bool {
	p := s.field(name)
	if p == nil {
		return false
	}
	*p = value
	return true
}

func (s *Submission) field(name string) *string {
	switch name {
	case "firstName":
		return &s.FirstName
	case "lastName":
		return &s.LastName
	case "email":
		return &s.Email
	case "phone":
		return &s.Phone
	case "companyName":
		return &s.CompanyName
	case "companySize":
		return &s.CompanySize
	case "industry":
		return &s.Industry
	case "leadType":
		return &s.LeadType
	case "monthlyBudget":
		return &s.MonthlyBudget
	case "timeline":
		return &s.Timeline
	case "additionalInfo":
		return &s.AdditionalInfo
	default:
		return nil
	}
}

// FieldError is a single user-correctable problem with one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects field errors in form order, at most one per field.
type ValidationErrors []FieldError

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// For returns the message recorded for a field, or "" when the field is valid.
func (v ValidationErrors) For(field string) string {
	for _, fe := range v {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// With returns a copy holding message for field, replacing any earlier entry for it.
func (v ValidationErrors) With(field, message string) ValidationErrors {
	out := make(ValidationErrors, 0, len(v)+1)
	for _, fe := range v {
		if fe.Field != field {
			out = append(out, fe)
		}
	}
	out = append(out, FieldError{Field: field, Message: message})
	slices.SortStableFunc(out, func(a, b FieldError) int {
		return orderOf(a.Field) - orderOf(b.Field)
	})
	return out
}

func orderOf(field string) int {
	if i := fieldIndex(field); i >= 0 {
		return i
	}
	return len(Fields)
}
