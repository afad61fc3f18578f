package schema

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/net/idna"
)

// Option lists accepted by the enum fields.
var (
	CompanySizes   = []string{"1-10", "11-50", "51-200", "201-500", "500+"}
	LeadTypes      = []string{"B2B", "B2C", "Both"}
	MonthlyBudgets = []string{"< $1,000", "$1,000 - $5,000", "$5,000 - $10,000", "$10,000+"}
	Timelines      = []string{"Immediate", "1-3 months", "3-6 months", "6+ months"}
)

// Submission is the lead payload posted by the form.
type Submission struct {
	FirstName      string `json:"firstName" validate:"min=2"`
	LastName       string `json:"lastName" validate:"min=2"`
	Email          string `json:"email" validate:"email,lead_email"`
	Phone          string `json:"phone" validate:"min=10"`
	CompanyName    string `json:"companyName" validate:"min=2"`
	CompanySize    string `json:"companySize" validate:"company_size"`
	Industry       string `json:"industry" validate:"min=2"`
	LeadType       string `json:"leadType" validate:"lead_type"`
	MonthlyBudget  string `json:"monthlyBudget" validate:"monthly_budget"`
	Timeline       string `json:"timeline" validate:"timeline"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`
}

var (
	localPattern  = regexp.MustCompile(`^[a-z0-9_%+\-']+(?:\.[a-z0-9_%+\-']+)*$`)
	domainPattern = regexp.MustCompile(`^[a-z0-9-]+(?:\.[a-z0-9-]+)*\.(?:[a-z]{2,}|xn--[a-z0-9-]+)$`)
	idnaProfile   = idna.Lookup

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	must := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
	must("lead_email", func(fl validator.FieldLevel) bool { return validEmail(fl.Field().String()) })
	must("company_size", oneOf(CompanySizes))
	must("lead_type", oneOf(LeadTypes))
	must("monthly_budget", oneOf(MonthlyBudgets))
	must("timeline", oneOf(Timelines))
	return v
}

func oneOf(options []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return slices.Contains(options, fl.Field().String())
	}
}

// Validate checks every field of the submission. It returns nil or ValidationErrors.
func Validate(sub Submission) error {
	return ValidateFields(sub)
}

// ValidateFields checks only the named JSON fields. With no names it checks all of them.
func ValidateFields(sub Submission, fields ...string) error {
	err := validate.Struct(sub)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate submission: %w", err)
	}

	var out ValidationErrors
	for _, fe := range verrs {
		name := fe.Field()
		if len(fields) > 0 && !slices.Contains(fields, name) {
			continue
		}
		out = out.With(name, messageFor(name))
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// validEmail requires a dot-atom local part and a domain that converts to ASCII
// through IDNA, so internationalized domains are checked in their punycode form.
func validEmail(raw string) bool {
	at := strings.LastIndex(raw, "@")
	if at <= 0 || at == len(raw)-1 {
		return false
	}
	if !localPattern.MatchString(strings.ToLower(raw[:at])) {
		return false
	}
	domain, err := idnaProfile.ToASCII(strings.ToLower(raw[at+1:]))
	if err != nil || !domainPattern.MatchString(domain) {
		return false
	}
	return isDomainValid(domain)
}

func isDomainValid(domain string) bool {
	if !strings.Contains(domain, ".") {
		return false
	}
	for _, part := range strings.Split(domain, ".") {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}
