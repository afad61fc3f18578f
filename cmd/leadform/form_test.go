package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/octobees/landing-leads/internal/schema"
	"github.com/octobees/landing-leads/internal/wizard"
)

type recordingSubmitter struct {
	errs []error
	got  []schema.Submission
}

func (r *recordingSubmitter) Submit(_ context.Context, sub schema.Submission) error {
	r.got = append(r.got, sub)
	if len(r.errs) > 0 {
		err := r.errs[0]
		r.errs = r.errs[1:]
		return err
	}
	return nil
}

func lines(in ...string) io.Reader {
	return strings.NewReader(strings.Join(in, "\n") + "\n")
}

func TestRun_CompletesForm(t *testing.T) {
	sub := &recordingSubmitter{}
	var out bytes.Buffer
	in := lines(
		"Jo", "Li", "jo@x.com", "1234567890", "",
		"Ac", "1", "Tech", "next",
		"1", "1", "Immediate", "call after 5pm", "submit",
	)

	if err := run(context.Background(), in, &out, wizard.New(sub)); err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out.String())
	}
	if len(sub.got) != 1 {
		t.Fatalf("expected one submission, got %d", len(sub.got))
	}
	got := sub.got[0]
	if got.CompanySize != "1-10" || got.LeadType != "B2B" || got.MonthlyBudget != "< $1,000" || got.Timeline != "Immediate" {
		t.Fatalf("options not resolved: %+v", got)
	}
	if got.AdditionalInfo != "call after 5pm" {
		t.Fatalf("unexpected additional info %q", got.AdditionalInfo)
	}
	if !strings.Contains(out.String(), "Thank you!") || !strings.Contains(out.String(), "Step 3 of 3 (100%)") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestRun_ShowsErrorsAndKeepsValues(t *testing.T) {
	sub := &recordingSubmitter{errs: []error{&wizard.SubmitError{Status: 500, Message: "Internal server error"}}}
	var out bytes.Buffer
	in := lines(
		"Jo", "Li", "bad", "1234567890", "",
		"", "", "jo@x.com", "", "",
		"Ac", "500+", "Tech", "",
		"B2C", "4", "4", "", "",
		"", "", "", "", "",
	)

	if err := run(context.Background(), in, &out, wizard.New(sub)); err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out.String())
	}
	text := out.String()
	if !strings.Contains(text, "! Please enter a valid email address") {
		t.Fatalf("expected email error in output:\n%s", text)
	}
	if !strings.Contains(text, "First Name [Jo]: ") {
		t.Fatalf("expected preserved value in prompt:\n%s", text)
	}
	if !strings.Contains(text, "! Internal server error") {
		t.Fatalf("expected banner after failed delivery:\n%s", text)
	}
	if len(sub.got) != 2 || sub.got[1].MonthlyBudget != "$10,000+" || sub.got[1].Timeline != "6+ months" {
		t.Fatalf("unexpected submissions: %+v", sub.got)
	}
}

func TestRun_BackNavigation(t *testing.T) {
	sub := &recordingSubmitter{}
	var out bytes.Buffer
	in := lines(
		"Jo", "Li", "jo@x.com", "1234567890", "",
		"", "", "", "back",
		"Al", "", "", "", "",
		"Ac", "2", "Tech", "",
		"Both", "2", "2", "", "",
	)

	if err := run(context.Background(), in, &out, wizard.New(sub)); err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out.String())
	}
	if len(sub.got) != 1 || sub.got[0].FirstName != "Al" || sub.got[0].CompanySize != "11-50" {
		t.Fatalf("unexpected submission: %+v", sub.got)
	}
}

func TestRun_EndOfInput(t *testing.T) {
	err := run(context.Background(), strings.NewReader("Jo\n"), io.Discard, wizard.New(&recordingSubmitter{}))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestResolveOption(t *testing.T) {
	size, _ := schema.Lookup("companySize")
	if got := resolveOption(size, "5"); got != "500+" {
		t.Fatalf("expected 500+, got %q", got)
	}
	if got := resolveOption(size, "6"); got != "6" {
		t.Fatalf("out of range numbers pass through, got %q", got)
	}
	industry, _ := schema.Lookup("industry")
	if got := resolveOption(industry, "1"); got != "1" {
		t.Fatalf("free text fields pass through, got %q", got)
	}
}
