package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/octobees/landing-leads/internal/schema"
	"github.com/octobees/landing-leads/internal/wizard"
)

// run drives the controller from line-oriented input until the lead is accepted.
func run(ctx context.Context, in io.Reader, out io.Writer, form *wizard.Controller) error {
	scanner := bufio.NewScanner(in)
	readLine := func() (string, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		return strings.TrimSpace(scanner.Text()), nil
	}

	for form.State() != wizard.Success {
		if err := ctx.Err(); err != nil {
			return err
		}

		step := form.Step()
		fmt.Fprintf(out, "\nStep %d of %d (%d%%)\n", step, schema.TotalSteps, form.Progress())
		if banner := form.Banner(); banner != "" {
			fmt.Fprintf(out, "! %s\n", banner)
		}

		values := form.Values()
		for _, field := range schema.FieldsForStep(step) {
			current, _ := values.Get(field.Name)
			promptField(out, field, current, form.FieldErrors().For(field.Name))
			line, err := readLine()
			if err != nil {
				return err
			}
			if line == "" {
				continue
			}
			if err := form.Set(field.Name, resolveOption(field, line)); err != nil {
				return err
			}
		}

		action := "next"
		if step == schema.TotalSteps {
			action = "submit"
		}
		if step > 1 {
			fmt.Fprintf(out, "[%s/back] > ", action)
		} else {
			fmt.Fprintf(out, "[%s] > ", action)
		}
		line, err := readLine()
		if err != nil {
			return err
		}

		switch {
		case strings.HasPrefix(strings.ToLower(line), "b"):
			if err := form.Back(); err != nil {
				return err
			}
		case step < schema.TotalSteps:
			if _, err := form.Next(); err != nil {
				return err
			}
		default:
			err := form.Submit(ctx)
			var verrs schema.ValidationErrors
			if err != nil && !errors.As(err, &verrs) && form.State() != wizard.Error {
				return err
			}
		}
	}

	fmt.Fprintln(out, "\nThank you! We'll be in touch within 24 hours.")
	return nil
}

func promptField(out io.Writer, field schema.FieldSpec, current, problem string) {
	label := field.Label
	if field.Optional {
		label += " (optional)"
	}
	if problem != "" {
		fmt.Fprintf(out, "  ! %s\n", problem)
	}
	for i, opt := range field.Options {
		fmt.Fprintf(out, "    %d) %s\n", i+1, opt)
	}
	if current != "" {
		fmt.Fprintf(out, "%s [%s]: ", label, current)
		return
	}
	fmt.Fprintf(out, "%s: ", label)
}

// resolveOption accepts either a 1-based option number or the literal option text.
func resolveOption(field schema.FieldSpec, input string) string {
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(field.Options) {
		return field.Options[n-1]
	}
	return input
}
