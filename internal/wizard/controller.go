// Package wizard implements the multi-step lead form as a state machine shared by
// any front end that renders it.
package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/octobees/landing-leads/internal/schema"
)

// State is a position in the form workflow.
type State int

// Form states.
const (
	Step1 State = iota + 1
	Step2
	Step3
	Submitting
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Step1:
		return "step1"
	case Step2:
		return "step2"
	case Step3:
		return "step3"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrFinished is returned by every mutating call once the lead was accepted.
	ErrFinished = errors.New("form already submitted")
	// ErrNotFinalStep is returned by Submit before the last step is reached.
	ErrNotFinalStep = errors.New("form can only be submitted from the last step")
	// ErrBusy is returned while a submission is in flight.
	ErrBusy = errors.New("submission in progress")
	// ErrUnknownField is returned by Set for names outside the schema.
	ErrUnknownField = errors.New("unknown form field")
)

const fallbackBanner = "An error occurred. Please try again."

// Submitter delivers a complete, validated submission. Errors are shown to the user.
type Submitter interface {
	Submit(ctx context.Context, sub schema.Submission) error
}

// Controller gates advancement through the form. It is not safe for concurrent use.
type Controller struct {
	submitter Submitter
	state     State
	values    schema.Submission
	errors    schema.ValidationErrors
	banner    string
}

// New returns a controller positioned on the first step.
func New(submitter Submitter) *Controller {
	return &Controller{submitter: submitter, state: Step1}
}

// State reports the current workflow state.
func (c *Controller) State() State { return c.state }

// Step returns the form page currently shown, 1 through schema.TotalSteps.
func (c *Controller) Step() int {
	switch c.state {
	case Step1:
		return 1
	case Step2:
		return 2
	default:
		return schema.TotalSteps
	}
}

// Progress returns the percentage of the form reached.
func (c *Controller) Progress() int {
	return c.Step() * 100 / schema.TotalSteps
}

// Values returns a copy of everything entered so far.
func (c *Controller) Values() schema.Submission { return c.values }

// FieldErrors returns the errors from the last failed validation.
func (c *Controller) FieldErrors() schema.ValidationErrors { return c.errors }

// Banner returns the request-level error message, if any.
func (c *Controller) Banner() string { return c.banner }

// Set records a field value. Values persist across steps and failed validations.
func (c *Controller) Set(field, value string) error {
	if err := c.editable(); err != nil {
		return err
	}
	if !c.values.Set(field, value) {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// Next validates the current step and advances when it is valid.
// It reports whether the step changed.
func (c *Controller) Next() (bool, error) {
	if err := c.editable(); err != nil {
		return false, err
	}
	if c.Step() >= schema.TotalSteps {
		return false, nil
	}

	if !c.validate(schema.StepFields(c.Step())...) {
		return false, nil
	}
	c.state++
	c.banner = ""
	return true, nil
}

// Back moves to the previous step without validating anything.
func (c *Controller) Back() error {
	if err := c.editable(); err != nil {
		return err
	}
	switch c.Step() {
	case 2:
		c.state = Step1
	case 3:
		c.state = Step2
	default:
		return nil
	}
	c.banner = ""
	return nil
}

// Submit validates the whole form and hands it to the submitter.
// Validation failures keep the form on the last step with field errors set; a failed
// delivery moves to Error with the banner set, from which Submit may be retried.
func (c *Controller) Submit(ctx context.Context) error {
	if err := c.editable(); err != nil {
		return err
	}
	if c.state != Step3 && c.state != Error {
		return ErrNotFinalStep
	}
	if !c.validate() {
		c.state = Step3
		return c.errors
	}

	c.state = Submitting
	c.banner = ""
	if err := c.submitter.Submit(ctx, c.values); err != nil {
		c.state = Error
		c.banner = bannerFor(err)
		return err
	}
	c.state = Success
	return nil
}

func (c *Controller) editable() error {
	switch c.state {
	case Success:
		return ErrFinished
	case Submitting:
		return ErrBusy
	default:
		return nil
	}
}

func (c *Controller) validate(fields ...string) bool {
	err := schema.ValidateFields(c.values, fields...)
	if err == nil {
		c.errors = nil
		return true
	}
	var verrs schema.ValidationErrors
	if !errors.As(err, &verrs) {
		verrs = schema.ValidationErrors{{Field: "", Message: err.Error()}}
	}
	c.errors = verrs
	return false
}

func bannerFor(err error) string {
	var serr *SubmitError
	if errors.As(err, &serr) && serr.Message != "" {
		return serr.Message
	}
	return fallbackBanner
}
