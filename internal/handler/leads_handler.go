package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octobees/landing-leads/internal/dto"
	"github.com/octobees/landing-leads/internal/metrics"
	middleware "github.com/octobees/landing-leads/internal/middleware"
	"github.com/octobees/landing-leads/internal/schema"
	"github.com/octobees/landing-leads/internal/service"
)

// LeadsHandler exposes the lead submission endpoints.
type LeadsHandler struct {
	service *service.LeadsService
	metrics *metrics.Metrics
	delay   time.Duration
}

// LeadsHandlerOption configures a LeadsHandler.
type LeadsHandlerOption func(*LeadsHandler)

// WithSubmitDelay holds every accepted submission for d before responding.
func WithSubmitDelay(d time.Duration) LeadsHandlerOption {
	return func(h *LeadsHandler) {
		h.delay = d
	}
}

// WithMetrics counts submission outcomes on m.
func WithMetrics(m *metrics.Metrics) LeadsHandlerOption {
	return func(h *LeadsHandler) {
		h.metrics = m
	}
}

// NewLeadsHandler creates a new handler instance.
func NewLeadsHandler(service *service.LeadsService, opts ...LeadsHandlerOption) *LeadsHandler {
	h := &LeadsHandler{service: service}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Create handles POST /api/leads requests.
func (h *LeadsHandler) Create(c echo.Context) error {
	var sub schema.Submission
	rid := middleware.RequestIDFromContext(c)
	typeErrs, err := decodeSubmission(c.Request().Body, &sub)
	if err != nil {
		h.metrics.ObserveSubmission(metrics.OutcomeFailed)
		log.Printf("request_id=%s error=%q msg=%q", rid, err.Error(), "error reading lead body")
		return Error(c, http.StatusInternalServerError, "Internal server error")
	}
	if len(typeErrs) > 0 {
		h.metrics.ObserveSubmission(metrics.OutcomeRejected)
		return ValidationFailed(c, typeErrs)
	}

	ctx := c.Request().Context()
	lead, err := h.service.Submit(ctx, sub, rid)
	if err != nil {
		var verrs schema.ValidationErrors
		if errors.As(err, &verrs) {
			h.metrics.ObserveSubmission(metrics.OutcomeRejected)
			return ValidationFailed(c, verrs)
		}
		h.metrics.ObserveSubmission(metrics.OutcomeFailed)
		log.Printf("request_id=%s error=%q msg=%q", rid, err.Error(), "error submitting lead")
		return Error(c, http.StatusInternalServerError, "Internal server error")
	}
	h.metrics.ObserveSubmission(metrics.OutcomeAccepted)

	h.pause(ctx)
	return Success(c, http.StatusCreated, "Lead submitted successfully", lead)
}

// List handles GET /api/leads requests.
func (h *LeadsHandler) List(c echo.Context) error {
	leads, err := h.service.List(c.Request().Context())
	if err != nil {
		log.Printf("request_id=%s error=%q msg=%q", middleware.RequestIDFromContext(c), err.Error(), "error listing leads")
		return Error(c, http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(http.StatusOK, dto.LeadsListResponse{
		Success: true,
		Count:   len(leads),
		Leads:   leads,
	})
}

func (h *LeadsHandler) pause(ctx context.Context) {
	if h.delay <= 0 {
		return
	}
	timer := time.NewTimer(h.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// errTrailingData rejects bodies holding anything after the first JSON value.
var errTrailingData = errors.New("unexpected data after JSON body")

// decodeSubmission reads a single JSON object into sub. Bodies that are not JSON are
// returned as errors. Values of the wrong JSON type are reported as field errors, merged
// with the schema errors of the remaining fields.
func decodeSubmission(body io.Reader, sub *schema.Submission) (schema.ValidationErrors, error) {
	dec := json.NewDecoder(body)
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode lead body: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}

	var fields map[string]json.RawMessage
	if kind := jsonKind(raw); kind != "object" {
		return schema.ValidationErrors{{Field: "", Message: "Expected object, received " + kind}}, nil
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode lead fields: %w", err)
	}

	var typeErrs schema.ValidationErrors
	for _, f := range schema.Fields {
		value, ok := fields[f.Name]
		if !ok {
			continue
		}
		if kind := jsonKind(value); kind != "string" {
			typeErrs = typeErrs.With(f.Name, "Expected string, received "+kind)
			continue
		}
		var str string
		if err := json.Unmarshal(value, &str); err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.Name, err)
		}
		sub.Set(f.Name, str)
	}
	if len(typeErrs) == 0 {
		return nil, nil
	}

	var errs schema.ValidationErrors
	if err := schema.Validate(*sub); err != nil && !errors.As(err, &errs) {
		return nil, err
	}
	for _, fe := range typeErrs {
		errs = errs.With(fe.Field, fe.Message)
	}
	return errs, nil
}

// jsonKind names the JSON type of an already well-formed value.
func jsonKind(value json.RawMessage) string {
	trimmed := bytes.TrimLeft(value, " \t\r\n")
	if len(trimmed) == 0 {
		return "undefined"
	}
	switch trimmed[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
