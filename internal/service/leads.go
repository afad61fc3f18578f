package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/octobees/landing-leads/internal/entity"
	"github.com/octobees/landing-leads/internal/repository"
	"github.com/octobees/landing-leads/internal/schema"
)

// Notifier forwards an accepted lead to a downstream system such as a CRM.
type Notifier interface {
	NotifyLead(ctx context.Context, lead entity.Lead, requestID string) error
}

// LeadsService validates and stores lead submissions.
type LeadsService struct {
	repo          repository.LeadsRepository
	notifier      Notifier
	phoneRegion   string
	now           func() time.Time
	notifyTimeout time.Duration
}

// LeadsServiceOption configures optional dependencies.
type LeadsServiceOption func(*LeadsService)

// WithNotifier delivers each accepted lead to n.
func WithNotifier(n Notifier) LeadsServiceOption {
	return func(s *LeadsService) {
		s.notifier = n
	}
}

// WithPhoneRegion sets the region used to render phones in E.164.
func WithPhoneRegion(region string) LeadsServiceOption {
	return func(s *LeadsService) {
		if region = strings.ToUpper(strings.TrimSpace(region)); region != "" {
			s.phoneRegion = region
		}
	}
}

// WithClock overrides the source of submittedAt timestamps.
func WithClock(now func() time.Time) LeadsServiceOption {
	return func(s *LeadsService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewLeadsService creates a new instance of LeadsService.
func NewLeadsService(repo repository.LeadsRepository, opts ...LeadsServiceOption) *LeadsService {
	s := &LeadsService{
		repo:          repo,
		phoneRegion:   defaultPhoneRegion,
		now:           time.Now,
		notifyTimeout: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates the submission, stamps it and appends it to the store.
// Schema violations are returned as schema.ValidationErrors and nothing is stored.
func (s *LeadsService) Submit(ctx context.Context, sub schema.Submission, requestID string) (*entity.Lead, error) {
	if err := schema.Validate(sub); err != nil {
		return nil, err
	}

	lead := &entity.Lead{
		Submission:  sub,
		PhoneE164:   normalizePhone(sub.Phone, s.phoneRegion),
		SubmittedAt: s.now().UTC(),
	}

	stored, err := s.repo.Append(ctx, lead)
	if err != nil {
		return nil, fmt.Errorf("store lead: %w", err)
	}
	log.Printf("request_id=%s lead_id=%d company_size=%q lead_type=%q msg=%q", requestID, stored.ID, stored.CompanySize, stored.LeadType, "lead accepted")

	if s.notifier != nil {
		go s.notify(context.WithoutCancel(ctx), *stored, requestID)
	}

	return stored, nil
}

// List returns every stored lead in submission order.
func (s *LeadsService) List(ctx context.Context) ([]entity.Lead, error) {
	leads, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	if leads == nil {
		leads = []entity.Lead{}
	}
	return leads, nil
}

func (s *LeadsService) notify(ctx context.Context, lead entity.Lead, requestID string) {
	ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()

	if err := s.notifier.NotifyLead(ctx, lead, requestID); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Printf("request_id=%s lead_id=%d msg=%q", requestID, lead.ID, "lead notification timed out")
			return
		}
		log.Printf("request_id=%s lead_id=%d error=%q msg=%q", requestID, lead.ID, err.Error(), "lead notification failed")
	}
}
