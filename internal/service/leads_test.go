package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/octobees/landing-leads/internal/entity"
	"github.com/octobees/landing-leads/internal/repository"
	"github.com/octobees/landing-leads/internal/schema"
)

func validSubmission() schema.Submission {
	return schema.Submission{
		FirstName:     "Jo",
		LastName:      "Li",
		Email:         "jo@x.com",
		Phone:         "(650) 253-0000",
		CompanyName:   "Ac",
		CompanySize:   "1-10",
		Industry:      "Tech",
		LeadType:      "B2B",
		MonthlyBudget: "< $1,000",
		Timeline:      "Immediate",
	}
}

type failingLeadsRepo struct {
	appendErr error
	listErr   error
}

func (f *failingLeadsRepo) Append(ctx context.Context, lead *entity.Lead) (*entity.Lead, error) {
	return nil, f.appendErr
}

func (f *failingLeadsRepo) List(ctx context.Context) ([]entity.Lead, error) {
	return nil, f.listErr
}

type capturingNotifier struct {
	calls chan entity.Lead
	rid   chan string
	err   error
}

func newCapturingNotifier(err error) *capturingNotifier {
	return &capturingNotifier{calls: make(chan entity.Lead, 1), rid: make(chan string, 1), err: err}
}

func (n *capturingNotifier) NotifyLead(ctx context.Context, lead entity.Lead, requestID string) error {
	n.calls <- lead
	n.rid <- requestID
	return n.err
}

func TestLeadsService_SubmitStoresStampedLead(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 9, 30, 0, 0, time.FixedZone("EST", -5*3600))
	repo := repository.NewMemoryLeadsRepository()
	svc := NewLeadsService(repo, WithClock(func() time.Time { return fixed }))

	lead, err := svc.Submit(context.Background(), validSubmission(), "rid-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.ID != 1 {
		t.Fatalf("expected id 1, got %d", lead.ID)
	}
	if !lead.SubmittedAt.Equal(fixed) || lead.SubmittedAt.Location() != time.UTC {
		t.Fatalf("expected UTC submittedAt %s, got %s", fixed.UTC(), lead.SubmittedAt)
	}
	if lead.PhoneE164 != "+16502530000" {
		t.Fatalf("expected normalized phone, got %q", lead.PhoneE164)
	}
	if lead.Phone != "(650) 253-0000" {
		t.Fatalf("submitted phone must be preserved, got %q", lead.Phone)
	}

	leads, _ := svc.List(context.Background())
	if len(leads) != 1 || leads[0].ID != 1 {
		t.Fatalf("unexpected stored leads: %+v", leads)
	}
}

func TestLeadsService_SubmitRejectsInvalidWithoutStoring(t *testing.T) {
	repo := repository.NewMemoryLeadsRepository()
	svc := NewLeadsService(repo)

	sub := validSubmission()
	sub.Phone = "123456789"
	_, err := svc.Submit(context.Background(), sub, "")

	var verrs schema.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if verrs.For("phone") == "" {
		t.Fatalf("expected phone error, got %+v", verrs)
	}
	leads, _ := svc.List(context.Background())
	if len(leads) != 0 {
		t.Fatalf("invalid lead must not be stored: %+v", leads)
	}
}

func TestLeadsService_SubmitDuplicatesAreKept(t *testing.T) {
	svc := NewLeadsService(repository.NewMemoryLeadsRepository())

	first, err := svc.Submit(context.Background(), validSubmission(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Submit(context.Background(), validSubmission(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.ID <= first.ID {
		t.Fatalf("expected increasing ids, got %d then %d", first.ID, second.ID)
	}
}

func TestLeadsService_SubmitRepositoryError(t *testing.T) {
	boom := errors.New("disk on fire")
	svc := NewLeadsService(&failingLeadsRepo{appendErr: boom})

	_, err := svc.Submit(context.Background(), validSubmission(), "")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped repository error, got %v", err)
	}
	var verrs schema.ValidationErrors
	if errors.As(err, &verrs) {
		t.Fatalf("repository failure must not look like a validation error")
	}
}

func TestLeadsService_ListRepositoryError(t *testing.T) {
	svc := NewLeadsService(&failingLeadsRepo{listErr: errors.New("timeout")})
	if _, err := svc.List(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLeadsService_NotifiesAcceptedLead(t *testing.T) {
	notifier := newCapturingNotifier(errors.New("crm down"))
	svc := NewLeadsService(repository.NewMemoryLeadsRepository(), WithNotifier(notifier))

	ctx, cancel := context.WithCancel(context.Background())
	lead, err := svc.Submit(ctx, validSubmission(), "rid-9")
	cancel()
	if err != nil {
		t.Fatalf("notifier failure must not fail the submission: %v", err)
	}

	select {
	case got := <-notifier.calls:
		if got.ID != lead.ID || got.Email != "jo@x.com" {
			t.Fatalf("unexpected notified lead: %+v", got)
		}
		if rid := <-notifier.rid; rid != "rid-9" {
			t.Fatalf("expected request id to be forwarded, got %q", rid)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected notifier to be called")
	}
}

func TestLeadsService_InvalidLeadIsNotNotified(t *testing.T) {
	notifier := newCapturingNotifier(nil)
	svc := NewLeadsService(repository.NewMemoryLeadsRepository(), WithNotifier(notifier))

	if _, err := svc.Submit(context.Background(), schema.Submission{}, ""); err == nil {
		t.Fatalf("expected validation error")
	}
	select {
	case <-notifier.calls:
		t.Fatalf("notifier must not be called for rejected leads")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWithPhoneRegion(t *testing.T) {
	svc := NewLeadsService(repository.NewMemoryLeadsRepository(), WithPhoneRegion(" gb "))
	if svc.phoneRegion != "GB" {
		t.Fatalf("expected GB, got %s", svc.phoneRegion)
	}
	svc = NewLeadsService(repository.NewMemoryLeadsRepository(), WithPhoneRegion(""))
	if svc.phoneRegion != defaultPhoneRegion {
		t.Fatalf("expected default region, got %s", svc.phoneRegion)
	}

	sub := validSubmission()
	sub.Phone = "020 7031 3000"
	gb := NewLeadsService(repository.NewMemoryLeadsRepository(), WithPhoneRegion("GB"))
	lead, err := gb.Submit(context.Background(), sub, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.PhoneE164 != "+442070313000" {
		t.Fatalf("expected GB normalization, got %q", lead.PhoneE164)
	}
}
