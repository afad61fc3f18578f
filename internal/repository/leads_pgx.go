package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/landing-leads/internal/entity"
)

type pgxPool interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
}

var _ pgxPool = (*pgxpool.Pool)(nil)

// PGXLeadsRepository implements LeadsRepository on a PostgreSQL leads table.
type PGXLeadsRepository struct {
	pool pgxPool
}

// NewPGXLeadsRepository wires a pgx backed repository.
func NewPGXLeadsRepository(pool *pgxpool.Pool) *PGXLeadsRepository {
	return &PGXLeadsRepository{pool: pool}
}

const leadColumns = `first_name, last_name, email, phone, phone_e164,
            company_name, company_size, industry,
            lead_type, monthly_budget, timeline, additional_info, submitted_at`

// Append inserts the lead; the BIGSERIAL id becomes its sequence id.
func (r *PGXLeadsRepository) Append(ctx context.Context, lead *entity.Lead) (*entity.Lead, error) {
	if lead == nil {
		return nil, ErrNilLead
	}

	query := `
        INSERT INTO leads (` + leadColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING id
    `

	stored := *lead
	row := r.pool.QueryRow(ctx, query,
		lead.FirstName,
		lead.LastName,
		lead.Email,
		lead.Phone,
		nullable(lead.PhoneE164),
		lead.CompanyName,
		lead.CompanySize,
		lead.Industry,
		lead.LeadType,
		lead.MonthlyBudget,
		lead.Timeline,
		nullable(lead.AdditionalInfo),
		lead.SubmittedAt,
	)
	if err := row.Scan(&stored.ID); err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}

	return &stored, nil
}

// List returns all leads ordered by id.
func (r *PGXLeadsRepository) List(ctx context.Context) ([]entity.Lead, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, `+leadColumns+` FROM leads ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]entity.Lead, 0)
	for rows.Next() {
		var (
			lead           entity.Lead
			phoneE164      sql.NullString
			additionalInfo sql.NullString
		)
		if err := rows.Scan(
			&lead.ID,
			&lead.FirstName,
			&lead.LastName,
			&lead.Email,
			&lead.Phone,
			&phoneE164,
			&lead.CompanyName,
			&lead.CompanySize,
			&lead.Industry,
			&lead.LeadType,
			&lead.MonthlyBudget,
			&lead.Timeline,
			&additionalInfo,
			&lead.SubmittedAt,
		); err != nil {
			return nil, fmt.Errorf("scan lead row: %w", err)
		}
		lead.PhoneE164 = phoneE164.String
		lead.AdditionalInfo = additionalInfo.String
		lead.SubmittedAt = lead.SubmittedAt.UTC()
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ LeadsRepository = (*PGXLeadsRepository)(nil)
