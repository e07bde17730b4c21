package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/xavierca1/leadflow/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}


// BulkInsert writes the whole batch with one multi-row INSERT and scans
// the generated IDs and timestamps back into the leads, in order. One
// statement per batch keeps ingestion a single round trip regardless of
// batch size.
func (r *LeadRepository) BulkInsert(ctx context.Context, leads []*entity.Lead) error {
	if len(leads) == 0 {
		return nil
	}

	valueRows := make([]string, 0, len(leads))
	args := make([]interface{}, 0, len(leads)*6)

	for i, lead := range leads {
		base := i * 6
		valueRows = append(valueRows, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6,
		))
		args = append(args,
			lead.Name,
			lead.Company,
			nullString(lead.Email),
			nullString(lead.Phone),
			lead.MonthlyIncomeCents,
			lead.Rating,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO leads (name, company, email, phone, monthly_income_cents, rating)
		VALUES %s
		RETURNING id, created_at, updated_at
	`, strings.Join(valueRows, ", "))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("bulk insert leads: %w", err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		if i == len(leads) {
			return fmt.Errorf("bulk insert leads: more rows returned than inserted")
		}
		if err := rows.Scan(&leads[i].ID, &leads[i].CreatedAt, &leads[i].UpdatedAt); err != nil {
			return fmt.Errorf("scan inserted lead: %w", err)
		}
		i++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("bulk insert leads: %w", err)
	}
	if i != len(leads) {
		return fmt.Errorf("bulk insert leads: expected %d rows back, got %d", len(leads), i)
	}

	return nil
}


func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `
		SELECT id, name, company, COALESCE(email, ''), COALESCE(phone, ''),
		       monthly_income_cents, rating, created_at, updated_at
		FROM leads WHERE id = $1
	`

	var lead entity.Lead

	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&lead.ID,
		&lead.Name,
		&lead.Company,
		&lead.Email,
		&lead.Phone,
		&lead.MonthlyIncomeCents,
		&lead.Rating,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}
	return &lead, nil
}


// DeleteByIDs is the compensation path: it unwinds a lead batch whose
// follow-up task insert failed.
func (r *LeadRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = ANY($1)`, pq.Array(ids))
	return err
}


func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
