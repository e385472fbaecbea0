package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.JournalRepository = (*JournalRepo)(nil)

// JournalRepo persistencia de asientos de doble partida.
type JournalRepo struct {
	q Querier
}

// NewJournalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewJournalRepository(q Querier) *JournalRepo {
	return &JournalRepo{q: q}
}

// Create persiste el asiento y sus líneas. Verifica el balance una vez más
// antes de escribir: un asiento descuadrado jamás debe tocar la tabla.
func (r *JournalRepo) Create(entry *entity.JournalEntry) error {
	if !entry.Balanced() {
		return domain.ErrUnbalancedEntry
	}
	query := `
		INSERT INTO journal_entries (id, work_order_id, step_number, reference, entry_date)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.WorkOrderID, entry.StepNumber, entry.Reference, entry.Date)
	if err != nil {
		return fmt.Errorf("create journal entry: %w", err)
	}

	lineQuery := `
		INSERT INTO journal_lines (id, entry_id, account_code, debit, credit)
		VALUES ($1, $2, $3, $4, $5)`
	for _, l := range entry.Lines {
		if _, err := r.q.Exec(context.Background(), lineQuery,
			uuid.New().String(), entry.ID, l.AccountCode, l.Debit, l.Credit); err != nil {
			return fmt.Errorf("create journal line: %w", err)
		}
	}
	return nil
}

// ListByWorkOrder devuelve los asientos de una orden con sus líneas.
func (r *JournalRepo) ListByWorkOrder(workOrderID string) ([]*entity.JournalEntry, error) {
	query := `
		SELECT id, work_order_id, step_number, reference, entry_date
		FROM journal_entries
		WHERE work_order_id = $1
		ORDER BY step_number`
	rows, err := r.q.Query(context.Background(), query, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.JournalEntry
	for rows.Next() {
		var e entity.JournalEntry
		if err := rows.Scan(&e.ID, &e.WorkOrderID, &e.StepNumber, &e.Reference, &e.Date); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, e := range entries {
		lineQuery := `
			SELECT account_code, debit, credit
			FROM journal_lines
			WHERE entry_id = $1
			ORDER BY id`
		lineRows, err := r.q.Query(context.Background(), lineQuery, e.ID)
		if err != nil {
			return nil, fmt.Errorf("list journal lines: %w", err)
		}
		for lineRows.Next() {
			var l entity.JournalLine
			if err := lineRows.Scan(&l.AccountCode, &l.Debit, &l.Credit); err != nil {
				lineRows.Close()
				return nil, fmt.Errorf("scan journal line: %w", err)
			}
			e.Lines = append(e.Lines, l)
		}
		lineRows.Close()
		if err := lineRows.Err(); err != nil {
			return nil, err
		}
	}
	return entries, nil
}
