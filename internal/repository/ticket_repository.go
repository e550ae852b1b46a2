package repository

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

// TicketFilter captures list query parameters. Nil fields are not
// applied; set fields combine with AND.
type TicketFilter struct {
	Category *domain.Category
	Priority *domain.Priority
	Status   *domain.Status
	Search   *string
}

// UpdatePatch carries a partial update. Nil fields keep their stored
// value.
type UpdatePatch struct {
	Title       *string
	Description *string
	Category    *domain.Category
	Priority    *domain.Priority
	Status      *domain.Status
}

// IsEmpty reports whether the patch changes nothing.
func (p UpdatePatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil &&
		p.Priority == nil && p.Status == nil
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, id string, patch UpdatePatch) (*domain.Ticket, error)
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Stats(ctx context.Context) (*domain.StatsSummary, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, category, priority, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Category,
		ticket.Priority,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, id string, patch UpdatePatch) (*domain.Ticket, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	sets := []string{}
	args := []any{}

	if patch.Title != nil {
		args = append(args, *patch.Title)
		sets = append(sets, fmt.Sprintf("title=$%d", len(args)))
	}
	if patch.Description != nil {
		args = append(args, *patch.Description)
		sets = append(sets, fmt.Sprintf("description=$%d", len(args)))
	}
	if patch.Category != nil {
		args = append(args, *patch.Category)
		sets = append(sets, fmt.Sprintf("category=$%d", len(args)))
	}
	if patch.Priority != nil {
		args = append(args, *patch.Priority)
		sets = append(sets, fmt.Sprintf("priority=$%d", len(args)))
	}
	if patch.Status != nil {
		args = append(args, *patch.Status)
		sets = append(sets, fmt.Sprintf("status=$%d", len(args)))
	}

	args = append(args, id)
	query := fmt.Sprintf(`
        UPDATE tickets SET %s
        WHERE id=$%d
        RETURNING id, title, description, category, priority, status, created_at`,
		strings.Join(sets, ", "), len(args))

	return r.scanOne(r.pool.QueryRow(ctx, query, args...))
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, title, description, category, priority, status, created_at
        FROM tickets WHERE id=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT id, title, description, category, priority, status, created_at
             FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + escapeLike(strings.ToLower(strings.TrimSpace(*filter.Search))) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC, id DESC`,
		base, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) Stats(ctx context.Context) (*domain.StatsSummary, error) {
	summary := domain.NewStatsSummary()

	// Average is taken over days that have at least one ticket, not
	// over the full calendar span.
	const totalsQuery = `
        SELECT
            COUNT(*),
            COALESCE(SUM(CASE WHEN status='open' THEN 1 ELSE 0 END), 0),
            COALESCE((SELECT AVG(cnt)::float8
                      FROM (SELECT COUNT(*) AS cnt
                            FROM tickets
                            GROUP BY created_at::date) AS daily), 0)
        FROM tickets`

	var avg float64
	if err := r.pool.QueryRow(ctx, totalsQuery).Scan(
		&summary.TotalTickets,
		&summary.OpenTickets,
		&avg,
	); err != nil {
		return nil, fmt.Errorf("aggregate totals: %w", err)
	}
	summary.AvgTicketsPerDay = math.Round(avg*10) / 10

	const priorityQuery = `SELECT priority, COUNT(*) FROM tickets GROUP BY priority`
	rows, err := r.pool.Query(ctx, priorityQuery)
	if err != nil {
		return nil, fmt.Errorf("aggregate priorities: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var priority domain.Priority
		var count int64
		if err := rows.Scan(&priority, &count); err != nil {
			return nil, err
		}
		if !priority.Valid() {
			return nil, fmt.Errorf("stored ticket has unknown priority %q", priority)
		}
		summary.PriorityBreakdown[priority] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const categoryQuery = `SELECT category, COUNT(*) FROM tickets GROUP BY category`
	rows, err = r.pool.Query(ctx, categoryQuery)
	if err != nil {
		return nil, fmt.Errorf("aggregate categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var category domain.Category
		var count int64
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		if !category.Valid() {
			return nil, fmt.Errorf("stored ticket has unknown category %q", category)
		}
		summary.CategoryBreakdown[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &summary, nil
}

func (r *ticketRepository) scanOne(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Category,
		&ticket.Priority,
		&ticket.Status,
		&ticket.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := validateStored(&ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.Description,
			&ticket.Category,
			&ticket.Priority,
			&ticket.Status,
			&ticket.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := validateStored(&ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func validateStored(t *domain.Ticket) error {
	if !t.Category.Valid() {
		return fmt.Errorf("ticket %s: stored category %q is not a known value", t.ID, t.Category)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("ticket %s: stored priority %q is not a known value", t.ID, t.Priority)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("ticket %s: stored status %q is not a known value", t.ID, t.Status)
	}
	return nil
}

// escapeLike neutralizes LIKE metacharacters in user search input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
