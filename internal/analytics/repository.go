package analytics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/domain"
)

// RevenueSummary is the management view over completed orders.
type RevenueSummary struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalOrders       int     `json:"total_orders"`
	AverageOrderValue float64 `json:"average_order_value"`
}

// TopItem is one row of the top-sellers report.
type TopItem struct {
	ItemID   string  `json:"item_id"`
	ItemName string  `json:"item_name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

type Repository interface {
	AddSpend(ctx context.Context, studentID string, amount float64) error
	GetSpending(ctx context.Context, studentID string) (*domain.SpendingAnalytics, error)
	RevenueSummary(ctx context.Context, canteenID string) (*RevenueSummary, error)
	TopItems(ctx context.Context, canteenID string, limit int) ([]*TopItem, error)
}

type postgresRepository struct {
	db *sql.DB
}

// NewRepository shares the orders database; the analytics tables live in the
// same schema and migration set.
func NewRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

// AddSpend upserts the student's rolling totals. Totals are reset lazily by a
// reporting job outside this service; here they only ever grow.
func (r *postgresRepository) AddSpend(ctx context.Context, studentID string, amount float64) error {
	query := `INSERT INTO spending_analytics (student_id, daily_total, weekly_total, monthly_total, last_updated)
	          VALUES ($1, $2, $2, $2, NOW())
	          ON CONFLICT (student_id) DO UPDATE SET
	              daily_total   = spending_analytics.daily_total + EXCLUDED.daily_total,
	              weekly_total  = spending_analytics.weekly_total + EXCLUDED.weekly_total,
	              monthly_total = spending_analytics.monthly_total + EXCLUDED.monthly_total,
	              last_updated  = NOW()`

	if _, err := r.db.ExecContext(ctx, query, studentID, amount); err != nil {
		return fmt.Errorf("upsert spending: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetSpending(ctx context.Context, studentID string) (*domain.SpendingAnalytics, error) {
	var spending domain.SpendingAnalytics
	err := r.db.QueryRowContext(ctx,
		`SELECT student_id, daily_total, weekly_total, monthly_total, last_updated
		 FROM spending_analytics WHERE student_id = $1`, studentID).
		Scan(&spending.StudentID, &spending.DailyTotal, &spending.WeeklyTotal,
			&spending.MonthlyTotal, &spending.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		// A student who never paid has zero totals, not an error.
		return &domain.SpendingAnalytics{StudentID: studentID, LastUpdated: time.Now()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query spending: %w", err)
	}
	return &spending, nil
}

func (r *postgresRepository) RevenueSummary(ctx context.Context, canteenID string) (*RevenueSummary, error) {
	query := `SELECT COALESCE(SUM(total_amount), 0), COUNT(*)
	          FROM orders WHERE status = $1 AND ($2 = '' OR canteen_id = $2)`

	var summary RevenueSummary
	if err := r.db.QueryRowContext(ctx, query, domain.OrderStatusCompleted, canteenID).
		Scan(&summary.TotalRevenue, &summary.TotalOrders); err != nil {
		return nil, fmt.Errorf("query revenue summary: %w", err)
	}

	if summary.TotalOrders > 0 {
		summary.AverageOrderValue = summary.TotalRevenue / float64(summary.TotalOrders)
	}
	return &summary, nil
}

func (r *postgresRepository) TopItems(ctx context.Context, canteenID string, limit int) ([]*TopItem, error) {
	query := `SELECT item->>'item_id',
	                 MAX(item->>'item_name'),
	                 SUM((item->>'quantity')::int),
	                 SUM((item->>'quantity')::int * (item->>'price_at_order')::float)
	          FROM orders, jsonb_array_elements(items) AS item
	          WHERE status = $1 AND ($2 = '' OR canteen_id = $2)
	          GROUP BY item->>'item_id'
	          ORDER BY 4 DESC
	          LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, domain.OrderStatusCompleted, canteenID, limit)
	if err != nil {
		return nil, fmt.Errorf("query top items: %w", err)
	}
	defer rows.Close()

	var items []*TopItem
	for rows.Next() {
		var item TopItem
		if err := rows.Scan(&item.ItemID, &item.ItemName, &item.Quantity, &item.Revenue); err != nil {
			return nil, fmt.Errorf("scan top item: %w", err)
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}
