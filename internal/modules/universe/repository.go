package universe

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// Repository reads the universe feature table maintained by the collector
// process. This service only ever reads it; writes belong to the collector.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new universe repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "universe").Logger(),
	}
}

// GetAll returns every stock in the table, in rowid order. The order is
// stable across calls, which keeps recommendation tie-breaking deterministic.
func (r *Repository) GetAll() ([]Stock, error) {
	query := `
		SELECT code, name, market_cap, per, pbr, roe, debt_ratio, dividend_yield
		FROM stocks
		ORDER BY rowid
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stocks: %w", err)
	}
	defer rows.Close()

	var stocks []Stock
	for rows.Next() {
		var s Stock
		if err := rows.Scan(
			&s.Code,
			&s.Name,
			&s.Features.MarketCap,
			&s.Features.PER,
			&s.Features.PBR,
			&s.Features.ROE,
			&s.Features.DebtRatio,
			&s.Features.DividendYield,
		); err != nil {
			return nil, fmt.Errorf("failed to scan stock: %w", err)
		}
		stocks = append(stocks, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stocks: %w", err)
	}

	return stocks, nil
}

// Count returns the number of stocks in the table.
func (r *Repository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM stocks").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count stocks: %w", err)
	}
	return n, nil
}
