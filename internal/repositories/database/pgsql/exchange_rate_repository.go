package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/apperrors"
	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_finance_app/internal/core/ports/repositories"
	"github.com/SscSPs/personal_finance_app/internal/models"
	"github.com/SscSPs/personal_finance_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxExchangeRateRepository implements the ExchangeRateRepositoryFacade interface using pgxpool.
type PgxExchangeRateRepository struct {
	BaseRepository
}

func newPgxExchangeRateRepository(db *pgxpool.Pool) portsrepo.ExchangeRateRepositoryFacade {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

const exchangeRateColumns = `exchange_rate_id, from_currency_code, to_currency_code, rate, date_effective, created_at, last_updated_at`

func scanExchangeRate(row pgx.Row) (models.ExchangeRate, error) {
	var m models.ExchangeRate
	err := row.Scan(
		&m.ExchangeRateID, &m.FromCurrencyCode, &m.ToCurrencyCode,
		&m.Rate, &m.DateEffective, &m.CreatedAt, &m.LastUpdatedAt,
	)
	return m, err
}

// UpsertExchangeRate inserts a rate or replaces the rate already stored for the pair and date.
// The stored row is returned, so the ID is the original one on replacement.
func (r *PgxExchangeRateRepository) UpsertExchangeRate(ctx context.Context, rate domain.ExchangeRate) (*domain.ExchangeRate, error) {
	modelRate := mapping.ToModelExchangeRate(rate)
	modelRate.FromCurrencyCode = strings.ToUpper(modelRate.FromCurrencyCode)
	modelRate.ToCurrencyCode = strings.ToUpper(modelRate.ToCurrencyCode)

	query := `
		INSERT INTO exchange_rates (` + exchangeRateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT ON CONSTRAINT exchange_rates_pair_date_key DO UPDATE SET
			rate = EXCLUDED.rate,
			last_updated_at = EXCLUDED.last_updated_at
		RETURNING ` + exchangeRateColumns + `;
	`
	saved, err := scanExchangeRate(r.Pool.QueryRow(ctx, query,
		modelRate.ExchangeRateID, modelRate.FromCurrencyCode, modelRate.ToCurrencyCode,
		modelRate.Rate, modelRate.DateEffective, modelRate.CreatedAt, modelRate.LastUpdatedAt,
	))
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgForeignKeyViolation {
			return nil, fmt.Errorf("%w: unknown currency in pair %s/%s", apperrors.ErrValidation, modelRate.FromCurrencyCode, modelRate.ToCurrencyCode)
		}
		return nil, apperrors.NewAppError(500, "failed to save exchange rate", err)
	}

	d := mapping.ToDomainExchangeRate(saved)
	return &d, nil
}

// FindLatestRate retrieves the newest rate for the exact pair effective on or before asOf.
func (r *PgxExchangeRateRepository) FindLatestRate(ctx context.Context, fromCode, toCode string, asOf time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2 AND date_effective <= $3
		ORDER BY date_effective DESC, created_at DESC
		LIMIT 1;
	`
	modelRate, err := scanExchangeRate(r.Pool.QueryRow(ctx, query,
		strings.ToUpper(fromCode), strings.ToUpper(toCode), domain.TruncateToDate(asOf)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no exchange rate found for currency pair " + fromCode + " to " + toCode)
		}
		return nil, fmt.Errorf("failed to find exchange rate %s/%s: %w", fromCode, toCode, err)
	}

	d := mapping.ToDomainExchangeRate(modelRate)
	return &d, nil
}

// FindLatestRatesFrom returns, per target currency, the newest rate from base effective on or before asOf.
func (r *PgxExchangeRateRepository) FindLatestRatesFrom(ctx context.Context, baseCode string, asOf time.Time) ([]domain.ExchangeRate, error) {
	query := `
		SELECT DISTINCT ON (to_currency_code) ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE from_currency_code = $1 AND date_effective <= $2
		ORDER BY to_currency_code, date_effective DESC, created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, strings.ToUpper(baseCode), domain.TruncateToDate(asOf))
	if err != nil {
		return nil, fmt.Errorf("failed to query latest rates from %s: %w", baseCode, err)
	}
	defer rows.Close()

	modelRates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ExchangeRate, error) {
		return scanExchangeRate(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan latest rates: %w", err)
	}
	return mapping.ToDomainExchangeRateSlice(modelRates), nil
}

// ListExchangeRates lists rates newest first using a keyset cursor on (date_effective, created_at).
func (r *PgxExchangeRateRepository) ListExchangeRates(ctx context.Context, filter domain.ExchangeRateFilter) ([]domain.ExchangeRate, error) {
	var (
		conds []string
		args  queryArgs
	)

	if filter.FromCurrencyCode != "" {
		conds = append(conds, "from_currency_code = "+args.add(strings.ToUpper(filter.FromCurrencyCode)))
	}
	if filter.ToCurrencyCode != "" {
		conds = append(conds, "to_currency_code = "+args.add(strings.ToUpper(filter.ToCurrencyCode)))
	}
	if filter.Date != nil {
		conds = append(conds, "date_effective = "+args.add(domain.TruncateToDate(*filter.Date)))
	}
	if filter.AfterDate != nil && filter.AfterCreatedAt != nil {
		conds = append(conds, fmt.Sprintf("(date_effective, created_at) < (%s, %s)",
			args.add(domain.TruncateToDate(*filter.AfterDate)), args.add(*filter.AfterCreatedAt)))
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + exchangeRateColumns + ` FROM exchange_rates`)
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY date_effective DESC, created_at DESC")
	if filter.Limit > 0 {
		sb.WriteString(" LIMIT " + args.add(filter.Limit))
	}

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange rates: %w", err)
	}
	defer rows.Close()

	modelRates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ExchangeRate, error) {
		return scanExchangeRate(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan exchange rates: %w", err)
	}
	return mapping.ToDomainExchangeRateSlice(modelRates), nil
}
