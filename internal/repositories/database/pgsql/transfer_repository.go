package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/apperrors"
	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_finance_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxTransferRepository stores card to card transfers.
type PgxTransferRepository struct {
	BaseRepository
}

func newPgxTransferRepository(db *pgxpool.Pool) portsrepo.TransferRepositoryFacade {
	return &PgxTransferRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.TransferRepositoryFacade = (*PgxTransferRepository)(nil)

const transferSelect = `
	SELECT tr.transfer_id, tr.user_id, tr.from_card_id, tr.to_card_id, tr.amount, tr.exchange_rate,
		tr.converted_amount, tr.description, tr.created_at,
		fc.card_name, tc.card_name, fc.currency_code, tc.currency_code
	FROM card_transfers tr
	JOIN cards fc ON fc.card_id = tr.from_card_id
	JOIN cards tc ON tc.card_id = tr.to_card_id`

func scanTransfer(row pgx.Row) (domain.CardTransfer, error) {
	var t domain.CardTransfer
	err := row.Scan(
		&t.TransferID, &t.UserID, &t.FromCardID, &t.ToCardID, &t.Amount, &t.ExchangeRate,
		&t.ConvertedAmount, &t.Description, &t.CreatedAt,
		&t.FromCardName, &t.ToCardName, &t.FromCurrencyCode, &t.ToCurrencyCode,
	)
	return t, err
}

func (r *PgxTransferRepository) FindTransferByID(ctx context.Context, transferID string) (*domain.CardTransfer, error) {
	t, err := scanTransfer(r.Pool.QueryRow(ctx, transferSelect+` WHERE tr.transfer_id = $1;`, transferID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("transfer " + transferID + " not found")
		}
		return nil, fmt.Errorf("failed to find transfer %s: %w", transferID, err)
	}
	return &t, nil
}

func (r *PgxTransferRepository) ListTransfers(ctx context.Context, userID string, cardID *string, limit int) ([]domain.CardTransfer, error) {
	var args queryArgs
	query := transferSelect + ` WHERE tr.user_id = ` + args.add(userID)
	if cardID != nil {
		p := args.add(*cardID)
		query += ` AND (tr.from_card_id = ` + p + ` OR tr.to_card_id = ` + p + `)`
	}
	query += ` ORDER BY tr.created_at DESC`
	if limit > 0 {
		query += ` LIMIT ` + args.add(limit)
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfers: %w", err)
	}
	defer rows.Close()

	transfers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CardTransfer, error) {
		return scanTransfer(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan transfers: %w", err)
	}
	return transfers, nil
}

func (r *PgxTransferRepository) CountTransfers(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM card_transfers WHERE user_id = $1;`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count transfers: %w", err)
	}
	return n, nil
}

func (r *PgxTransferRepository) MonthlyTransferStats(ctx context.Context, userID string, since time.Time) ([]domain.MonthlyTransferStat, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT date_trunc('month', created_at AT TIME ZONE 'UTC')::date AS month, COUNT(*), SUM(amount)
		FROM card_transfers
		WHERE user_id = $1 AND created_at >= $2
		GROUP BY month
		ORDER BY month DESC;`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly transfer stats: %w", err)
	}
	defer rows.Close()

	stats, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.MonthlyTransferStat, error) {
		var s domain.MonthlyTransferStat
		err := row.Scan(&s.Month, &s.Count, &s.Total)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan monthly transfer stats: %w", err)
	}
	return stats, nil
}

func (r *PgxTransferRepository) SaveTransferInTx(ctx context.Context, tx pgx.Tx, t domain.CardTransfer) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO card_transfers (transfer_id, user_id, from_card_id, to_card_id, amount, exchange_rate,
			converted_amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
		t.TransferID, t.UserID, t.FromCardID, t.ToCardID, t.Amount, t.ExchangeRate,
		t.ConvertedAmount, t.Description, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save transfer: %w", err)
	}
	return nil
}
