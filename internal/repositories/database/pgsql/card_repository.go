package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/apperrors"
	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_finance_app/internal/core/ports/repositories"
	"github.com/SscSPs/personal_finance_app/internal/models"
	"github.com/SscSPs/personal_finance_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxCardRepository stores cards and card types.
type PgxCardRepository struct {
	BaseRepository
}

func newPgxCardRepository(db *pgxpool.Pool) portsrepo.CardRepositoryWithTx {
	return &PgxCardRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.CardRepositoryWithTx = (*PgxCardRepository)(nil)

const cardSelect = `
	SELECT c.card_id, c.user_id, c.card_name, c.card_type_id, ct.name, c.currency_code,
		c.balance, c.initial_balance, c.card_number_last4, c.bank_name, c.color,
		c.status, c.is_default, c.created_at, c.last_updated_at
	FROM cards c
	LEFT JOIN card_types ct ON ct.card_type_id = c.card_type_id`

func scanCard(row pgx.Row) (models.Card, error) {
	var m models.Card
	err := row.Scan(
		&m.CardID, &m.UserID, &m.CardName, &m.CardTypeID, &m.CardTypeName, &m.CurrencyCode,
		&m.Balance, &m.InitialBalance, &m.CardNumberLast4, &m.BankName, &m.Color,
		&m.Status, &m.IsDefault, &m.CreatedAt, &m.LastUpdatedAt,
	)
	return m, err
}

func collectCards(rows pgx.Rows) ([]domain.Card, error) {
	modelCards, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Card, error) {
		return scanCard(row)
	})
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainCardSlice(modelCards), nil
}

func (r *PgxCardRepository) FindCardByID(ctx context.Context, cardID string) (*domain.Card, error) {
	m, err := scanCard(r.Pool.QueryRow(ctx, cardSelect+` WHERE c.card_id = $1;`, cardID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("card " + cardID + " not found")
		}
		return nil, fmt.Errorf("failed to find card %s: %w", cardID, err)
	}
	card := mapping.ToDomainCard(m)
	return &card, nil
}

func (r *PgxCardRepository) ListCards(ctx context.Context, userID string, filter domain.CardFilter) ([]domain.Card, error) {
	var args queryArgs
	conds := []string{"c.user_id = " + args.add(userID)}

	if filter.Status != nil {
		conds = append(conds, "c.status = "+args.add(string(*filter.Status)))
	}
	if filter.CardTypeID != nil {
		conds = append(conds, "c.card_type_id = "+args.add(*filter.CardTypeID))
	}
	if filter.Currency != nil {
		conds = append(conds, "c.currency_code = "+args.add(strings.ToUpper(*filter.Currency)))
	}
	if filter.IsDefault != nil {
		conds = append(conds, "c.is_default = "+args.add(*filter.IsDefault))
	}
	if filter.BankName != nil && *filter.BankName != "" {
		conds = append(conds, "c.bank_name ILIKE '%' || "+args.add(*filter.BankName)+" || '%'")
	}
	if filter.BalanceMin != nil {
		conds = append(conds, "c.balance >= "+args.add(*filter.BalanceMin))
	}
	if filter.BalanceMax != nil {
		conds = append(conds, "c.balance <= "+args.add(*filter.BalanceMax))
	}

	query := cardSelect + ` WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY c.is_default DESC, c.created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	cards, err := collectCards(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan cards: %w", err)
	}
	return cards, nil
}

func (r *PgxCardRepository) CountActiveCards(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM cards WHERE user_id = $1 AND status = $2;`,
		userID, string(domain.CardActive)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count active cards: %w", err)
	}
	return n, nil
}

func (r *PgxCardRepository) CountCardTransactions(ctx context.Context, cardID string) (int, error) {
	query := `
		SELECT (SELECT COUNT(*) FROM transactions WHERE card_id = $1)
			+ (SELECT COUNT(*) FROM card_transfers WHERE from_card_id = $1 OR to_card_id = $1);
	`
	var n int
	if err := r.Pool.QueryRow(ctx, query, cardID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count card transactions: %w", err)
	}
	return n, nil
}

func scanCardType(row pgx.Row) (domain.CardType, error) {
	var ct domain.CardType
	err := row.Scan(&ct.CardTypeID, &ct.Name, &ct.Logo, &ct.IsInternational, &ct.IsActive)
	return ct, err
}

func (r *PgxCardRepository) ListCardTypes(ctx context.Context) ([]domain.CardType, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT card_type_id, name, logo, is_international, is_active
		FROM card_types
		WHERE is_active
		ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query card types: %w", err)
	}
	defer rows.Close()

	types, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CardType, error) {
		return scanCardType(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan card types: %w", err)
	}
	return types, nil
}

func (r *PgxCardRepository) FindCardTypeByID(ctx context.Context, cardTypeID string) (*domain.CardType, error) {
	ct, err := scanCardType(r.Pool.QueryRow(ctx, `
		SELECT card_type_id, name, logo, is_international, is_active
		FROM card_types WHERE card_type_id = $1;`, cardTypeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("card type " + cardTypeID + " not found")
		}
		return nil, fmt.Errorf("failed to find card type %s: %w", cardTypeID, err)
	}
	return &ct, nil
}

func (r *PgxCardRepository) SaveCardInTx(ctx context.Context, tx pgx.Tx, card domain.Card) error {
	m := mapping.ToModelCard(card)
	query := `
		INSERT INTO cards (card_id, user_id, card_name, card_type_id, currency_code, balance, initial_balance,
			card_number_last4, bank_name, color, status, is_default, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, query,
		m.CardID, m.UserID, m.CardName, m.CardTypeID, m.CurrencyCode, m.Balance, m.InitialBalance,
		m.CardNumberLast4, m.BankName, m.Color, m.Status, m.IsDefault, m.CreatedAt, m.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save card: %w", err)
	}
	return nil
}

func (r *PgxCardRepository) UpdateCard(ctx context.Context, card domain.Card) error {
	m := mapping.ToModelCard(card)
	query := `
		UPDATE cards
		SET card_name = $2, card_type_id = $3, card_number_last4 = $4, bank_name = $5, color = $6, last_updated_at = $7
		WHERE card_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.CardID, m.CardName, m.CardTypeID, m.CardNumberLast4, m.BankName, m.Color, m.LastUpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update card %s: %w", m.CardID, err)
	}
	return requireRow(tag, "card", m.CardID)
}

func (r *PgxCardRepository) UpdateCardStatus(ctx context.Context, cardID string, status domain.CardStatus, now time.Time) error {
	query := `
		UPDATE cards
		SET status = $2, is_default = is_default AND $2 = 'active', last_updated_at = $3
		WHERE card_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, cardID, string(status), now)
	if err != nil {
		return fmt.Errorf("failed to update card status %s: %w", cardID, err)
	}
	return requireRow(tag, "card", cardID)
}

// SetDefaultCardInTx flips every card of the user in one statement so exactly one stays default.
func (r *PgxCardRepository) SetDefaultCardInTx(ctx context.Context, tx pgx.Tx, userID, cardID string, now time.Time) error {
	query := `
		UPDATE cards
		SET is_default = (card_id = $2), last_updated_at = $3
		WHERE user_id = $1 AND (is_default OR card_id = $2);
	`
	if _, err := tx.Exec(ctx, query, userID, cardID, now); err != nil {
		return fmt.Errorf("failed to set default card %s: %w", cardID, err)
	}
	return nil
}

// cardDeleteError maps a transfer still referencing the card to ErrHasTransactions.
func cardDeleteError(err error, cardID string) error {
	if code, _ := pgErrorCode(err); code == pgForeignKeyViolation {
		return fmt.Errorf("%w: card %s is referenced by transfers", apperrors.ErrHasTransactions, cardID)
	}
	return fmt.Errorf("failed to delete card %s: %w", cardID, err)
}

func (r *PgxCardRepository) DeleteCard(ctx context.Context, cardID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM cards WHERE card_id = $1;`, cardID)
	if err != nil {
		return cardDeleteError(err, cardID)
	}
	return requireRow(tag, "card", cardID)
}

// CountCardsForUpdateInTx locks the owning user row, then counts the user's cards.
// Concurrent card creations for the same user serialize on that lock.
func (r *PgxCardRepository) CountCardsForUpdateInTx(ctx context.Context, tx pgx.Tx, userID string) (int, error) {
	var locked string
	err := tx.QueryRow(ctx, `SELECT user_id FROM users WHERE user_id = $1 FOR UPDATE;`, userID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NewNotFoundError("user " + userID + " not found")
		}
		return 0, fmt.Errorf("failed to lock user %s: %w", userID, err)
	}
	var n int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM cards WHERE user_id = $1;`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return n, nil
}

// FindCardsByIDsForUpdate locks rows in card_id order so concurrent transfers cannot deadlock.
func (r *PgxCardRepository) FindCardsByIDsForUpdate(ctx context.Context, tx pgx.Tx, cardIDs []string) (map[string]domain.Card, error) {
	query := `
		SELECT c.card_id, c.user_id, c.card_name, c.card_type_id, NULL::varchar, c.currency_code,
			c.balance, c.initial_balance, c.card_number_last4, c.bank_name, c.color,
			c.status, c.is_default, c.created_at, c.last_updated_at
		FROM cards c
		WHERE c.card_id = ANY($1)
		ORDER BY c.card_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, cardIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock cards: %w", err)
	}
	defer rows.Close()

	cards, err := collectCards(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan locked cards: %w", err)
	}
	byID := make(map[string]domain.Card, len(cards))
	for _, c := range cards {
		byID[c.CardID] = c
	}
	return byID, nil
}

func (r *PgxCardRepository) UpdateCardBalancesInTx(ctx context.Context, tx pgx.Tx, deltas map[string]decimal.Decimal, now time.Time) error {
	ids := make([]string, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(`UPDATE cards SET balance = balance + $2, last_updated_at = $3 WHERE card_id = $1;`, id, deltas[id], now)
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for _, id := range ids {
		tag, err := br.Exec()
		if err != nil {
			if code, _ := pgErrorCode(err); code == pgCheckViolation {
				return fmt.Errorf("%w: card %s", apperrors.ErrInsufficientFunds, id)
			}
			return fmt.Errorf("failed to update balance of card %s: %w", id, err)
		}
		if err := requireRow(tag, "card", id); err != nil {
			return err
		}
	}
	return nil
}

func (r *PgxCardRepository) SetCardBalanceInTx(ctx context.Context, tx pgx.Tx, cardID string, balance decimal.Decimal, now time.Time) error {
	tag, err := tx.Exec(ctx, `UPDATE cards SET balance = $2, last_updated_at = $3 WHERE card_id = $1;`, cardID, balance, now)
	if err != nil {
		return fmt.Errorf("failed to set balance of card %s: %w", cardID, err)
	}
	return requireRow(tag, "card", cardID)
}
