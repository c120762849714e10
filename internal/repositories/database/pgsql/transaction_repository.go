package pgsql

import (
	"context"
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

// PgxTransactionRepository stores income and expense entries and their tag links.
type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(db *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const transactionSelect = `
	SELECT t.transaction_id, t.user_id, t.card_id, t.category_id, t.type, t.title, t.description,
		t.amount, t.amount_in_user_currency, t.user_currency, t.exchange_rate_used, t.date,
		t.location, t.receipt_image, t.created_at, t.last_updated_at,
		c.card_name, c.currency_code, COALESCE(ct.name, ''), cat.name, cat.icon, cat.color
	FROM transactions t
	JOIN cards c ON c.card_id = t.card_id
	LEFT JOIN card_types ct ON ct.card_type_id = c.card_type_id
	JOIN categories cat ON cat.category_id = t.category_id`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID, &m.UserID, &m.CardID, &m.CategoryID, &m.Type, &m.Title, &m.Description,
		&m.Amount, &m.AmountInUserCurrency, &m.UserCurrency, &m.ExchangeRateUsed, &m.Date,
		&m.Location, &m.ReceiptImage, &m.CreatedAt, &m.LastUpdatedAt,
		&m.CardName, &m.CardCurrency, &m.CardTypeName, &m.CategoryName, &m.CategoryIcon, &m.CategoryColor,
	)
	return m, err
}

func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, q querier, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	modelTxns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Transaction, error) {
		return scanTransaction(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}
	txns := make([]domain.Transaction, len(modelTxns))
	for i, m := range modelTxns {
		txns[i] = mapping.ToDomainTransaction(m)
	}
	return txns, nil
}

// attachTags loads the tags of all txns with one query.
func (r *PgxTransactionRepository) attachTags(ctx context.Context, q querier, txns []domain.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	ids := make([]string, len(txns))
	index := make(map[string]int, len(txns))
	for i, t := range txns {
		ids[i] = t.TransactionID
		index[t.TransactionID] = i
	}

	rows, err := q.Query(ctx, `
		SELECT tt.transaction_id, tg.tag_id, COALESCE(tg.user_id, ''), tg.name, tg.color, tg.created_at
		FROM transaction_tags tt
		JOIN tags tg ON tg.tag_id = tt.tag_id
		WHERE tt.transaction_id = ANY($1)
		ORDER BY tg.name;`, ids)
	if err != nil {
		return fmt.Errorf("failed to query transaction tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var txnID string
		var tag domain.Tag
		if err := rows.Scan(&txnID, &tag.TagID, &tag.UserID, &tag.Name, &tag.Color, &tag.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan transaction tag: %w", err)
		}
		i := index[txnID]
		txns[i].Tags = append(txns[i].Tags, tag)
	}
	return rows.Err()
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txns, err := r.queryTransactions(ctx, r.Pool, transactionSelect+` WHERE t.transaction_id = $1;`, transactionID)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, apperrors.NewNotFoundError("transaction " + transactionID + " not found")
	}
	if err := r.attachTags(ctx, r.Pool, txns); err != nil {
		return nil, err
	}
	return &txns[0], nil
}

var transactionOrderColumns = map[string]string{
	"date":       "t.date",
	"amount":     "t.amount",
	"created_at": "t.created_at",
}

// orderClause turns "-date" style input into SQL, defaulting to newest first.
func orderClause(orderBy string) string {
	dir := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		dir = "DESC"
		field = orderBy[1:]
	}
	col, ok := transactionOrderColumns[field]
	if !ok {
		return "t.date DESC, t.created_at DESC"
	}
	return col + " " + dir + ", t.created_at " + dir
}

func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, int, error) {
	var args queryArgs
	conds := []string{"t.user_id = " + args.add(userID)}

	if filter.Type != nil {
		conds = append(conds, "t.type = "+args.add(string(*filter.Type)))
	}
	if filter.CategoryID != nil {
		conds = append(conds, "t.category_id = "+args.add(*filter.CategoryID))
	}
	if filter.CardID != nil {
		conds = append(conds, "t.card_id = "+args.add(*filter.CardID))
	}
	if filter.TagID != nil {
		conds = append(conds, "EXISTS (SELECT 1 FROM transaction_tags tt WHERE tt.transaction_id = t.transaction_id AND tt.tag_id = "+args.add(*filter.TagID)+")")
	}
	if filter.DateAfter != nil {
		conds = append(conds, "t.date >= "+args.add(domain.TruncateToDate(*filter.DateAfter)))
	}
	if filter.DateBefore != nil {
		conds = append(conds, "t.date <= "+args.add(domain.TruncateToDate(*filter.DateBefore)))
	}
	if filter.AmountMin != nil {
		conds = append(conds, "t.amount >= "+args.add(*filter.AmountMin))
	}
	if filter.AmountMax != nil {
		conds = append(conds, "t.amount <= "+args.add(*filter.AmountMax))
	}
	if filter.AmountInUserCurrencyMin != nil {
		conds = append(conds, "t.amount_in_user_currency >= "+args.add(*filter.AmountInUserCurrencyMin))
	}
	if filter.AmountInUserCurrencyMax != nil {
		conds = append(conds, "t.amount_in_user_currency <= "+args.add(*filter.AmountInUserCurrencyMax))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		p := args.add(s)
		conds = append(conds, fmt.Sprintf("(t.title ILIKE '%%' || %s || '%%' OR t.description ILIKE '%%' || %s || '%%' OR t.location ILIKE '%%' || %s || '%%')", p, p, p))
	}
	where := " WHERE " + strings.Join(conds, " AND ")

	var total int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions t`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := transactionSelect + where + " ORDER BY " + orderClause(filter.OrderBy)
	if filter.Limit > 0 {
		query += " LIMIT " + args.add(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + args.add(filter.Offset)
	}

	txns, err := r.queryTransactions(ctx, r.Pool, query, args...)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachTags(ctx, r.Pool, txns); err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

func (r *PgxTransactionRepository) CountUserTransactions(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1;`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}

func (r *PgxTransactionRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction, tagIDs []string) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (transaction_id, user_id, card_id, category_id, type, title, description,
			amount, amount_in_user_currency, user_currency, exchange_rate_used, date, location, receipt_image,
			created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := tx.Exec(ctx, query,
		m.TransactionID, m.UserID, m.CardID, m.CategoryID, m.Type, m.Title, m.Description,
		m.Amount, m.AmountInUserCurrency, m.UserCurrency, m.ExchangeRateUsed, m.Date, m.Location, m.ReceiptImage,
		m.CreatedAt, m.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return linkTags(ctx, tx, m.TransactionID, tagIDs)
}

func linkTags(ctx context.Context, tx pgx.Tx, transactionID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO transaction_tags (transaction_id, tag_id)
		SELECT $1, UNNEST($2::varchar[])
		ON CONFLICT DO NOTHING;`, transactionID, tagIDs)
	if err != nil {
		return fmt.Errorf("failed to link tags to transaction %s: %w", transactionID, err)
	}
	return nil
}

func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, tagIDs []string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	m := mapping.ToModelTransaction(txn)
	tag, err := tx.Exec(ctx, `
		UPDATE transactions
		SET category_id = $2, title = $3, description = $4, date = $5, location = $6, receipt_image = $7, last_updated_at = $8
		WHERE transaction_id = $1;`,
		m.TransactionID, m.CategoryID, m.Title, m.Description, m.Date, m.Location, m.ReceiptImage, m.LastUpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", m.TransactionID, err)
	}
	if err := requireRow(tag, "transaction", m.TransactionID); err != nil {
		return err
	}

	if tagIDs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM transaction_tags WHERE transaction_id = $1;`, m.TransactionID); err != nil {
			return fmt.Errorf("failed to clear tags of transaction %s: %w", m.TransactionID, err)
		}
		if err := linkTags(ctx, tx, m.TransactionID, tagIDs); err != nil {
			return err
		}
	}
	return r.Commit(ctx, tx)
}

func (r *PgxTransactionRepository) FindTransactionsByIDsForUpdate(ctx context.Context, tx pgx.Tx, userID string, ids []string) ([]domain.Transaction, error) {
	query := transactionSelect + `
		WHERE t.user_id = $1 AND t.transaction_id = ANY($2)
		ORDER BY t.transaction_id
		FOR UPDATE OF t;`
	return r.queryTransactions(ctx, tx, query, userID, ids)
}

func (r *PgxTransactionRepository) DeleteTransactionsInTx(ctx context.Context, tx pgx.Tx, ids []string) (int, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = ANY($1);`, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete transactions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *PgxTransactionRepository) SumByCategory(ctx context.Context, userID string, period domain.DateRange) ([]domain.CategoryTotal, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT cat.category_id, cat.name, cat.icon, cat.color, t.type,
			SUM(t.amount_in_user_currency), COUNT(*)
		FROM transactions t
		JOIN categories cat ON cat.category_id = t.category_id
		WHERE t.user_id = $1 AND t.date BETWEEN $2 AND $3
		GROUP BY cat.category_id, cat.name, cat.icon, cat.color, t.type
		ORDER BY SUM(t.amount_in_user_currency) DESC;`,
		userID, domain.TruncateToDate(period.Start), domain.TruncateToDate(period.End))
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions by category: %w", err)
	}
	defer rows.Close()

	totals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CategoryTotal, error) {
		var c domain.CategoryTotal
		err := row.Scan(&c.CategoryID, &c.CategoryName, &c.CategoryIcon, &c.CategoryColor, &c.Type, &c.Total, &c.Count)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan category totals: %w", err)
	}
	return totals, nil
}

func scanDateTotal(row pgx.CollectableRow) (domain.DateTotal, error) {
	var d domain.DateTotal
	if err := row.Scan(&d.Period, &d.Income, &d.Expense, &d.Count); err != nil {
		return d, err
	}
	d.Net = d.Income.Sub(d.Expense)
	return d, nil
}

func (r *PgxTransactionRepository) SumByDate(ctx context.Context, userID string, period domain.DateRange, grouping domain.Grouping) ([]domain.DateTotal, error) {
	if !grouping.IsValid() {
		return nil, fmt.Errorf("%w: unknown grouping %q", apperrors.ErrValidation, grouping)
	}
	rows, err := r.Pool.Query(ctx, `
		SELECT date_trunc($4, t.date::timestamp)::date AS bucket,
			COALESCE(SUM(t.amount_in_user_currency) FILTER (WHERE t.type = 'income'), 0),
			COALESCE(SUM(t.amount_in_user_currency) FILTER (WHERE t.type = 'expense'), 0),
			COUNT(*)
		FROM transactions t
		WHERE t.user_id = $1 AND t.date BETWEEN $2 AND $3
		GROUP BY bucket
		ORDER BY bucket;`,
		userID, domain.TruncateToDate(period.Start), domain.TruncateToDate(period.End), string(grouping))
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions by date: %w", err)
	}
	defer rows.Close()

	totals, err := pgx.CollectRows(rows, scanDateTotal)
	if err != nil {
		return nil, fmt.Errorf("failed to scan date totals: %w", err)
	}
	return totals, nil
}

func (r *PgxTransactionRepository) SumByCard(ctx context.Context, userID string, period domain.DateRange) ([]domain.CardTotal, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT c.card_id, c.card_name, c.currency_code,
			COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'income'), 0),
			COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'expense'), 0),
			COUNT(*)
		FROM transactions t
		JOIN cards c ON c.card_id = t.card_id
		WHERE t.user_id = $1 AND t.date BETWEEN $2 AND $3
		GROUP BY c.card_id, c.card_name, c.currency_code
		ORDER BY c.card_name;`,
		userID, domain.TruncateToDate(period.Start), domain.TruncateToDate(period.End))
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions by card: %w", err)
	}
	defer rows.Close()

	totals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CardTotal, error) {
		var c domain.CardTotal
		err := row.Scan(&c.CardID, &c.CardName, &c.CurrencyCode, &c.Income, &c.Expense, &c.Count)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan card totals: %w", err)
	}
	return totals, nil
}

func (r *PgxTransactionRepository) SumCardTransactions(ctx context.Context, cardID string, period domain.DateRange) (*domain.CardTransactionSummary, error) {
	s := domain.CardTransactionSummary{CardID: cardID, Period: period}
	err := r.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0),
			COUNT(*)
		FROM transactions
		WHERE card_id = $1 AND date BETWEEN $2 AND $3;`,
		cardID, domain.TruncateToDate(period.Start), domain.TruncateToDate(period.End),
	).Scan(&s.TotalIncome, &s.TotalExpense, &s.TransactionCount)
	if err != nil {
		return nil, fmt.Errorf("failed to summarise card %s: %w", cardID, err)
	}
	s.Net = s.TotalIncome.Sub(s.TotalExpense)
	return &s, nil
}

func (r *PgxTransactionRepository) SumExpensesByCurrency(ctx context.Context, userID, categoryID string, period domain.DateRange) ([]domain.CurrencyAmount, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT c.currency_code, SUM(t.amount)
		FROM transactions t
		JOIN cards c ON c.card_id = t.card_id
		WHERE t.user_id = $1 AND t.category_id = $2 AND t.type = 'expense'
			AND t.date BETWEEN $3 AND $4
		GROUP BY c.currency_code
		ORDER BY c.currency_code;`,
		userID, categoryID, domain.TruncateToDate(period.Start), domain.TruncateToDate(period.End))
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses by currency: %w", err)
	}
	defer rows.Close()

	sums, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CurrencyAmount, error) {
		var a domain.CurrencyAmount
		err := row.Scan(&a.CurrencyCode, &a.Amount)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan currency sums: %w", err)
	}
	return sums, nil
}

func (r *PgxTransactionRepository) SumMonthlyCategoryExpenses(ctx context.Context, userID, categoryID string, since time.Time) ([]domain.DateTotal, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT date_trunc('month', date::timestamp)::date AS month,
			0::numeric,
			SUM(amount_in_user_currency),
			COUNT(*)
		FROM transactions
		WHERE user_id = $1 AND category_id = $2 AND type = 'expense' AND date >= $3
		GROUP BY month
		ORDER BY month;`,
		userID, categoryID, domain.TruncateToDate(since))
	if err != nil {
		return nil, fmt.Errorf("failed to sum monthly category expenses: %w", err)
	}
	defer rows.Close()

	totals, err := pgx.CollectRows(rows, scanDateTotal)
	if err != nil {
		return nil, fmt.Errorf("failed to scan monthly expenses: %w", err)
	}
	return totals, nil
}
