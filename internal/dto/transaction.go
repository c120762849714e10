package dto

import (
	"strings"
	"time"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record income or expense.
type CreateTransactionRequest struct {
	CardID       string                 `json:"cardID" binding:"required,uuid"`
	CategoryID   string                 `json:"categoryID" binding:"required,max=36"`
	Type         domain.TransactionType `json:"type" binding:"required,oneof=income expense"`
	Amount       decimal.Decimal        `json:"amount" binding:"required"`
	Title        string                 `json:"title" binding:"max=200"`
	Description  string                 `json:"description" binding:"max=1000"`
	Date         *time.Time             `json:"date"`
	Location     string                 `json:"location" binding:"max=200"`
	ReceiptImage string                 `json:"receiptImage" binding:"omitempty,url"`
	TagIDs       []string               `json:"tagIDs" binding:"omitempty,dive,max=36"`
}

// UpdateTransactionRequest changes a transaction's metadata. Amount, type and card are immutable.
type UpdateTransactionRequest struct {
	CategoryID   *string    `json:"categoryID" binding:"omitempty,max=36"`
	Title        *string    `json:"title" binding:"omitempty,max=200"`
	Description  *string    `json:"description" binding:"omitempty,max=1000"`
	Date         *time.Time `json:"date"`
	Location     *string    `json:"location" binding:"omitempty,max=200"`
	ReceiptImage *string    `json:"receiptImage" binding:"omitempty,url"`
	TagIDs       *[]string  `json:"tagIDs" binding:"omitempty,dive,max=36"`
}

// BulkDeleteRequest deletes several transactions at once.
type BulkDeleteRequest struct {
	TransactionIDs []string `json:"transactionIDs" binding:"required,min=1,max=500,dive,uuid"`
}

// BulkDeleteResponse reports how many transactions were deleted.
type BulkDeleteResponse struct {
	Deleted int `json:"deleted"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Type                    *string          `form:"type" binding:"omitempty,oneof=income expense"`
	CategoryID              *string          `form:"category"`
	CardID                  *string          `form:"card"`
	TagID                   *string          `form:"tag"`
	DateAfter               *time.Time       `form:"date_after" time_format:"2006-01-02"`
	DateBefore              *time.Time       `form:"date_before" time_format:"2006-01-02"`
	AmountMin               *decimal.Decimal `form:"amount_min"`
	AmountMax               *decimal.Decimal `form:"amount_max"`
	AmountInUserCurrencyMin *decimal.Decimal `form:"amount_in_user_currency_min"`
	AmountInUserCurrencyMax *decimal.Decimal `form:"amount_in_user_currency_max"`
	Search                  string           `form:"search"`
	Ordering                string           `form:"ordering" binding:"omitempty,oneof=date -date amount -amount created_at -created_at"`
	Limit                   int              `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset                  int              `form:"offset,default=0" binding:"omitempty,min=0"`
}

// ToFilter converts the query parameters into a domain filter.
func (p ListTransactionsParams) ToFilter() domain.TransactionFilter {
	f := domain.TransactionFilter{
		CategoryID:              p.CategoryID,
		CardID:                  p.CardID,
		TagID:                   p.TagID,
		DateAfter:               p.DateAfter,
		DateBefore:              p.DateBefore,
		AmountMin:               p.AmountMin,
		AmountMax:               p.AmountMax,
		AmountInUserCurrencyMin: p.AmountInUserCurrencyMin,
		AmountInUserCurrencyMax: p.AmountInUserCurrencyMax,
		Search:                  strings.TrimSpace(p.Search),
		OrderBy:                 p.Ordering,
		Limit:                   p.Limit,
		Offset:                  p.Offset,
	}
	if p.Type != nil {
		t := domain.TransactionType(*p.Type)
		f.Type = &t
	}
	return f
}

// DateRangeParams bounds aggregate queries. A named period overrides explicit dates.
type DateRangeParams struct {
	Period    string     `form:"period" binding:"omitempty,oneof=week month year"`
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"end_date" time_format:"2006-01-02"`
}

// ToDateRange resolves the parameters against today, defaulting to the current month.
func (p DateRangeParams) ToDateRange(today time.Time) domain.DateRange {
	switch p.Period {
	case "week":
		return domain.PeriodWindow(domain.PeriodWeekly, today)
	case "year":
		return domain.PeriodWindow(domain.PeriodYearly, today)
	case "month":
		return domain.PeriodWindow(domain.PeriodMonthly, today)
	}
	r := domain.PeriodWindow(domain.PeriodMonthly, today)
	if p.StartDate != nil {
		r.Start = domain.TruncateToDate(*p.StartDate)
	}
	if p.EndDate != nil {
		r.End = domain.TruncateToDate(*p.EndDate)
	}
	return r
}

// ByDateParams adds a grouping to a date range.
type ByDateParams struct {
	DateRangeParams
	GroupBy string `form:"group_by,default=day" binding:"omitempty,oneof=day week month"`
}

// RecentParams limits a recent-items query.
type RecentParams struct {
	Limit int `form:"limit,default=10" binding:"omitempty,min=1,max=50"`
}

// TagRef is a tag embedded in a transaction.
type TagRef struct {
	TagID string `json:"tagID"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// TransactionListView is the compact transaction shape used in listings.
type TransactionListView struct {
	TransactionID        string                 `json:"transactionID"`
	Type                 domain.TransactionType `json:"type"`
	Title                string                 `json:"title,omitempty"`
	Amount               decimal.Decimal        `json:"amount"`
	CardCurrency         string                 `json:"cardCurrency"`
	AmountInUserCurrency decimal.Decimal        `json:"amountInUserCurrency"`
	UserCurrency         string                 `json:"userCurrency"`
	Date                 time.Time              `json:"date"`
	CardID               string                 `json:"cardID"`
	CardName             string                 `json:"cardName"`
	CategoryID           string                 `json:"categoryID"`
	CategoryName         string                 `json:"categoryName"`
	CategoryIcon         string                 `json:"categoryIcon,omitempty"`
	CategoryColor        string                 `json:"categoryColor,omitempty"`
}

// TransactionDetailView is the full transaction shape.
type TransactionDetailView struct {
	TransactionListView
	Description      string           `json:"description,omitempty"`
	Location         string           `json:"location,omitempty"`
	ReceiptImage     string           `json:"receiptImage,omitempty"`
	ExchangeRateUsed *decimal.Decimal `json:"exchangeRateUsed"`
	CardTypeName     string           `json:"cardTypeName,omitempty"`
	Tags             []TagRef         `json:"tags"`
	CreatedAt        time.Time        `json:"createdAt"`
	LastUpdatedAt    time.Time        `json:"lastUpdatedAt"`
}

// TransactionCreateResult is returned after recording a transaction.
type TransactionCreateResult struct {
	TransactionID        string           `json:"transactionID"`
	Amount               decimal.Decimal  `json:"amount"`
	AmountInUserCurrency decimal.Decimal  `json:"amountInUserCurrency"`
	UserCurrency         string           `json:"userCurrency"`
	ExchangeRateUsed     *decimal.Decimal `json:"exchangeRateUsed"`
	CardBalance          decimal.Decimal  `json:"cardBalance"`
}

// ListTransactionsResponse is one page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionListView `json:"transactions"`
	Total        int                   `json:"total"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

// ToTransactionListView converts a domain.Transaction to its listing shape.
func ToTransactionListView(t *domain.Transaction) TransactionListView {
	return TransactionListView{
		TransactionID:        t.TransactionID,
		Type:                 t.Type,
		Title:                t.Title,
		Amount:               t.Amount,
		CardCurrency:         t.CardCurrency,
		AmountInUserCurrency: t.AmountInUserCurrency,
		UserCurrency:         t.UserCurrency,
		Date:                 t.Date,
		CardID:               t.CardID,
		CardName:             t.CardName,
		CategoryID:           t.CategoryID,
		CategoryName:         t.CategoryName,
		CategoryIcon:         t.CategoryIcon,
		CategoryColor:        t.CategoryColor,
	}
}

// ToTransactionListViews converts transactions to their listing shape.
func ToTransactionListViews(txns []domain.Transaction) []TransactionListView {
	res := make([]TransactionListView, len(txns))
	for i := range txns {
		res[i] = ToTransactionListView(&txns[i])
	}
	return res
}

// ToTransactionDetailView converts a domain.Transaction to its detail shape.
func ToTransactionDetailView(t *domain.Transaction) TransactionDetailView {
	tags := make([]TagRef, len(t.Tags))
	for i, tag := range t.Tags {
		tags[i] = TagRef{TagID: tag.TagID, Name: tag.Name, Color: tag.Color}
	}
	return TransactionDetailView{
		TransactionListView: ToTransactionListView(t),
		Description:         t.Description,
		Location:            t.Location,
		ReceiptImage:        t.ReceiptImage,
		ExchangeRateUsed:    t.ExchangeRateUsed,
		CardTypeName:        t.CardTypeName,
		Tags:                tags,
		CreatedAt:           t.CreatedAt,
		LastUpdatedAt:       t.LastUpdatedAt,
	}
}

// ToTransactionCreateResult builds the creation result from the stored transaction and the card's new balance.
func ToTransactionCreateResult(t *domain.Transaction, cardBalance decimal.Decimal) TransactionCreateResult {
	return TransactionCreateResult{
		TransactionID:        t.TransactionID,
		Amount:               t.Amount,
		AmountInUserCurrency: t.AmountInUserCurrency,
		UserCurrency:         t.UserCurrency,
		ExchangeRateUsed:     t.ExchangeRateUsed,
		CardBalance:          cardBalance,
	}
}
