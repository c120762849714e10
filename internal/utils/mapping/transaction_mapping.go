package mapping

import (
	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	"github.com/SscSPs/personal_finance_app/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:        d.TransactionID,
		UserID:               d.UserID,
		CardID:               d.CardID,
		CategoryID:           d.CategoryID,
		Type:                 string(d.Type),
		Title:                d.Title,
		Description:          d.Description,
		Amount:               d.Amount,
		AmountInUserCurrency: d.AmountInUserCurrency,
		UserCurrency:         d.UserCurrency,
		ExchangeRateUsed:     d.ExchangeRateUsed,
		Date:                 domain.TruncateToDate(d.Date),
		Location:             d.Location,
		ReceiptImage:         d.ReceiptImage,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction.
// Tags are loaded separately.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:        m.TransactionID,
		UserID:               m.UserID,
		CardID:               m.CardID,
		CategoryID:           m.CategoryID,
		Type:                 domain.TransactionType(m.Type),
		Title:                m.Title,
		Description:          m.Description,
		Amount:               m.Amount,
		AmountInUserCurrency: m.AmountInUserCurrency,
		UserCurrency:         m.UserCurrency,
		ExchangeRateUsed:     m.ExchangeRateUsed,
		Date:                 m.Date,
		Location:             m.Location,
		ReceiptImage:         m.ReceiptImage,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
		CardName:             m.CardName,
		CardCurrency:         m.CardCurrency,
		CardTypeName:         m.CardTypeName,
		CategoryName:         m.CategoryName,
		CategoryIcon:         m.CategoryIcon,
		CategoryColor:        m.CategoryColor,
		Tags:                 []domain.Tag{},
	}
}
