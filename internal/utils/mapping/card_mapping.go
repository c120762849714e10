package mapping

import (
	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	"github.com/SscSPs/personal_finance_app/internal/models"
)

// ToModelCard converts a domain Card to a model Card
func ToModelCard(d domain.Card) models.Card {
	return models.Card{
		CardID:          d.CardID,
		UserID:          d.UserID,
		CardName:        d.CardName,
		CardTypeID:      nullString(d.CardTypeID),
		CardTypeName:    nullString(d.CardTypeName),
		CurrencyCode:    d.CurrencyCode,
		Balance:         d.Balance,
		InitialBalance:  d.InitialBalance,
		CardNumberLast4: d.CardNumberLast4,
		BankName:        d.BankName,
		Color:           d.Color,
		Status:          string(d.Status),
		IsDefault:       d.IsDefault,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCard converts a model Card to a domain Card
func ToDomainCard(m models.Card) domain.Card {
	return domain.Card{
		CardID:          m.CardID,
		UserID:          m.UserID,
		CardName:        m.CardName,
		CardTypeID:      m.CardTypeID.String,
		CardTypeName:    m.CardTypeName.String,
		CurrencyCode:    m.CurrencyCode,
		Balance:         m.Balance,
		InitialBalance:  m.InitialBalance,
		CardNumberLast4: m.CardNumberLast4,
		BankName:        m.BankName,
		Color:           m.Color,
		Status:          domain.CardStatus(m.Status),
		IsDefault:       m.IsDefault,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCardSlice converts a slice of model Cards to a slice of domain Cards
func ToDomainCardSlice(ms []models.Card) []domain.Card {
	ds := make([]domain.Card, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCard(m)
	}
	return ds
}
