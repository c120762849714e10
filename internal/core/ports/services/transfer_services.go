package services

import (
	"context"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
	"github.com/SscSPs/personal_finance_app/internal/dto"
	"github.com/shopspring/decimal"
)

// TransferSvcFacade moves money between a user's own cards.
type TransferSvcFacade interface {
	// CreateTransfer debits the source and credits the destination in one unit.
	CreateTransfer(ctx context.Context, userID string, req dto.CreateTransferRequest) (*domain.CardTransfer, error)

	// PreviewTransfer runs the same checks as CreateTransfer without changing anything.
	PreviewTransfer(ctx context.Context, userID string, req dto.CreateTransferRequest) (*domain.TransferPreview, error)

	ListTransfers(ctx context.Context, userID string, cardID *string) ([]domain.CardTransfer, error)
	GetTransfer(ctx context.Context, userID, transferID string) (*domain.CardTransfer, error)
	TransferHistory(ctx context.Context, userID string) (*domain.TransferHistory, error)

	// Rate returns today's rate for the pair or apperrors.ErrRateUnavailable.
	Rate(ctx context.Context, fromCode, toCode string) (decimal.Decimal, error)
}
