package services

import (
	"time"

	"github.com/SscSPs/personal_finance_app/internal/core/domain"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

func today() time.Time {
	return domain.TruncateToDate(nowUTC())
}
