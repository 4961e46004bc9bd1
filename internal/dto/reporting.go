package dto

import (
	"time"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/SscSPs/bank_ledger/internal/utils"
)

// StatementParams bounds a statement to [From, To). Dates are YYYY-MM-DD in UTC.
type StatementParams struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02" time_utc:"1"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02" time_utc:"1"`
}

type StatementResponse struct {
	AccountID      string                `json:"accountID"`
	From           time.Time             `json:"from"`
	To             time.Time             `json:"to"`
	OpeningBalance string                `json:"openingBalance"`
	ClosingBalance string                `json:"closingBalance"`
	TotalCredits   string                `json:"totalCredits"`
	TotalDebits    string                `json:"totalDebits"`
	Entries        []TransactionResponse `json:"entries"`
}

func ToStatementResponse(s *domain.Statement) StatementResponse {
	return StatementResponse{
		AccountID:      s.AccountID,
		From:           s.From,
		To:             s.To,
		OpeningBalance: utils.FormatAmount(s.OpeningBalance),
		ClosingBalance: utils.FormatAmount(s.ClosingBalance),
		TotalCredits:   utils.FormatAmount(s.TotalCredits),
		TotalDebits:    utils.FormatAmount(s.TotalDebits),
		Entries:        ToTransactionResponses(s.Entries),
	}
}
