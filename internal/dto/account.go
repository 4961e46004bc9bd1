package dto

import (
	"time"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/SscSPs/bank_ledger/internal/utils"
	"github.com/shopspring/decimal"
)

// AccountResponse defines the data returned for an account.
// The balance is not part of the account; see BalanceResponse.
type AccountResponse struct {
	AccountID          string             `json:"accountID"`
	AccountNumber      string             `json:"accountNumber"`
	CustomerID         string             `json:"customerID"`
	AccountType        domain.AccountType `json:"accountType"`
	IsActive           bool               `json:"isActive"`
	IsLocked           bool               `json:"isLocked"`
	InterestRate       *string            `json:"interestRate,omitempty"`
	LastInterestPeriod string             `json:"lastInterestPeriod,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
	LastUpdatedAt      time.Time          `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	resp := AccountResponse{
		AccountID:          acc.AccountID,
		AccountNumber:      acc.AccountNumber,
		CustomerID:         acc.CustomerID,
		AccountType:        acc.AccountType,
		IsActive:           acc.IsActive,
		IsLocked:           acc.IsLocked,
		LastInterestPeriod: acc.LastInterestPeriod,
		CreatedAt:          acc.CreatedAt,
		LastUpdatedAt:      acc.LastUpdatedAt,
	}
	if acc.InterestRate != nil {
		rate := acc.InterestRate.String()
		resp.InterestRate = &rate
	}
	return resp
}

// BalanceResponse is the derived balance of an account.
type BalanceResponse struct {
	AccountID string `json:"accountID"`
	Balance   string `json:"balance"`
}

func ToBalanceResponse(accountID string, balance decimal.Decimal) BalanceResponse {
	return BalanceResponse{AccountID: accountID, Balance: utils.FormatAmount(balance)}
}

type FeeResponse struct {
	FeeID          int64          `json:"feeID"`
	FeeType        domain.FeeType `json:"feeType"`
	Amount         string         `json:"amount"`
	BalanceBefore  string         `json:"balanceBefore"`
	BalanceAfter   string         `json:"balanceAfter"`
	TransactionRef string         `json:"transactionRef"`
	ChargedAt      time.Time      `json:"chargedAt"`
}

// ListFeesResponse wraps the fee history of an account, newest first.
type ListFeesResponse struct {
	AccountID string        `json:"accountID"`
	Fees      []FeeResponse `json:"fees"`
}

func ToListFeesResponse(accountID string, fees []domain.FeeRecord) ListFeesResponse {
	resp := ListFeesResponse{AccountID: accountID, Fees: make([]FeeResponse, len(fees))}
	for i, f := range fees {
		resp.Fees[i] = FeeResponse{
			FeeID:          f.FeeID,
			FeeType:        f.FeeType,
			Amount:         utils.FormatAmount(f.Amount),
			BalanceBefore:  utils.FormatAmount(f.BalanceBefore),
			BalanceAfter:   utils.FormatAmount(f.BalanceAfter),
			TransactionRef: f.TransactionRef,
			ChargedAt:      f.ChargedAt,
		}
	}
	return resp
}
