package mapping

import (
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/SscSPs/bank_ledger/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:    d.TransactionID,
		TransactionRef:   d.TransactionRef,
		AccountID:        d.AccountID,
		TransactionType:  models.TransactionType(d.Type),
		Amount:           d.Amount,
		RelatedAccountID: toNullStringPtr(d.RelatedAccountID),
		BalanceAfter:     d.BalanceAfter,
		Description:      d.Description,
		CreatedAt:        d.CreatedAt,
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:    m.TransactionID,
		TransactionRef:   m.TransactionRef,
		AccountID:        m.AccountID,
		Type:             domain.TransactionType(m.TransactionType),
		Amount:           m.Amount,
		RelatedAccountID: fromNullStringPtr(m.RelatedAccountID),
		BalanceAfter:     m.BalanceAfter,
		Description:      m.Description,
		CreatedAt:        m.CreatedAt,
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
