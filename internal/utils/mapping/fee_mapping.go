package mapping

import (
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/SscSPs/bank_ledger/internal/models"
)

// ToModelFeeRecord converts a domain FeeRecord to a model FeeRecord
func ToModelFeeRecord(d domain.FeeRecord) models.FeeRecord {
	return models.FeeRecord{
		FeeID:          d.FeeID,
		AccountID:      d.AccountID,
		FeeType:        string(d.FeeType),
		Amount:         d.Amount,
		BalanceBefore:  d.BalanceBefore,
		BalanceAfter:   d.BalanceAfter,
		TransactionRef: d.TransactionRef,
		ChargedAt:      d.ChargedAt,
	}
}

// ToDomainFeeRecord converts a model FeeRecord to a domain FeeRecord
func ToDomainFeeRecord(m models.FeeRecord) domain.FeeRecord {
	return domain.FeeRecord{
		FeeID:          m.FeeID,
		AccountID:      m.AccountID,
		FeeType:        domain.FeeType(m.FeeType),
		Amount:         m.Amount,
		BalanceBefore:  m.BalanceBefore,
		BalanceAfter:   m.BalanceAfter,
		TransactionRef: m.TransactionRef,
		ChargedAt:      m.ChargedAt,
	}
}
