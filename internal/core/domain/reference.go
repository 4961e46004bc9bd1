package domain

import (
	"fmt"
	"time"
)

// ReferenceKind namespaces human-facing codes in the reference registry.
type ReferenceKind string

const (
	AccountNumberRef     ReferenceKind = "ACCOUNT_NUMBER"
	ApplicationNumberRef ReferenceKind = "APPLICATION_NUMBER"
	TransactionRef       ReferenceKind = "TRANSACTION_REF"
)

// Transaction reference prefixes, one per ledger operation.
const (
	RefPrefixDeposit      = "DEP"
	RefPrefixWithdrawal   = "WDR"
	RefPrefixTransfer     = "TRF"
	RefPrefixFee          = "FEE"
	RefPrefixLoanPayment  = "LPY"
	RefPrefixDisbursement = "LDB"
	RefPrefixInterest     = "INT"
)

// ReferencePattern describes how a candidate code is laid out.
// Only the random segment changes between attempts.
type ReferencePattern struct {
	Kind   ReferenceKind
	Prefix string
	Digits int
}

// AccountNumberPattern yields codes like SA-1234-2026.
func AccountNumberPattern(t AccountType) ReferencePattern {
	return ReferencePattern{Kind: AccountNumberRef, Prefix: t.NumberPrefix(), Digits: 4}
}

// ApplicationNumberPattern yields codes like APP-20261018-0042.
func ApplicationNumberPattern() ReferencePattern {
	return ReferencePattern{Kind: ApplicationNumberRef, Prefix: "APP", Digits: 4}
}

// TransactionRefPattern yields codes like TRF-20261018142501-004211.
func TransactionRefPattern(prefix string) ReferencePattern {
	return ReferencePattern{Kind: TransactionRef, Prefix: prefix, Digits: 6}
}

// Format renders a candidate for the given instant and random segment.
func (p ReferencePattern) Format(now time.Time, random string) string {
	switch p.Kind {
	case AccountNumberRef:
		return fmt.Sprintf("%s-%s-%04d", p.Prefix, random, now.Year())
	case ApplicationNumberRef:
		return fmt.Sprintf("%s-%s-%s", p.Prefix, now.Format("20060102"), random)
	default:
		return fmt.Sprintf("%s-%s-%s", p.Prefix, now.Format("20060102150405"), random)
	}
}
