package model

import "github.com/shopspring/decimal"

// CreditStatus tracks repayment of a credit sale. It only ever moves forward.
// The refunded flag on the sale is a separate, terminal axis and never
// appears here.
type CreditStatus string

const (
	CreditPending CreditStatus = "pending"
	CreditPartial CreditStatus = "partial"
	CreditPaid    CreditStatus = "paid"
)

func (s CreditStatus) Valid() bool {
	switch s {
	case CreditPending, CreditPartial, CreditPaid:
		return true
	}
	return false
}

// CanTransitionTo reports whether s may move to next. Repayment is monotonic:
// pending may become partial or jump straight to paid, partial may only
// become paid, paid is final.
func (s CreditStatus) CanTransitionTo(next CreditStatus) bool {
	switch s {
	case CreditPending:
		return next == CreditPartial || next == CreditPaid
	case CreditPartial:
		return next == CreditPaid
	default:
		return false
	}
}

// StatusForBalance returns the status implied by the outstanding balance
// after a payment. Zero owed means paid, anything left means partial.
func StatusForBalance(owed decimal.Decimal) CreditStatus {
	if owed.IsZero() {
		return CreditPaid
	}
	return CreditPartial
}
