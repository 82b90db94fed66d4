package domain

// TransactionStatus is the gateway's view of a transaction.
type TransactionStatus string

const (
	TxSuccess   TransactionStatus = "success"
	TxPending   TransactionStatus = "pending"
	TxAbandoned TransactionStatus = "abandoned"
	TxFailed    TransactionStatus = "failed"
	TxReversed  TransactionStatus = "reversed"
	TxCancelled TransactionStatus = "cancelled"
	TxUnknown   TransactionStatus = "unknown"
)

// ParseTransactionStatus maps a raw gateway status string to a known
// status, defaulting to unknown so new gateway statuses never complete
// or revert a resource by accident.
func ParseTransactionStatus(raw string) TransactionStatus {
	switch TransactionStatus(raw) {
	case TxSuccess, TxPending, TxAbandoned, TxFailed, TxReversed, TxCancelled:
		return TransactionStatus(raw)
	default:
		return TxUnknown
	}
}

// IsTerminalFailure reports whether the status frees the resource for a
// fresh initiate.
func (s TransactionStatus) IsTerminalFailure() bool {
	switch s {
	case TxAbandoned, TxFailed, TxReversed, TxCancelled:
		return true
	default:
		return false
	}
}

// RemoteTransaction is the gateway's record for a reference. It is not
// owned by this system; it is only compared against local state.
type RemoteTransaction struct {
	Reference        string
	Status           TransactionStatus
	AmountMinorUnits int64
	Currency         string
	Metadata         map[string]string
}

// MatchesAmount reports whether the verified charge agrees with what the
// resource recorded at initiation. Any disagreement blocks completion.
func (t *RemoteTransaction) MatchesAmount(amountMinorUnits int64, currency string) bool {
	return t.AmountMinorUnits == amountMinorUnits && t.Currency == currency
}
