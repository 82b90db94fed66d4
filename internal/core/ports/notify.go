package ports

import "context"

// Notification is an owner-facing message dispatched after a side effect.
type Notification struct {
	RecipientID    string
	RecipientEmail string
	Subject        string
	Body           string
}

// Notifier delivers notifications fire-and-forget. Implementations must
// never block the reconciliation path; delivery failures are logged and
// never rolled back.
type Notifier interface {
	Dispatch(ctx context.Context, n Notification)
}
