package postgres

import "time"

type resourceModel struct {
	ID                 string
	Kind               string
	OwnerID            string
	OwnerEmail         string
	EventID            *string
	AmountMinorUnits   int64
	Currency           string
	Status             string
	PaymentReference   *string
	RedirectURL        *string

	ChargedAmountMinorUnits *int64

	PaymentInitiatedAt *time.Time
	PaymentCompletedAt *time.Time
	SideEffectsApplied bool
	Published          bool
	FeeCharged         *int64
	DiscountCode       *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type eventModel struct {
	ID            string
	Title         string
	AttendeeCount int64
	AttendeeIDs   []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
