package postgres

import "github.com/ticketa/eventpay/internal/core/domain"

func toDomainResource(m resourceModel) *domain.PayableResource {
	r := &domain.PayableResource{
		ID:                      m.ID,
		Kind:                    domain.ResourceKind(m.Kind),
		OwnerID:                 m.OwnerID,
		OwnerEmail:              m.OwnerEmail,
		AmountMinorUnits:        m.AmountMinorUnits,
		Currency:                m.Currency,
		Status:                  domain.ResourceStatus(m.Status),
		PaymentReference:        m.PaymentReference,
		RedirectURL:             m.RedirectURL,
		ChargedAmountMinorUnits: m.ChargedAmountMinorUnits,
		PaymentInitiatedAt:      m.PaymentInitiatedAt,
		PaymentCompletedAt:      m.PaymentCompletedAt,
		SideEffectsApplied:      m.SideEffectsApplied,
		Published:               m.Published,
		FeeCharged:              m.FeeCharged,
		DiscountCode:            m.DiscountCode,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
	if m.EventID != nil {
		r.EventID = *m.EventID
	}
	return r
}

func toDBResource(r *domain.PayableResource) resourceModel {
	m := resourceModel{
		ID:                      r.ID,
		Kind:                    string(r.Kind),
		OwnerID:                 r.OwnerID,
		OwnerEmail:              r.OwnerEmail,
		AmountMinorUnits:        r.AmountMinorUnits,
		Currency:                r.Currency,
		Status:                  string(r.Status),
		PaymentReference:        r.PaymentReference,
		RedirectURL:             r.RedirectURL,
		ChargedAmountMinorUnits: r.ChargedAmountMinorUnits,
		PaymentInitiatedAt:      r.PaymentInitiatedAt,
		PaymentCompletedAt:      r.PaymentCompletedAt,
		SideEffectsApplied:      r.SideEffectsApplied,
		Published:               r.Published,
		FeeCharged:              r.FeeCharged,
		DiscountCode:            r.DiscountCode,
		CreatedAt:               r.CreatedAt,
		UpdatedAt:               r.UpdatedAt,
	}
	if r.EventID != "" {
		eventID := r.EventID
		m.EventID = &eventID
	}
	return m
}

func toDomainEvent(m eventModel) *domain.Event {
	return &domain.Event{
		ID:            m.ID,
		Title:         m.Title,
		AttendeeCount: m.AttendeeCount,
		AttendeeIDs:   m.AttendeeIDs,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
