package service

import (
	"context"
	"sync"
	"time"

	"github.com/ticketa/eventpay/internal/core/domain"
	"github.com/ticketa/eventpay/internal/core/ports"
)

// MockResourceStore is an in-memory ResourceStore whose conditional
// writes are atomic under a mutex, mirroring the database guarantees the
// coordinator relies on.
type MockResourceStore struct {
	mu        sync.Mutex
	resources map[string]*domain.PayableResource

	GetByIDFn             func(ctx context.Context, id string) (*domain.PayableResource, error)
	GetByReferenceFn      func(ctx context.Context, reference string) (*domain.PayableResource, error)
	CompleteIfUnappliedFn func(ctx context.Context, id string, completedAt time.Time) (bool, error)
	RevertToDraftFn       func(ctx context.Context, id, reference string) (bool, error)
}

func NewMockResourceStore() *MockResourceStore {
	return &MockResourceStore{resources: make(map[string]*domain.PayableResource)}
}

func (m *MockResourceStore) Put(r *domain.PayableResource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources[r.ID] = r
}

func (m *MockResourceStore) Create(ctx context.Context, resource *domain.PayableResource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources[resource.ID] = resource
	return nil
}

func (m *MockResourceStore) GetByID(ctx context.Context, id string) (*domain.PayableResource, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.resources[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (m *MockResourceStore) GetByReference(ctx context.Context, reference string) (*domain.PayableResource, error) {
	if m.GetByReferenceFn != nil {
		return m.GetByReferenceFn(ctx, reference)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.resources {
		if r.PaymentReference != nil && *r.PaymentReference == reference {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockResourceStore) MarkPendingPayment(ctx context.Context, id, reference, redirectURL string, chargedAmount int64, initiatedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resources[id]
	if !ok || r.Status != domain.StatusDraft {
		return false, nil
	}
	r.Status = domain.StatusPendingPayment
	r.PaymentReference = &reference
	r.RedirectURL = &redirectURL
	amount := chargedAmount
	r.ChargedAmountMinorUnits = &amount
	t := initiatedAt
	r.PaymentInitiatedAt = &t
	return true, nil
}

func (m *MockResourceStore) CompleteIfUnapplied(ctx context.Context, id string, completedAt time.Time) (bool, error) {
	if m.CompleteIfUnappliedFn != nil {
		return m.CompleteIfUnappliedFn(ctx, id, completedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resources[id]
	if !ok || r.SideEffectsApplied {
		return false, nil
	}
	r.SideEffectsApplied = true
	r.Status = domain.StatusCompleted
	t := completedAt
	r.PaymentCompletedAt = &t
	return true, nil
}

func (m *MockResourceStore) RevertToDraft(ctx context.Context, id, reference string) (bool, error) {
	if m.RevertToDraftFn != nil {
		return m.RevertToDraftFn(ctx, id, reference)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resources[id]
	if !ok || r.Status != domain.StatusPendingPayment ||
		r.PaymentReference == nil || *r.PaymentReference != reference {
		return false, nil
	}
	r.Status = domain.StatusDraft
	r.PaymentReference = nil
	r.RedirectURL = nil
	r.ChargedAmountMinorUnits = nil
	r.PaymentInitiatedAt = nil
	return true, nil
}

func (m *MockResourceStore) RecordListingPublication(ctx context.Context, id string, feeCharged int64, discountCode *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.resources[id]; ok {
		r.Published = true
		fee := feeCharged
		r.FeeCharged = &fee
		r.DiscountCode = discountCode
	}
	return nil
}

func (m *MockResourceStore) ActivateRegistration(ctx context.Context, id string) error {
	return nil
}

func (m *MockResourceStore) FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*domain.PayableResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.PayableResource
	for _, r := range m.resources {
		if r.Status == domain.StatusPendingPayment &&
			r.PaymentInitiatedAt != nil && r.PaymentInitiatedAt.Before(cutoff) {
			cp := *r
			out = append(out, &cp)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

var _ ports.ResourceStore = (*MockResourceStore)(nil)

// MockEventStore counts admissions the way the database's commutative
// merge does: at most once per (event, user) pair.
type MockEventStore struct {
	mu        sync.Mutex
	events    map[string]*domain.Event
	counts    map[string]int64
	attendees map[string]map[string]bool
	calls     int
}

func NewMockEventStore() *MockEventStore {
	return &MockEventStore{
		events:    make(map[string]*domain.Event),
		counts:    make(map[string]int64),
		attendees: make(map[string]map[string]bool),
	}
}

func (m *MockEventStore) PutEvent(e *domain.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[e.ID] = e
}

func (m *MockEventStore) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	cp.AttendeeCount = m.counts[id]
	return &cp, nil
}

func (m *MockEventStore) AdmitAttendee(ctx context.Context, eventID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.attendees[eventID] == nil {
		m.attendees[eventID] = make(map[string]bool)
	}
	if m.attendees[eventID][userID] {
		return false, nil
	}
	m.attendees[eventID][userID] = true
	m.counts[eventID]++
	return true, nil
}

func (m *MockEventStore) AttendeeCount(ctx context.Context, eventID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[eventID], nil
}

func (m *MockEventStore) Count(eventID string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[eventID]
}

var _ ports.EventStore = (*MockEventStore)(nil)

// MockGatewayClient scripts gateway responses and counts calls. Delay
// widens race windows in concurrency tests.
type MockGatewayClient struct {
	mu    sync.Mutex
	calls map[string]int

	Delay time.Duration

	InitializeFn func(ctx context.Context, req ports.InitializeRequest) (*ports.InitializeResponse, error)
	VerifyFn     func(ctx context.Context, reference string) (*domain.RemoteTransaction, error)
}

func (m *MockGatewayClient) InitializeTransaction(ctx context.Context, req ports.InitializeRequest) (*ports.InitializeResponse, error) {
	m.record("InitializeTransaction")
	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}
	if m.InitializeFn != nil {
		return m.InitializeFn(ctx, req)
	}
	return &ports.InitializeResponse{
		AuthorizationURL: "https://checkout.example.com/" + req.Reference,
		Reference:        req.Reference,
	}, nil
}

func (m *MockGatewayClient) VerifyTransaction(ctx context.Context, reference string) (*domain.RemoteTransaction, error) {
	m.record("VerifyTransaction")
	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}
	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, reference)
	}
	return &domain.RemoteTransaction{Reference: reference, Status: domain.TxPending}, nil
}

func (m *MockGatewayClient) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

func (m *MockGatewayClient) GetCalls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

var _ ports.GatewayClient = (*MockGatewayClient)(nil)

// MockNotifier records dispatched notifications.
type MockNotifier struct {
	mu   sync.Mutex
	sent []ports.Notification
}

func (m *MockNotifier) Dispatch(ctx context.Context, n ports.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)
}

func (m *MockNotifier) Sent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

var _ ports.Notifier = (*MockNotifier)(nil)
