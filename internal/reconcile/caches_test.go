package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/xelth-com/ecksvcgo/internal/models"
)

// fakeOrderStore serves fixed selections and records saves and deletes
type fakeOrderStore struct {
	emptyDescription  []models.Order
	emptyStatusName   []models.Order
	emptyCustomerName []models.Order
	phantomCandidates []models.Order

	statusSelectErr error
	failSave        map[uint]error

	saved   []models.Order
	deleted []uint
}

func (s *fakeOrderStore) OrdersWithEmptyDescription(ctx context.Context) ([]models.Order, error) {
	return append([]models.Order(nil), s.emptyDescription...), nil
}

func (s *fakeOrderStore) OrdersWithEmptyStatusName(ctx context.Context) ([]models.Order, error) {
	if s.statusSelectErr != nil {
		return nil, s.statusSelectErr
	}
	return append([]models.Order(nil), s.emptyStatusName...), nil
}

func (s *fakeOrderStore) OrdersWithEmptyCustomerName(ctx context.Context) ([]models.Order, error) {
	return append([]models.Order(nil), s.emptyCustomerName...), nil
}

func (s *fakeOrderStore) PhantomCandidates(ctx context.Context) ([]models.Order, error) {
	return append([]models.Order(nil), s.phantomCandidates...), nil
}

func (s *fakeOrderStore) SaveOrder(ctx context.Context, o *models.Order) error {
	if err, ok := s.failSave[o.ID]; ok {
		return err
	}
	s.saved = append(s.saved, *o)
	return nil
}

func (s *fakeOrderStore) DeleteOrder(ctx context.Context, o *models.Order) error {
	if err, ok := s.failSave[o.ID]; ok {
		return err
	}
	s.deleted = append(s.deleted, o.ID)
	return nil
}

func uintPtr(v uint) *uint { return &v }

func TestRefillEmptyCachesFillsAllThreeFields(t *testing.T) {
	store := &fakeOrderStore{
		emptyDescription: []models.Order{
			{ID: 1, OrderNumber: "SRV-1", Devices: []models.Device{
				{ID: 10, Position: 1, SerialNumber: "A1", Product: &models.Product{Name: "Scanner X2"}},
				{ID: 11, Position: 2, SerialNumber: "B2", Product: &models.Product{Name: "Dock"}},
			}},
		},
		emptyStatusName: []models.Order{
			{ID: 2, OrderNumber: "SRV-2", Status: &models.Status{ID: 5, Name: "In Repair"}},
		},
		emptyCustomerName: []models.Order{
			{ID: 3, OrderNumber: "SRV-3", Customer: &models.Customer{FirstName: "Erika", LastName: "Muster"}},
		},
	}

	report, err := NewRecomputer(store).RefillEmptyCaches(context.Background())
	if err != nil {
		t.Fatalf("unexpected pass error: %v", err)
	}
	if report.Attempted != 3 || report.Succeeded != 3 || report.Changed != 3 {
		t.Errorf("report = attempted %d, succeeded %d, changed %d; want 3, 3, 3",
			report.Attempted, report.Succeeded, report.Changed)
	}
	if len(store.saved) != 3 {
		t.Fatalf("saved %d orders, want 3", len(store.saved))
	}
	if got := store.saved[0].Description; got != "Scanner X2, SN A1 (+1)" {
		t.Errorf("description = %q, want primary device label with count suffix", got)
	}
	if got := store.saved[1].StatusName; got != "In Repair" {
		t.Errorf("status_name = %q, want In Repair", got)
	}
	if got := store.saved[2].CustomerName; got != "Erika Muster" {
		t.Errorf("customer_name = %q, want Erika Muster", got)
	}
}

func TestRefillEmptyCachesSkipsUncomputableValues(t *testing.T) {
	store := &fakeOrderStore{
		// No devices: the description is not computable and must stay empty
		emptyDescription: []models.Order{{ID: 1, OrderNumber: "SRV-1"}},
		// Status relation missing: same
		emptyStatusName: []models.Order{{ID: 2, OrderNumber: "SRV-2"}},
	}

	report, err := NewRecomputer(store).RefillEmptyCaches(context.Background())
	if err != nil {
		t.Fatalf("unexpected pass error: %v", err)
	}
	if report.Attempted != 2 || report.Succeeded != 2 || report.Changed != 0 {
		t.Errorf("report = attempted %d, succeeded %d, changed %d; want 2, 2, 0",
			report.Attempted, report.Succeeded, report.Changed)
	}
	// An empty computed value is never persisted
	if len(store.saved) != 0 {
		t.Errorf("saved %d orders, want 0", len(store.saved))
	}
}

func TestRefillEmptyCachesPersistFailureIsolated(t *testing.T) {
	store := &fakeOrderStore{
		emptyStatusName: []models.Order{
			{ID: 1, OrderNumber: "SRV-1", Status: &models.Status{Name: "Done"}},
			{ID: 2, OrderNumber: "SRV-2", Status: &models.Status{Name: "Done"}},
		},
		failSave: map[uint]error{1: errors.New("connection reset")},
	}

	report, err := NewRecomputer(store).RefillEmptyCaches(context.Background())
	if err != nil {
		t.Fatalf("per-record failures must not fail the pass: %v", err)
	}
	if report.Succeeded != 1 || report.Failed() != 1 {
		t.Errorf("succeeded %d, failed %d; want 1, 1", report.Succeeded, report.Failed())
	}
	if got := report.CountByClass(FailureLocalPersist); got != 1 {
		t.Errorf("local_persist failures = %d, want 1", got)
	}
}

func TestRefillEmptyCachesStepSelectionFailure(t *testing.T) {
	store := &fakeOrderStore{
		emptyDescription: []models.Order{
			{ID: 1, OrderNumber: "SRV-1", Devices: []models.Device{
				{ID: 10, SerialNumber: "A1", Product: &models.Product{Name: "Scanner"}},
			}},
		},
		statusSelectErr: errors.New("pq: connection refused"),
	}

	report, err := NewRecomputer(store).RefillEmptyCaches(context.Background())
	if err == nil {
		t.Fatal("expected a pass-level error when a step's selection fails")
	}
	// The description step ran to completion before the failing step
	if report.Succeeded != 1 {
		t.Errorf("succeeded = %d, want the finished step preserved in the partial report", report.Succeeded)
	}
}

func TestPurgePhantomOrders(t *testing.T) {
	store := &fakeOrderStore{
		phantomCandidates: []models.Order{
			// True phantom: no customer, no relations
			{ID: 1, OrderNumber: "SRV-1"},
			// Has a note: intake went somewhere, keep it
			{ID: 2, OrderNumber: "SRV-2", Notes: []models.OrderNote{{ID: 7, Body: "called customer"}}},
			// Has a device: keep
			{ID: 3, OrderNumber: "SRV-3", Devices: []models.Device{{ID: 9}}},
			// Customer set: not even a candidate, but re-checked anyway
			{ID: 4, OrderNumber: "SRV-4", CustomerID: uintPtr(12)},
		},
	}

	report, err := NewRecomputer(store).PurgePhantomOrders(context.Background())
	if err != nil {
		t.Fatalf("unexpected pass error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != 1 {
		t.Fatalf("deleted = %v, want exactly order 1", store.deleted)
	}
	if report.Attempted != 1 || report.Succeeded != 1 || report.Changed != 1 {
		t.Errorf("report = attempted %d, succeeded %d, changed %d; want 1, 1, 1",
			report.Attempted, report.Succeeded, report.Changed)
	}
}

func TestPurgePhantomOrdersCancellation(t *testing.T) {
	store := &fakeOrderStore{
		phantomCandidates: []models.Order{
			{ID: 1, OrderNumber: "SRV-1"},
			{ID: 2, OrderNumber: "SRV-2"},
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewRecomputer(store).PurgePhantomOrders(ctx)
	if err != nil {
		t.Fatalf("cancellation must not surface as a pass error: %v", err)
	}
	if !report.Cancelled {
		t.Error("report.Cancelled = false, want true")
	}
	if len(store.deleted) != 0 {
		t.Errorf("deleted = %v, want nothing after pre-loop cancellation", store.deleted)
	}
}
