package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/xelth-com/ecksvcgo/internal/models"
	"github.com/xelth-com/ecksvcgo/internal/utils"
)

// fakeCodeStore keeps a backing table and filters it on selection, like the
// real store's whitespace query does.
type fakeCodeStore struct {
	products []models.Product
	items    []models.ServiceOrderItem
	failSave map[uint]error
}

func (s *fakeCodeStore) ProductsWithWhitespaceCodes(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		if utils.ContainsWhitespace(p.Code) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeCodeStore) SaveProduct(ctx context.Context, p *models.Product) error {
	if err, ok := s.failSave[p.ID]; ok {
		return err
	}
	for i := range s.products {
		if s.products[i].ID == p.ID {
			s.products[i] = *p
			return nil
		}
	}
	return errors.New("not found")
}

func (s *fakeCodeStore) ItemsWithWhitespaceCodes(ctx context.Context) ([]models.ServiceOrderItem, error) {
	var out []models.ServiceOrderItem
	for _, i := range s.items {
		if utils.ContainsWhitespace(i.Code) {
			out = append(out, i)
		}
	}
	return out, nil
}

func (s *fakeCodeStore) SaveItem(ctx context.Context, item *models.ServiceOrderItem) error {
	if err, ok := s.failSave[item.ID]; ok {
		return err
	}
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i] = *item
			return nil
		}
	}
	return errors.New("not found")
}

func TestNormalizeCodesProducts(t *testing.T) {
	store := &fakeCodeStore{
		products: []models.Product{
			{ID: 1, Code: "REP 101", Name: "Display swap"},
			{ID: 2, Code: "rep-102", Name: "Battery swap"},
			{ID: 3, Code: "Kléber Band", Name: "Adhesive"},
		},
	}

	report, err := NewCodeNormalizer(store).NormalizeCodes(context.Background(), KindProduct)
	if err != nil {
		t.Fatalf("unexpected pass error: %v", err)
	}
	// Only the two whitespace-bearing codes are selected
	if report.Attempted != 2 || report.Succeeded != 2 {
		t.Errorf("attempted %d, succeeded %d; want 2, 2", report.Attempted, report.Succeeded)
	}
	if store.products[0].Code != "rep-101" {
		t.Errorf("product 1 code = %q, want rep-101", store.products[0].Code)
	}
	if store.products[1].Code != "rep-102" {
		t.Errorf("product 2 code = %q, must stay untouched", store.products[1].Code)
	}
	if store.products[2].Code != "kleber-band" {
		t.Errorf("product 3 code = %q, want kleber-band", store.products[2].Code)
	}
}

func TestNormalizeCodesSecondPassSelectsNothing(t *testing.T) {
	store := &fakeCodeStore{
		products: []models.Product{{ID: 1, Code: "REP 101"}},
		items:    []models.ServiceOrderItem{{ID: 1, OrderID: 1, Code: "labor 30 min"}},
	}
	cn := NewCodeNormalizer(store)

	first, err := cn.NormalizeAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected pass error: %v", err)
	}
	if first.Changed != 2 {
		t.Fatalf("first pass changed = %d, want 2", first.Changed)
	}

	second, err := cn.NormalizeAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected pass error: %v", err)
	}
	if second.Attempted != 0 {
		t.Errorf("second pass attempted = %d, want 0", second.Attempted)
	}
}

func TestNormalizeCodesUntransformableCode(t *testing.T) {
	store := &fakeCodeStore{
		// Whitespace only: slugifies to "", cannot be rewritten safely
		products: []models.Product{{ID: 1, Code: "   "}},
	}

	report, err := NewCodeNormalizer(store).NormalizeCodes(context.Background(), KindProduct)
	if err != nil {
		t.Fatalf("unexpected pass error: %v", err)
	}
	if got := report.CountByClass(FailureNormalization); got != 1 {
		t.Errorf("normalization failures = %d, want 1", got)
	}
	if store.products[0].Code != "   " {
		t.Errorf("untransformable code was modified to %q", store.products[0].Code)
	}
}

func TestNormalizeCodesItems(t *testing.T) {
	store := &fakeCodeStore{
		items: []models.ServiceOrderItem{
			{ID: 1, OrderID: 1, Code: "DIAG FLAT", Title: "Diagnosis"},
		},
	}

	report, err := NewCodeNormalizer(store).NormalizeCodes(context.Background(), KindServiceOrderItem)
	if err != nil {
		t.Fatalf("unexpected pass error: %v", err)
	}
	if report.Succeeded != 1 {
		t.Errorf("succeeded = %d, want 1", report.Succeeded)
	}
	if store.items[0].Code != "diag-flat" {
		t.Errorf("item code = %q, want diag-flat", store.items[0].Code)
	}
}

func TestNormalizeCodesUnknownKind(t *testing.T) {
	report, err := NewCodeNormalizer(&fakeCodeStore{}).NormalizeCodes(context.Background(), EntityKind("customer"))
	if err == nil {
		t.Fatal("expected an error for an unknown entity kind")
	}
	if report == nil {
		t.Fatal("report must be returned alongside the error")
	}
}

func TestNormalizeCodesPersistFailureIsolated(t *testing.T) {
	store := &fakeCodeStore{
		products: []models.Product{
			{ID: 1, Code: "A 1"},
			{ID: 2, Code: "B 2"},
		},
		failSave: map[uint]error{1: errors.New("connection reset")},
	}

	report, err := NewCodeNormalizer(store).NormalizeCodes(context.Background(), KindProduct)
	if err != nil {
		t.Fatalf("per-record failures must not fail the pass: %v", err)
	}
	if report.Succeeded != 1 || report.CountByClass(FailureLocalPersist) != 1 {
		t.Errorf("succeeded %d, local_persist %d; want 1, 1",
			report.Succeeded, report.CountByClass(FailureLocalPersist))
	}
	if store.products[1].Code != "b-2" {
		t.Errorf("product 2 code = %q, want b-2 despite product 1 failing", store.products[1].Code)
	}
}
