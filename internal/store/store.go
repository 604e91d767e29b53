package store

import (
	"context"

	"github.com/xelth-com/ecksvcgo/internal/database"
	"github.com/xelth-com/ecksvcgo/internal/models"
)

// Store is the GORM-backed record store. It implements the selection and
// persistence interfaces the maintenance passes consume; every method is a
// single-record or single-query operation relying on the database's row-level
// consistency (no cross-record transactions).
type Store struct {
	db *database.DB
}

// New creates a store on top of an open database connection
func New(db *database.DB) *Store {
	return &Store{db: db}
}

// --- Repairs ---

// TrackableRepairs selects all repairs that are open and carry a
// confirmation reference.
func (s *Store) TrackableRepairs(ctx context.Context) ([]models.Repair, error) {
	var repairs []models.Repair
	err := s.db.WithContext(ctx).
		Where("completed_at IS NULL AND confirmation <> ''").
		Find(&repairs).Error
	return repairs, err
}

// SaveRepair persists a single repair row
func (s *Store) SaveRepair(ctx context.Context, r *models.Repair) error {
	return s.db.WithContext(ctx).Save(r).Error
}

// --- Orders ---

// OrdersWithEmptyDescription selects orders whose cached description is
// empty, with devices and their products preloaded for the computation.
func (s *Store) OrdersWithEmptyDescription(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Devices").
		Preload("Devices.Product").
		Where("description = '' OR description IS NULL").
		Find(&orders).Error
	return orders, err
}

// OrdersWithEmptyStatusName selects orders whose cached status label is empty
func (s *Store) OrdersWithEmptyStatusName(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Status").
		Where("status_name = '' OR status_name IS NULL").
		Find(&orders).Error
	return orders, err
}

// OrdersWithEmptyCustomerName selects orders whose cached customer label is empty
func (s *Store) OrdersWithEmptyCustomerName(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Where("customer_name = '' OR customer_name IS NULL").
		Find(&orders).Error
	return orders, err
}

// PhantomCandidates selects orders without a customer and preloads the
// relations the final IsPhantom check reads.
func (s *Store) PhantomCandidates(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Devices").
		Preload("Items").
		Preload("Notes").
		Where("customer_id IS NULL").
		Find(&orders).Error
	return orders, err
}

// SaveOrder persists a single order row
func (s *Store) SaveOrder(ctx context.Context, o *models.Order) error {
	return s.db.WithContext(ctx).Omit("Devices", "Items", "Notes", "Customer", "Status").Save(o).Error
}

// DeleteOrder soft-deletes a single order row
func (s *Store) DeleteOrder(ctx context.Context, o *models.Order) error {
	return s.db.WithContext(ctx).Delete(o).Error
}

// --- Tags ---

// UnsluggedTags selects all tagged items with a NULL slug
func (s *Store) UnsluggedTags(ctx context.Context) ([]models.TaggedItem, error) {
	var tags []models.TaggedItem
	err := s.db.WithContext(ctx).
		Where("slug IS NULL").
		Find(&tags).Error
	return tags, err
}

// SaveTag persists a single tagged item row
func (s *Store) SaveTag(ctx context.Context, t *models.TaggedItem) error {
	return s.db.WithContext(ctx).Save(t).Error
}

// --- Codes ---

// ProductsWithWhitespaceCodes selects products whose code contains whitespace
func (s *Store) ProductsWithWhitespaceCodes(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("code ~ '[[:space:]]'").
		Find(&products).Error
	return products, err
}

// SaveProduct persists a single product row
func (s *Store) SaveProduct(ctx context.Context, p *models.Product) error {
	return s.db.WithContext(ctx).Save(p).Error
}

// ItemsWithWhitespaceCodes selects line items whose code contains whitespace
func (s *Store) ItemsWithWhitespaceCodes(ctx context.Context) ([]models.ServiceOrderItem, error) {
	var items []models.ServiceOrderItem
	err := s.db.WithContext(ctx).
		Where("code ~ '[[:space:]]'").
		Find(&items).Error
	return items, err
}

// SaveItem persists a single line item row
func (s *Store) SaveItem(ctx context.Context, i *models.ServiceOrderItem) error {
	return s.db.WithContext(ctx).Save(i).Error
}

// --- Pass history ---

// RecordPassRun inserts one pass_runs row
func (s *Store) RecordPassRun(ctx context.Context, run *models.PassRun) error {
	return s.db.WithContext(ctx).Create(run).Error
}

// RecentPassRuns returns the latest pass runs, newest first
func (s *Store) RecentPassRuns(ctx context.Context, limit int) ([]models.PassRun, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var runs []models.PassRun
	err := s.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}

// --- Lookups for the HTTP layer ---

// AllStatuses returns every status for queue validation
func (s *Store) AllStatuses(ctx context.Context) ([]models.Status, error) {
	var statuses []models.Status
	err := s.db.WithContext(ctx).Order("position").Find(&statuses).Error
	return statuses, err
}
