package reconcile

import (
	"context"
	"fmt"

	"github.com/xelth-com/ecksvcgo/internal/models"
)

// OrderStore is the slice of the record store the recompute and purge passes
// need. Selection methods must preload the relations the computation reads
// (devices with products, status, customer).
type OrderStore interface {
	OrdersWithEmptyDescription(ctx context.Context) ([]models.Order, error)
	OrdersWithEmptyStatusName(ctx context.Context) ([]models.Order, error)
	OrdersWithEmptyCustomerName(ctx context.Context) ([]models.Order, error)
	// PhantomCandidates returns orders without a customer, with devices,
	// items and notes preloaded for the final IsPhantom check.
	PhantomCandidates(ctx context.Context) ([]models.Order, error)
	SaveOrder(ctx context.Context, o *models.Order) error
	DeleteOrder(ctx context.Context, o *models.Order) error
}

// Recomputer fills empty cached display fields on orders from their
// authoritative sources. It only fills gaps: a non-empty cache value is never
// touched, even if stale (clearing the column is the administrative way to
// force recomputation).
type Recomputer struct {
	store OrderStore
}

// NewRecomputer creates a derived-field recomputer
func NewRecomputer(store OrderStore) *Recomputer {
	return &Recomputer{store: store}
}

// RefillEmptyCaches runs the three gap-filling passes in sequence:
// description, status_name, customer_name. Each field is selected and
// persisted independently, so partial completion is a consistent state.
func (rc *Recomputer) RefillEmptyCaches(ctx context.Context) (*Report, error) {
	report := NewReport(PassCaches)

	steps := []struct {
		name string
		run  func(context.Context, *Report) error
	}{
		{"description", rc.refillDescriptions},
		{"status_name", rc.refillStatusNames},
		{"customer_name", rc.refillCustomerNames},
	}

	for _, step := range steps {
		if ctx.Err() != nil {
			report.Cancelled = true
			break
		}
		if err := step.run(ctx, report); err != nil {
			report.finish()
			return report, fmt.Errorf("refill %s: %w", step.name, err)
		}
	}

	report.finish()
	return report, nil
}

func (rc *Recomputer) refillDescriptions(ctx context.Context, report *Report) error {
	orders, err := rc.store.OrdersWithEmptyDescription(ctx)
	if err != nil {
		return fmt.Errorf("failed to select orders: %w", err)
	}

	for i := range orders {
		if ctx.Err() != nil {
			report.Cancelled = true
			return nil
		}
		order := &orders[i]
		report.Attempted++

		value := order.ComputeDescription()
		if value == "" {
			// No devices or no usable label; stays empty until the source changes
			report.Succeeded++
			continue
		}

		order.Description = value
		if err := rc.store.SaveOrder(ctx, order); err != nil {
			report.fail(order.ID, order.OrderNumber, FailureLocalPersist, err)
			continue
		}
		report.Succeeded++
		report.Changed++
	}
	return nil
}

func (rc *Recomputer) refillStatusNames(ctx context.Context, report *Report) error {
	orders, err := rc.store.OrdersWithEmptyStatusName(ctx)
	if err != nil {
		return fmt.Errorf("failed to select orders: %w", err)
	}

	for i := range orders {
		if ctx.Err() != nil {
			report.Cancelled = true
			return nil
		}
		order := &orders[i]
		report.Attempted++

		value := order.ComputeStatusName()
		if value == "" {
			report.Succeeded++
			continue
		}

		order.StatusName = value
		if err := rc.store.SaveOrder(ctx, order); err != nil {
			report.fail(order.ID, order.OrderNumber, FailureLocalPersist, err)
			continue
		}
		report.Succeeded++
		report.Changed++
	}
	return nil
}

func (rc *Recomputer) refillCustomerNames(ctx context.Context, report *Report) error {
	orders, err := rc.store.OrdersWithEmptyCustomerName(ctx)
	if err != nil {
		return fmt.Errorf("failed to select orders: %w", err)
	}

	for i := range orders {
		if ctx.Err() != nil {
			report.Cancelled = true
			return nil
		}
		order := &orders[i]
		report.Attempted++

		value := order.ComputeCustomerName()
		if value == "" {
			report.Succeeded++
			continue
		}

		order.CustomerName = value
		if err := rc.store.SaveOrder(ctx, order); err != nil {
			report.fail(order.ID, order.OrderNumber, FailureLocalPersist, err)
			continue
		}
		report.Succeeded++
		report.Changed++
	}
	return nil
}

// PurgePhantomOrders deletes orders that carry no payload at all: no
// customer, no devices, no notes, no line items. Candidates are re-checked
// against their loaded relations before deletion.
func (rc *Recomputer) PurgePhantomOrders(ctx context.Context) (*Report, error) {
	report := NewReport(PassPhantoms)

	orders, err := rc.store.PhantomCandidates(ctx)
	if err != nil {
		report.finish()
		return report, fmt.Errorf("failed to select phantom candidates: %w", err)
	}

	for i := range orders {
		if ctx.Err() != nil {
			report.Cancelled = true
			break
		}
		order := &orders[i]
		if !order.IsPhantom() {
			continue
		}
		report.Attempted++

		if err := rc.store.DeleteOrder(ctx, order); err != nil {
			report.fail(order.ID, order.OrderNumber, FailureLocalPersist, err)
			continue
		}
		report.Succeeded++
		report.Changed++
	}

	report.finish()
	return report, nil
}
