package reconcile

import (
	"context"
	"fmt"

	"github.com/xelth-com/ecksvcgo/internal/models"
	"github.com/xelth-com/ecksvcgo/internal/utils"
)

// EntityKind names a code-bearing entity kind for the code normalizer
type EntityKind string

const (
	KindProduct          EntityKind = "product"
	KindServiceOrderItem EntityKind = "service_order_item"
)

// CodeKinds lists every code-bearing entity kind the normalizer covers
var CodeKinds = []EntityKind{KindProduct, KindServiceOrderItem}

// CodeStore is the slice of the record store the code normalizer needs.
// Selection picks records whose code contains at least one whitespace
// character.
type CodeStore interface {
	ProductsWithWhitespaceCodes(ctx context.Context) ([]models.Product, error)
	SaveProduct(ctx context.Context, p *models.Product) error
	ItemsWithWhitespaceCodes(ctx context.Context) ([]models.ServiceOrderItem, error)
	SaveItem(ctx context.Context, i *models.ServiceOrderItem) error
}

// CodeNormalizer rewrites codes that illegally contain whitespace with their
// slugified form. Post-condition after one pass: no selected record's code
// contains whitespace, and a second pass selects zero records.
type CodeNormalizer struct {
	store CodeStore
}

// NewCodeNormalizer creates a code normalizer
func NewCodeNormalizer(store CodeStore) *CodeNormalizer {
	return &CodeNormalizer{store: store}
}

// NormalizeCodes normalizes one code-bearing entity kind. A record whose
// code slugifies to the empty string cannot be transformed safely (the code
// is a lookup key elsewhere); it is recorded as a normalization failure and
// skipped.
func (cn *CodeNormalizer) NormalizeCodes(ctx context.Context, kind EntityKind) (*Report, error) {
	report := NewReport(PassCodes)
	var err error

	switch kind {
	case KindProduct:
		err = cn.normalizeProducts(ctx, report)
	case KindServiceOrderItem:
		err = cn.normalizeItems(ctx, report)
	default:
		err = fmt.Errorf("unknown entity kind %q", kind)
	}

	report.finish()
	if err != nil {
		return report, err
	}
	return report, nil
}

// NormalizeAll runs the normalizer over every code-bearing kind, merging the
// outcome into a single report.
func (cn *CodeNormalizer) NormalizeAll(ctx context.Context) (*Report, error) {
	report := NewReport(PassCodes)

	for _, step := range []func(context.Context, *Report) error{
		cn.normalizeProducts,
		cn.normalizeItems,
	} {
		if ctx.Err() != nil {
			report.Cancelled = true
			break
		}
		if err := step(ctx, report); err != nil {
			report.finish()
			return report, err
		}
	}

	report.finish()
	return report, nil
}

func (cn *CodeNormalizer) normalizeProducts(ctx context.Context, report *Report) error {
	products, err := cn.store.ProductsWithWhitespaceCodes(ctx)
	if err != nil {
		return fmt.Errorf("failed to select products: %w", err)
	}

	for i := range products {
		if ctx.Err() != nil {
			report.Cancelled = true
			return nil
		}
		p := &products[i]
		report.Attempted++

		slug := utils.Slugify(p.Code)
		if slug == "" {
			report.fail(p.ID, p.Code, FailureNormalization,
				fmt.Errorf("code %q slugifies to empty string", p.Code))
			continue
		}

		p.Code = slug
		if err := cn.store.SaveProduct(ctx, p); err != nil {
			report.fail(p.ID, p.Code, FailureLocalPersist, err)
			continue
		}
		report.Succeeded++
		report.Changed++
	}
	return nil
}

func (cn *CodeNormalizer) normalizeItems(ctx context.Context, report *Report) error {
	items, err := cn.store.ItemsWithWhitespaceCodes(ctx)
	if err != nil {
		return fmt.Errorf("failed to select line items: %w", err)
	}

	for i := range items {
		if ctx.Err() != nil {
			report.Cancelled = true
			return nil
		}
		item := &items[i]
		report.Attempted++

		slug := utils.Slugify(item.Code)
		if slug == "" {
			report.fail(item.ID, item.Code, FailureNormalization,
				fmt.Errorf("code %q slugifies to empty string", item.Code))
			continue
		}

		item.Code = slug
		if err := cn.store.SaveItem(ctx, item); err != nil {
			report.fail(item.ID, item.Code, FailureLocalPersist, err)
			continue
		}
		report.Succeeded++
		report.Changed++
	}
	return nil
}
