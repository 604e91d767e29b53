package reconcile

import (
	"context"
	"fmt"

	"github.com/xelth-com/ecksvcgo/internal/models"
	"github.com/xelth-com/ecksvcgo/internal/utils"
)

// TagStore is the slice of the record store the tag normalizer needs
type TagStore interface {
	// UnsluggedTags returns all tagged items with a NULL slug
	UnsluggedTags(ctx context.Context) ([]models.TaggedItem, error)
	SaveTag(ctx context.Context, t *models.TaggedItem) error
}

// TagNormalizer fills missing slugs on tagged items. Idempotent by
// selection: an already slugged item is never picked up again.
type TagNormalizer struct {
	store TagStore
}

// NewTagNormalizer creates a tag normalizer
func NewTagNormalizer(store TagStore) *TagNormalizer {
	return &TagNormalizer{store: store}
}

// NormalizeUnslugged assigns slug = Slugify(description) to every tagged
// item that has none. An empty description yields an empty slug, stored
// as-is.
func (tn *TagNormalizer) NormalizeUnslugged(ctx context.Context) (*Report, error) {
	report := NewReport(PassTags)

	tags, err := tn.store.UnsluggedTags(ctx)
	if err != nil {
		report.finish()
		return report, fmt.Errorf("failed to select unslugged tags: %w", err)
	}

	for i := range tags {
		if ctx.Err() != nil {
			report.Cancelled = true
			break
		}
		tag := &tags[i]
		report.Attempted++

		slug := utils.Slugify(tag.Description)
		tag.Slug = &slug
		if err := tn.store.SaveTag(ctx, tag); err != nil {
			report.fail(tag.ID, tag.Description, FailureLocalPersist, err)
			continue
		}
		report.Succeeded++
		report.Changed++
	}

	report.finish()
	return report, nil
}
