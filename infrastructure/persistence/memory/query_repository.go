package memory

import (
	"context"

	"github.com/OddlyDoddly/oddly-infrastructures/application/ports"
	"github.com/OddlyDoddly/oddly-infrastructures/infrastructure/persistence/entities"
)

// QueryRepository is the read-side repository over committed read
// projections. It never joins the mutating transaction and never raises
// write-side errors.
type QueryRepository struct {
	store *Store
}

// NewQueryRepository creates a query repository over a store.
func NewQueryRepository(store *Store) *QueryRepository {
	return &QueryRepository{store: store}
}

// FindByID returns the read projection or nil when absent. Absence is not
// an error at this layer.
func (r *QueryRepository) FindByID(ctx context.Context, id string) (*entities.ExampleReadEntity, error) {
	entity, ok := r.store.getRead(id)
	if !ok {
		return nil, nil
	}
	return entity, nil
}

// ListByFilter returns a contiguous slice of the stably ordered, filtered
// result set: skip items dropped from the front, then up to take returned.
func (r *QueryRepository) ListByFilter(ctx context.Context, filter ports.ExampleFilter, skip, take int) ([]*entities.ExampleReadEntity, error) {
	if skip < 0 {
		skip = 0
	}
	if take < 0 {
		take = 0
	}

	all := r.store.listReads()
	filtered := make([]*entities.ExampleReadEntity, 0, len(all))
	for _, entity := range all {
		if filter.OwnerID != "" && entity.OwnerID != filter.OwnerID {
			continue
		}
		if filter.ActiveOnly && !entity.IsActive {
			continue
		}
		filtered = append(filtered, entity)
	}

	if skip >= len(filtered) {
		return []*entities.ExampleReadEntity{}, nil
	}
	end := skip + take
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[skip:end], nil
}
