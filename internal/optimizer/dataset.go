package optimizer

import (
	"github.com/rs/zerolog"

	"github.com/shoplyft/plan-service/internal/refdata"
)

// DatasetBuilder joins parsed items against the retailer catalog and price
// snapshots into the flat dataset the rest of the pipeline runs on.
type DatasetBuilder struct {
	ref    *refdata.Set
	logger zerolog.Logger
}

// NewDatasetBuilder creates a dataset builder over a reference set.
func NewDatasetBuilder(ref *refdata.Set, logger zerolog.Logger) *DatasetBuilder {
	return &DatasetBuilder{
		ref:    ref,
		logger: logger.With().Str("component", "dataset_builder").Logger(),
	}
}

// Build produces one entry per (item, retailer SKU, store) combination that
// has a price. Entries follow request order, then catalog order, then the
// retailer's store order, so the dataset is deterministic for a given input.
//
// An item mapped to a canonical product but priced nowhere contributes no
// entries and is silently excluded from the plan. The whole request fails
// only when every item is priceless.
func (b *DatasetBuilder) Build(items []ParsedItem) ([]PriceDatasetEntry, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBasket
	}

	var dataset []PriceDatasetEntry
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, ErrInvalidRequest{Field: "quantity", Reason: "must be at least 1"}
		}
		if _, ok := b.ref.ProductByID(item.CanonicalID); !ok {
			return nil, ErrUnknownProduct{CanonicalID: item.CanonicalID}
		}

		rows := 0
		for _, ce := range b.ref.CatalogFor(item.CanonicalID) {
			price, ok := b.ref.PriceFor(ce.RetailerProductID)
			if !ok {
				continue
			}
			for _, store := range b.ref.StoresOfRetailer(ce.RetailerID) {
				dataset = append(dataset, PriceDatasetEntry{
					CanonicalID:       item.CanonicalID,
					CanonicalName:     item.CanonicalName,
					RequestedItem:     item.RequestedItem,
					Quantity:          item.Quantity,
					RetailerID:        ce.RetailerID,
					RetailerProductID: ce.RetailerProductID,
					ProductName:       ce.Name,
					UnitPrice:         price.PriceCents,
					Store:             store,
				})
				rows++
			}
		}
		if rows == 0 {
			b.logger.Warn().
				Str("canonical_id", item.CanonicalID).
				Str("requested_item", item.RequestedItem).
				Msg("No pricing for item, excluding from plan")
		}
	}

	if len(dataset) == 0 {
		return nil, ErrNoPriceData
	}

	b.logger.Debug().
		Int("items", len(items)).
		Int("entries", len(dataset)).
		Msg("Price dataset built")

	return dataset, nil
}
