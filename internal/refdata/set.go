package refdata

import (
	"fmt"
)

// Set is the read-only reference-data context: every collection the optimizer
// needs, loaded once and indexed for lookup. A Set is immutable after
// construction and safe for concurrent readers.
type Set struct {
	Products  []Product
	Stores    []Store
	Catalog   []CatalogEntry
	Prices    []PriceSnapshot
	Retailers []Retailer

	productByID        map[string]*Product
	storeByID          map[string]*Store
	retailerByID       map[string]*Retailer
	catalogByCanonical map[string][]*CatalogEntry
	priceBySKU         map[string]*PriceSnapshot
	storesByRetailer   map[string][]*Store
}

// NewSet indexes the collections and validates every cross-reference.
// Slices keep their input order; all per-key slices preserve it too, so
// downstream iteration is deterministic.
func NewSet(products []Product, stores []Store, catalog []CatalogEntry, prices []PriceSnapshot, retailers []Retailer) (*Set, error) {
	s := &Set{
		Products:  products,
		Stores:    stores,
		Catalog:   catalog,
		Prices:    prices,
		Retailers: retailers,

		productByID:        make(map[string]*Product, len(products)),
		storeByID:          make(map[string]*Store, len(stores)),
		retailerByID:       make(map[string]*Retailer, len(retailers)),
		catalogByCanonical: make(map[string][]*CatalogEntry),
		priceBySKU:         make(map[string]*PriceSnapshot, len(prices)),
		storesByRetailer:   make(map[string][]*Store),
	}

	for i := range products {
		p := &s.Products[i]
		if p.CanonicalID == "" {
			return nil, fmt.Errorf("product at index %d has empty canonical_id", i)
		}
		if _, dup := s.productByID[p.CanonicalID]; dup {
			return nil, fmt.Errorf("duplicate product canonical_id %q", p.CanonicalID)
		}
		s.productByID[p.CanonicalID] = p
	}

	for i := range retailers {
		r := &s.Retailers[i]
		if _, dup := s.retailerByID[r.RetailerID]; dup {
			return nil, fmt.Errorf("duplicate retailer_id %q", r.RetailerID)
		}
		s.retailerByID[r.RetailerID] = r
	}

	for i := range stores {
		st := &s.Stores[i]
		if _, dup := s.storeByID[st.StoreID]; dup {
			return nil, fmt.Errorf("duplicate store_id %q", st.StoreID)
		}
		if _, ok := s.retailerByID[st.RetailerID]; !ok {
			return nil, fmt.Errorf("store %q references unknown retailer %q", st.StoreID, st.RetailerID)
		}
		s.storeByID[st.StoreID] = st
		s.storesByRetailer[st.RetailerID] = append(s.storesByRetailer[st.RetailerID], st)
	}

	for i := range catalog {
		ce := &s.Catalog[i]
		if _, ok := s.productByID[ce.CanonicalID]; !ok {
			return nil, fmt.Errorf("catalog entry %q references unknown product %q", ce.RetailerProductID, ce.CanonicalID)
		}
		if _, ok := s.retailerByID[ce.RetailerID]; !ok {
			return nil, fmt.Errorf("catalog entry %q references unknown retailer %q", ce.RetailerProductID, ce.RetailerID)
		}
		s.catalogByCanonical[ce.CanonicalID] = append(s.catalogByCanonical[ce.CanonicalID], ce)
	}

	for i := range prices {
		pr := &s.Prices[i]
		if _, dup := s.priceBySKU[pr.RetailerProductID]; dup {
			return nil, fmt.Errorf("duplicate price snapshot for retailer_product_id %q", pr.RetailerProductID)
		}
		s.priceBySKU[pr.RetailerProductID] = pr
	}

	return s, nil
}

// ProductByID returns the canonical product for an ID.
func (s *Set) ProductByID(canonicalID string) (*Product, bool) {
	p, ok := s.productByID[canonicalID]
	return p, ok
}

// StoreByID returns the store for an ID.
func (s *Set) StoreByID(storeID string) (*Store, bool) {
	st, ok := s.storeByID[storeID]
	return st, ok
}

// RetailerByID returns the retailer for an ID.
func (s *Set) RetailerByID(retailerID string) (*Retailer, bool) {
	r, ok := s.retailerByID[retailerID]
	return r, ok
}

// CatalogFor returns every retailer catalog entry mapped to a canonical
// product, in file order.
func (s *Set) CatalogFor(canonicalID string) []*CatalogEntry {
	return s.catalogByCanonical[canonicalID]
}

// PriceFor returns the price snapshot for a retailer SKU.
func (s *Set) PriceFor(retailerProductID string) (*PriceSnapshot, bool) {
	p, ok := s.priceBySKU[retailerProductID]
	return p, ok
}

// StoresOfRetailer returns a retailer's stores in file order.
func (s *Set) StoresOfRetailer(retailerID string) []*Store {
	return s.storesByRetailer[retailerID]
}

// MinSpendFor returns a retailer's click-and-collect rule. A retailer with no
// configured rule reports a zero minimum, which makes every basket eligible.
func (s *Set) MinSpendFor(retailerID string) ClickCollect {
	if r, ok := s.retailerByID[retailerID]; ok {
		return r.ClickCollect
	}
	return ClickCollect{}
}

// SearchProducts matches a free-text query against canonical names and
// aliases after unicode normalization. Results keep catalog order.
func (s *Set) SearchProducts(query string) []*Product {
	q := NormalizeAlias(query)
	if q == "" {
		return nil
	}

	var matches []*Product
	for i := range s.Products {
		p := &s.Products[i]
		if containsNormalized(p.CanonicalName, q) {
			matches = append(matches, p)
			continue
		}
		for _, alias := range p.Aliases {
			if containsNormalized(alias, q) {
				matches = append(matches, p)
				break
			}
		}
	}
	return matches
}
