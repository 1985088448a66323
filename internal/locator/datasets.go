package locator

import "charscan/internal/dsid"

// Dataset pairs an identifier with its archive directory.
type Dataset struct {
	ID  dsid.Identifier
	Dir string
}

// Datasets is an insertion-ordered identifier to directory map. Adding an
// identifier a second time replaces its directory but keeps its position.
type Datasets struct {
	order []string
	byID  map[string]Dataset
}

// NewDatasets returns an empty set.
func NewDatasets() *Datasets {
	return &Datasets{byID: make(map[string]Dataset)}
}

// Add inserts or replaces the entry for d.ID.
func (d *Datasets) Add(ds Dataset) {
	key := ds.ID.String()
	if _, ok := d.byID[key]; !ok {
		d.order = append(d.order, key)
	}
	d.byID[key] = ds
}

// Get returns the entry for id.
func (d *Datasets) Get(id string) (Dataset, bool) {
	if d == nil {
		return Dataset{}, false
	}
	ds, ok := d.byID[id]
	return ds, ok
}

// Len returns the number of distinct datasets.
func (d *Datasets) Len() int {
	if d == nil {
		return 0
	}
	return len(d.order)
}

// All returns the datasets in insertion order.
func (d *Datasets) All() []Dataset {
	if d == nil {
		return nil
	}
	out := make([]Dataset, 0, len(d.order))
	for _, key := range d.order {
		out = append(out, d.byID[key])
	}
	return out
}
