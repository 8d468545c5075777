package persist

// A captureSite identifies where a capture cell was first bound: the slot of
// the callable that owns the binding and the zero-based capture index within
// it.
type captureSite struct {
	slot  string
	index int
}

// A captureTable reconciles capture cells shared across callables. The first
// callable resolved with a given cell identity claims a (slot, index) site;
// later callables with the same identity join that site instead of
// duplicating the cell's current value, so a write through either closure
// remains visible through the other after reconstruction.
type captureTable struct {
	sites map[any]captureSite
}

func newCaptureTable() *captureTable {
	return &captureTable{sites: make(map[any]captureSite)}
}

// claim records site under id if id is new and reports found=false. If id
// was already claimed, the earlier site is returned with found=true and the
// table is unchanged.
func (t *captureTable) claim(id any, site captureSite) (prev captureSite, found bool) {
	if prev, ok := t.sites[id]; ok {
		return prev, true
	}
	t.sites[id] = site
	return captureSite{}, false
}
