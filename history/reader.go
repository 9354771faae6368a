package history

import "sort"

// Record is one history entry for an identifier.
type Record struct {
	ID    int
	Event string
}

// DataReader reads history records for a set of identifiers. Both the
// real store and the test double satisfy it; callers receive whichever
// implementation was injected.
type DataReader interface {
	GetHistory(ids []int) ([]Record, error)
}

// MemoryReader is an in-memory DataReader backed by a map of id to records.
type MemoryReader struct {
	records map[int][]Record
}

func NewMemoryReader() *MemoryReader {
	return &MemoryReader{
		records: map[int][]Record{},
	}
}

// Put appends a record under its id.
func (r *MemoryReader) Put(rec Record) {
	r.records[rec.ID] = append(r.records[rec.ID], rec)
}

// GetHistory returns the stored records for ids, in ascending id order.
// Unknown ids contribute nothing; they are not an error.
func (r *MemoryReader) GetHistory(ids []int) ([]Record, error) {
	sorted := append(make([]int, 0, len(ids)), ids...)
	sort.Ints(sorted)

	var out []Record
	for _, id := range sorted {
		out = append(out, r.records[id]...)
	}

	return out, nil
}

var _ DataReader = (*MemoryReader)(nil)
