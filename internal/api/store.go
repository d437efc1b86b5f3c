package api

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/samcharles93/xnacore/internal/content"
)

// InspectionStore keeps inspection records in memory. Records are keyed by
// id and deduplicated by payload digest.
type InspectionStore struct {
	mu       sync.Mutex
	records  map[string]*InspectionRecord
	byDigest map[string]string
}

func NewInspectionStore() *InspectionStore {
	return &InspectionStore{
		records:  make(map[string]*InspectionRecord),
		byDigest: make(map[string]string),
	}
}

// Create stores in unless a record with the same digest exists, in which
// case that record is returned and created is false.
func (s *InspectionStore) Create(in *content.Inspection, now time.Time) (rec InspectionRecord, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byDigest[in.Digest]; ok {
		if existing, ok := s.records[id]; ok {
			return *existing, false
		}
	}
	r := &InspectionRecord{
		ID:         newInspectionID(),
		Object:     "inspection",
		CreatedAt:  now.Unix(),
		Inspection: *in,
	}
	s.records[r.ID] = r
	s.byDigest[in.Digest] = r.ID
	return *r, true
}

func (s *InspectionStore) Get(id string) (InspectionRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return InspectionRecord{}, false
	}
	return *rec, true
}

// List returns every record, oldest first.
func (s *InspectionStore) List() []InspectionRecord {
	s.mu.Lock()
	out := make([]InspectionRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, *rec)
	}
	s.mu.Unlock()
	slices.SortFunc(out, func(a, b InspectionRecord) int {
		return cmp.Or(cmp.Compare(a.CreatedAt, b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out
}

func (s *InspectionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return false
	}
	delete(s.records, id)
	if s.byDigest[rec.Digest] == id {
		delete(s.byDigest, rec.Digest)
	}
	return true
}

func newInspectionID() string {
	return "insp_" + uuid.NewString()
}
