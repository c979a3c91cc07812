package usecase

import "search-enrichment-service/internal/domain/entity"

// Grouper buffers decoded records and cuts a group each time the search id changes.
// Records of one search must arrive contiguously; interleaved input yields several
// partial groups for the same search. A Grouper is owned by a single worker.
type Grouper struct {
	buffer []*entity.RawRecord
	lastID string
}

// NewGrouper creates an empty grouper
func NewGrouper() *Grouper {
	return &Grouper{}
}

// Add appends the record and returns the previous group when record starts a new one
func (g *Grouper) Add(record *entity.RawRecord) []*entity.RawRecord {
	var completed []*entity.RawRecord

	if len(g.buffer) > 0 && record.SearchID != g.lastID {
		completed = g.buffer
		g.buffer = nil
	}

	g.buffer = append(g.buffer, record)
	g.lastID = record.SearchID

	return completed
}

// Flush returns the residual buffered group, if any, and empties the buffer
func (g *Grouper) Flush() []*entity.RawRecord {
	if len(g.buffer) == 0 {
		return nil
	}
	completed := g.buffer
	g.buffer = nil
	return completed
}

// Pending returns the number of buffered records not yet emitted
func (g *Grouper) Pending() int {
	return len(g.buffer)
}
