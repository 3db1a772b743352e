package models

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/finsync/internal/common"
)

// Reserved field names managed by the server.
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// Record is one synced document. The reserved fields are typed; everything
// else is collection-specific payload that the sync engine never inspects.
//
// On incoming records a zero CreatedAt or UpdatedAt means "not supplied".
// Records read from the store remember which timestamps were stored, so a
// stored 0 is kept and echoed as 0.
type Record struct {
	ID        string
	CreatedAt int64
	UpdatedAt int64
	Fields    map[string]any

	createdStored bool
	updatedStored bool
}

// NewRecord splits an incoming payload into reserved fields and payload.
// The id must be a non-empty string; timestamps that cannot be coerced are
// dropped rather than rejected.
func NewRecord(doc map[string]any) (Record, error) {
	id, ok := doc[FieldID].(string)
	if !ok || id == "" {
		return Record{}, fmt.Errorf("%w: record id must be a non-empty string", common.ErrValidation)
	}

	rec := Record{ID: id, Fields: make(map[string]any, len(doc))}
	if ms, ok := ToMillis(doc[FieldCreatedAt]); ok {
		rec.CreatedAt = ms
	}
	if ms, ok := ToMillis(doc[FieldUpdatedAt]); ok {
		rec.UpdatedAt = ms
	}
	for k, v := range doc {
		if isReserved(k) {
			continue
		}
		rec.Fields[k] = v
	}
	return rec, nil
}

// RecordFromDocument builds a Record from a stored document addressed by id.
// Datetime values anywhere in the payload are flattened to epoch millis.
func RecordFromDocument(id string, data map[string]any) Record {
	rec := Record{ID: id, Fields: make(map[string]any, len(data))}
	rec.CreatedAt, rec.createdStored = ToMillis(data[FieldCreatedAt])
	rec.UpdatedAt, rec.updatedStored = ToMillis(data[FieldUpdatedAt])
	for k, v := range data {
		if isReserved(k) {
			continue
		}
		rec.Fields[k] = FlattenTimes(v)
	}
	return rec
}

// TimestampsStored reports which timestamps were present and well-formed in
// the document the record was read from.
func (r Record) TimestampsStored() (createdAt, updatedAt bool) {
	return r.createdStored, r.updatedStored
}

// Map flattens the record back into a document. Unset timestamps are omitted
// so that a merge-write leaves the stored values alone.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.Fields)+3)
	for k, v := range r.Fields {
		m[k] = v
	}
	m[FieldID] = r.ID
	if r.CreatedAt != 0 || r.createdStored {
		m[FieldCreatedAt] = r.CreatedAt
	}
	if r.UpdatedAt != 0 || r.updatedStored {
		m[FieldUpdatedAt] = r.UpdatedAt
	}
	return m
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}

func (r *Record) UnmarshalJSON(b []byte) error {
	doc, err := DecodeDocument(b)
	if err != nil {
		return err
	}
	rec, err := NewRecord(doc)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

func isReserved(k string) bool {
	return k == FieldID || k == FieldCreatedAt || k == FieldUpdatedAt
}
