package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/finsync/internal/common"
)

// SyncRequest is one client push/pull: records to upsert plus the last
// watermark the client has seen (nil means "send everything").
type SyncRequest struct {
	Items    []map[string]any
	LastSync *int64
}

// SyncResponse carries the delta newest-first and the watermark the client
// should send next time.
type SyncResponse struct {
	Upserts    []Record `json:"upserts"`
	ServerTime int64    `json:"serverTime"`
}

// DecodeSyncRequest parses a {"items": [...], "lastSync": n} body. Numbers
// inside items are kept as json.Number.
func DecodeSyncRequest(b []byte) (*SyncRequest, error) {
	var raw struct {
		Items    []map[string]any `json:"items"`
		LastSync any              `json:"lastSync"`
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: malformed sync request: %v", common.ErrValidation, err)
	}

	req := &SyncRequest{Items: raw.Items}
	if req.Items == nil {
		req.Items = []map[string]any{}
	}
	if raw.LastSync != nil {
		ms, ok := ToMillis(raw.LastSync)
		if !ok {
			return nil, fmt.Errorf("%w: lastSync must be an integer timestamp", common.ErrValidation)
		}
		req.LastSync = &ms
	}
	return req, nil
}

// DecodeDocument parses a JSON object keeping numbers as json.Number.
func DecodeDocument(b []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}
