package efficiency

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Report joins the per-entry results with the aggregate record. Entries keep
// input order; the aggregate is always emitted last.
type Report struct {
	Entries   []EntryResult
	Aggregate AggregateResult
}

// NewReport assembles a report from already computed parts.
func NewReport(entries []EntryResult, aggregate AggregateResult) *Report {
	return &Report{Entries: entries, Aggregate: aggregate}
}

// Entry looks up a result by name.
func (r *Report) Entry(name string) (EntryResult, bool) {
	for _, e := range r.Entries {
		if e.Entry == name {
			return e, true
		}
	}
	return EntryResult{}, false
}

// MarshalJSON writes an object whose keys are the entry names in input order
// followed by ReservedEntry.
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, e.Entry, e); err != nil {
			return nil, fmt.Errorf("encode entry %q: %w", e.Entry, err)
		}
	}
	if len(r.Entries) > 0 {
		buf.WriteByte(',')
	}
	if err := writeMember(&buf, ReservedEntry, r.Aggregate); err != nil {
		return nil, fmt.Errorf("encode aggregate: %w", err)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, value interface{}) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}
