package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RepoMetrics maps repository names to their metric records.
// Iteration follows insertion order, which is also the display order of every chart.
type RepoMetrics struct {
	names   []string
	records map[string]MetricRecord
}

// NewRepoMetrics creates an empty RepoMetrics.
func NewRepoMetrics() *RepoMetrics {
	return &RepoMetrics{records: make(map[string]MetricRecord)}
}

// Set stores the record for a repository. Replacing an existing repository keeps its position.
func (m *RepoMetrics) Set(name string, record MetricRecord) {
	if m.records == nil {
		m.records = make(map[string]MetricRecord)
	}
	if _, ok := m.records[name]; !ok {
		m.names = append(m.names, name)
	}
	m.records[name] = record
}

// Record returns the record stored for a repository.
func (m *RepoMetrics) Record(name string) (MetricRecord, bool) {
	if m == nil {
		return nil, false
	}
	rec, ok := m.records[name]
	return rec, ok
}

// Names returns a copy of the repository names in insertion order. It is never nil.
func (m *RepoMetrics) Names() []string {
	if m == nil {
		return []string{}
	}
	return append(make([]string, 0, len(m.names)), m.names...)
}

// Len returns the number of repositories.
func (m *RepoMetrics) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// MarshalJSON encodes the metrics as a JSON object whose keys keep insertion order.
func (m *RepoMetrics) MarshalJSON() ([]byte, error) {
	var names []string
	var records map[string]MetricRecord
	if m != nil {
		names, records = m.names, m.records
	}
	return encodeOrdered(names, func(name string) any { return records[name] })
}

// UnmarshalJSON decodes a JSON object, preserving its key order.
func (m *RepoMetrics) UnmarshalJSON(data []byte) error {
	*m = RepoMetrics{records: make(map[string]MetricRecord)}
	return decodeOrdered(data, func(name string, raw json.RawMessage) error {
		// A null count is a missing count: it is left out of the record so
		// chart building reports the record as malformed.
		var counts map[string]*int
		if err := json.Unmarshal(raw, &counts); err != nil {
			return fmt.Errorf("failed to decode metrics of repository %q: %w", name, err)
		}
		var rec MetricRecord
		if counts != nil {
			rec = make(MetricRecord, len(counts))
			for metric, v := range counts {
				if v != nil {
					rec[metric] = *v
				}
			}
		}
		m.Set(name, rec)
		return nil
	})
}

// RepoFrequency maps repository names to an [additions, deletions] pair in insertion order.
// Pairs are stored as received so that malformed upstream data stays detectable.
type RepoFrequency struct {
	names []string
	pairs map[string][]int
}

// NewRepoFrequency creates an empty RepoFrequency.
func NewRepoFrequency() *RepoFrequency {
	return &RepoFrequency{pairs: make(map[string][]int)}
}

// Set stores the churn of a repository.
func (f *RepoFrequency) Set(name string, churn Churn) {
	f.SetPair(name, []int{churn.Additions, churn.Deletions})
}

// SetPair stores a raw [additions, deletions] pair for a repository.
func (f *RepoFrequency) SetPair(name string, pair []int) {
	if f.pairs == nil {
		f.pairs = make(map[string][]int)
	}
	if _, ok := f.pairs[name]; !ok {
		f.names = append(f.names, name)
	}
	f.pairs[name] = pair
}

// Pair returns the raw pair stored for a repository.
func (f *RepoFrequency) Pair(name string) ([]int, bool) {
	if f == nil {
		return nil, false
	}
	pair, ok := f.pairs[name]
	return pair, ok
}

// Names returns a copy of the repository names in insertion order. It is never nil.
func (f *RepoFrequency) Names() []string {
	if f == nil {
		return []string{}
	}
	return append(make([]string, 0, len(f.names)), f.names...)
}

// Len returns the number of repositories.
func (f *RepoFrequency) Len() int {
	if f == nil {
		return 0
	}
	return len(f.names)
}

// MarshalJSON encodes the frequency as {"repo": [additions, deletions], ...} in insertion order.
func (f *RepoFrequency) MarshalJSON() ([]byte, error) {
	var names []string
	var pairs map[string][]int
	if f != nil {
		names, pairs = f.names, f.pairs
	}
	return encodeOrdered(names, func(name string) any { return pairs[name] })
}

// UnmarshalJSON decodes a JSON object, preserving its key order.
func (f *RepoFrequency) UnmarshalJSON(data []byte) error {
	*f = RepoFrequency{pairs: make(map[string][]int)}
	return decodeOrdered(data, func(name string, raw json.RawMessage) error {
		// Null elements are dropped, which leaves a pair of the wrong length.
		var values []*int
		if err := json.Unmarshal(raw, &values); err != nil {
			return fmt.Errorf("failed to decode frequency of repository %q: %w", name, err)
		}
		var pair []int
		if values != nil {
			pair = make([]int, 0, len(values))
			for _, v := range values {
				if v != nil {
					pair = append(pair, *v)
				}
			}
		}
		f.SetPair(name, pair)
		return nil
	})
}

func encodeOrdered(names []string, value func(string) any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(value(name))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeOrdered walks the members of a JSON object in document order.
// A JSON null is treated as an empty object.
func decodeOrdered(data []byte, visit func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected a JSON object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected an object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := visit(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}
