package netdata

import (
	"encoding/json"
	"sort"

	"github.com/spf13/cast"
)

// Dimension is one sample inside a chart. Values come off the wire loosely
// typed (number, string, null), so coercion is deferred to Chart.Value.
type Dimension struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

// Chart is one entry of the allmetrics export. Name differs from the chart
// key when netdata's cgroup renaming is active, which is the only reliable
// source of friendly container names.
type Chart struct {
	Name        string               `json:"name"`
	Context     string               `json:"context"`
	Units       string               `json:"units"`
	LastUpdated int64                `json:"last_updated"`
	Dimensions  map[string]Dimension `json:"dimensions"`
}

// Payload is the flat chart-key -> chart mapping of one allmetrics scrape.
type Payload map[string]Chart

// DecodeError marks a payload that was fetched but could not be parsed.
// Callers treat it as "zero containers this cycle" rather than a transport
// failure.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "decoding allmetrics payload: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DecodePayload parses the JSON body of /api/v1/allmetrics?format=json.
func DecodePayload(b []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return p, nil
}

// Value coerces the named dimension to a float. The second return is false
// when the dimension is absent, null, or not numeric.
func (c Chart) Value(dim string) (float64, bool) {
	d, ok := c.Dimensions[dim]
	if !ok || d.Value == nil {
		return 0, false
	}
	v, err := cast.ToFloat64E(d.Value)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ActiveDimension returns the name of the dimension whose value is 1, the
// convention the docker_local state and health charts use to flag the
// current state. Dimension ids are walked in sorted order so the answer is
// stable for a given chart.
func (c Chart) ActiveDimension() (string, bool) {
	ids := make([]string, 0, len(c.Dimensions))
	for id := range c.Dimensions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		v, ok := c.Value(id)
		if !ok || v != 1 {
			continue
		}
		if name := c.Dimensions[id].Name; name != "" {
			return name, true
		}
		return id, true
	}
	return "", false
}

// Keys returns the chart keys in sorted order for deterministic iteration.
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
