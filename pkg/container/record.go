package container

// Status and health values reported by the docker_local charts. Anything
// the payload does not report stays "unknown".
const (
	StatusUnknown = "unknown"
	HealthUnknown = "unknown"
)

// Metric is a float sample that may be absent from a cycle. The zero value
// means "not reported", which is distinct from a reported zero.
type Metric struct {
	Value float64
	Known bool
}

// Known wraps a reported float value.
func Known(v float64) Metric {
	return Metric{Value: v, Known: true}
}

// Count is the integer counterpart of Metric.
type Count struct {
	Value int64
	Known bool
}

// KnownCount wraps a reported integer value.
func KnownCount(v int64) Count {
	return Count{Value: v, Known: true}
}

// Record holds everything extracted for one Docker container from a single
// allmetrics payload.
type Record struct {
	// Identifier is the 12-char hex short ID when the payload exposes one,
	// otherwise empty.
	Identifier string

	// DisplayName is the resolved container name, falling back to the
	// identifier when no friendly name is available.
	DisplayName string

	Status string
	Health string

	CPUPercent        Metric
	MemoryResidentMiB Metric
	MemoryPercent     Metric
	NetworkInKbps     Metric
	NetworkOutKbps    Metric
	PIDCount          Count
}

// NewRecord returns a Record with every field at its unknown sentinel.
func NewRecord(displayName, identifier string) Record {
	return Record{
		Identifier:  identifier,
		DisplayName: displayName,
		Status:      StatusUnknown,
		Health:      HealthUnknown,
	}
}

// Key is the identity the state store and publishers reconcile on. The short
// ID wins when known since names can be reused across recreations.
func (r Record) Key() string {
	if r.Identifier != "" {
		return r.Identifier
	}
	return r.DisplayName
}
