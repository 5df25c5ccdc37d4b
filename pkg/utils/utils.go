package utils

import (
	"fmt"

	"github.com/lukegackle/Netdata-Docker-Integration/pkg/container"
)

// FormatMetric renders a possibly-unknown metric for human output.
func FormatMetric(m container.Metric) string {
	if !m.Known {
		return "-"
	}
	return fmt.Sprintf("%.2f", m.Value)
}

// FormatCount renders a possibly-unknown count for human output.
func FormatCount(c container.Count) string {
	if !c.Known {
		return "-"
	}
	return fmt.Sprintf("%d", c.Value)
}
