package netdata

import (
	"io"

	"github.com/prometheus/prometheus/model/labels"
	"github.com/prometheus/prometheus/model/textparse"
)

// DecodePrometheusText parses the body of /api/v1/allmetrics?format=prometheus
// into the same Payload shape as the JSON export. Netdata attaches the chart
// id and the dimension id as labels on every series, which is all the
// extractor needs. Chart renaming is not visible in this format, so friendly
// name resolution only works for charts whose key already carries the name.
func DecodePrometheusText(b []byte) (Payload, error) {
	parser, err := textparse.New(b, "")
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	p := Payload{}
	for {
		entry, err := parser.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DecodeError{Err: err}
		}
		if entry != textparse.EntrySeries {
			continue
		}

		var lbls labels.Labels
		parser.Metric(&lbls)
		_, _, value := parser.Series()

		chartID := lbls.Get("chart")
		dim := lbls.Get("dimension")
		if chartID == "" || dim == "" {
			continue
		}

		chart, ok := p[chartID]
		if !ok {
			chart = Chart{
				Name:       chartID,
				Context:    lbls.Get("family"),
				Dimensions: map[string]Dimension{},
			}
		}
		chart.Dimensions[dim] = Dimension{Name: dim, Value: value}
		p[chartID] = chart
	}
	return p, nil
}
