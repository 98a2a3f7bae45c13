package observe

import (
	"context"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// NewManualProvider returns a meter provider whose measurements are
// collected on demand through the returned reader. It is used by batch
// tools that print a summary instead of exporting.
func NewManualProvider(serviceVersion string) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName("lc3"),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, nil, err
	}
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	return mp, reader, nil
}

// SummaryRow is one collected data point.
type SummaryRow struct {
	Name       string  `yaml:"name"`
	Attributes string  `yaml:"attributes,omitempty"`
	Count      uint64  `yaml:"count"`          // observations (histograms) or total (counters)
	Mean       float64 `yaml:"mean,omitempty"` // histograms only
	Max        float64 `yaml:"max,omitempty"`  // histograms only
}

// Summarize collects reader and flattens every data point into rows,
// sorted by name and attributes.
func Summarize(ctx context.Context, reader *sdkmetric.ManualReader) ([]SummaryRow, error) {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		return nil, err
	}
	var rows []SummaryRow
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					row := SummaryRow{Name: m.Name, Attributes: attrString(dp.Attributes), Count: dp.Count}
					if dp.Count > 0 {
						row.Mean = dp.Sum / float64(dp.Count)
					}
					if v, ok := dp.Max.Value(); ok {
						row.Max = v
					}
					rows = append(rows, row)
				}
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					rows = append(rows, SummaryRow{Name: m.Name, Attributes: attrString(dp.Attributes), Count: uint64(max(dp.Value, 0))})
				}
			}
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].Attributes < rows[j].Attributes
	})
	return rows, nil
}

func attrString(set attribute.Set) string {
	var b strings.Builder
	iter := set.Iter()
	for iter.Next() {
		kv := iter.Attribute()
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(kv.Key))
		b.WriteByte('=')
		b.WriteString(kv.Value.Emit())
	}
	return b.String()
}
