package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCartMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCartMetrics(reg)

	m.ObserveOperation("add", ResultOK)
	m.ObserveOperation("add", ResultOK)
	m.ObserveOperation("add", ResultRejected)
	m.IncRejection("bulk_update")
	m.IncSubmission(ResultOK)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "cart_operations_total", map[string]string{"operation": "add", "result": ResultOK}); err != nil {
		t.Fatalf("fetch operations: %v", err)
	} else if got != 2 {
		t.Fatalf("expected add/ok=2, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "cart_validation_rejections_total", map[string]string{"operation": "bulk_update"}); err != nil {
		t.Fatalf("fetch rejections: %v", err)
	} else if got != 1 {
		t.Fatalf("expected rejection=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "cart_submissions_total", map[string]string{"result": ResultOK}); err != nil {
		t.Fatalf("fetch submissions: %v", err)
	} else if got != 1 {
		t.Fatalf("expected submission=1, got %f", got)
	}
}

func TestCartMetricsNilSafe(t *testing.T) {
	var nilMetrics *CartMetrics
	nilMetrics.ObserveOperation("add", ResultOK)
	nilMetrics.IncRejection("add")
	nilMetrics.IncSubmission(ResultError)

	unregistered := NewCartMetrics(nil)
	unregistered.ObserveOperation("", "")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if matchesLabels(metric.GetLabel(), labels) {
				return metric.GetCounter().GetValue(), nil
			}
		}
		return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
	}
	return 0, fmt.Errorf("metric %q not found", name)
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if v, ok := want[pair.GetName()]; ok {
			if v != pair.GetValue() {
				return false
			}
			matched++
		}
	}
	return matched == len(want)
}
