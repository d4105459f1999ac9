package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsExportsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe("GET", "/api/admin/banners", 200, 120*time.Millisecond)
	m.Observe("GET", "/api/admin/banners", 200, 80*time.Millisecond)
	m.Observe("GET", "", 404, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "storefront_http_requests_total", map[string]string{"route": "/api/admin/banners", "status": "200"}); err != nil {
		t.Fatalf("fetch requests: %v", err)
	} else if got != 2 {
		t.Fatalf("expected 2 requests, got %f", got)
	}
	if _, err := fetchCounterValue(mfs, "storefront_http_requests_total", map[string]string{"route": "unknown", "status": "404"}); err != nil {
		t.Fatalf("blank route should be labelled unknown: %v", err)
	}

	mf := findMetricFamily(mfs, "storefront_http_request_duration_seconds")
	if mf == nil {
		t.Fatalf("histogram not exported")
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), map[string]string{"route": "/api/admin/banners"}) {
			if metric.GetHistogram().GetSampleCount() != 2 {
				t.Fatalf("expected 2 samples, got %d", metric.GetHistogram().GetSampleCount())
			}
			return
		}
	}
	t.Fatalf("histogram missing banner route")
}

func TestStorageMetricsRecordsResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStorageMetrics(reg)
	m.Record("put", nil)
	m.Record("delete", errors.New("boom"))

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "storefront_storage_operations_total", map[string]string{"op": "put", "result": "ok"}); err != nil || got != 1 {
		t.Fatalf("unexpected put counter %f err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "storefront_storage_operations_total", map[string]string{"op": "delete", "result": "error"}); err != nil || got != 1 {
		t.Fatalf("unexpected delete counter %f err=%v", got, err)
	}
}

func TestNilRegistryIsNoop(t *testing.T) {
	NewHTTPMetrics(nil).Observe("GET", "/", 200, time.Second)
	NewStorageMetrics(nil).Record("put", nil)
	var m *HTTPMetrics
	m.Observe("GET", "/", 200, time.Second)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if v, ok := want[pair.GetName()]; ok && v == pair.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
