package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollector_ObserveResolution(t *testing.T) {
	collector := NewCollector()

	collector.ObserveResolution("direct", 2*time.Millisecond)
	collector.ObserveResolution("direct", 3*time.Millisecond)
	collector.ObserveResolution("disambiguation", time.Millisecond)

	require.Equal(t, 2, testutil.CollectAndCount(collector.resolutionsTotal))
	require.Equal(t, 2.0, testutil.ToFloat64(collector.resolutionsTotal.WithLabelValues("direct")))
	require.Equal(t, 1.0, testutil.ToFloat64(collector.resolutionsTotal.WithLabelValues("disambiguation")))
	require.Equal(t, 2, testutil.CollectAndCount(collector.resolutionDuration))
}

func TestCollector_ObserveSelection(t *testing.T) {
	collector := NewCollector()

	collector.ObserveSelection("learned")
	collector.ObserveSelection("not_found")
	collector.ObserveSelection("learned")

	require.Equal(t, 2.0, testutil.ToFloat64(collector.selectionsTotal.WithLabelValues("learned")))
	require.Equal(t, 1.0, testutil.ToFloat64(collector.selectionsTotal.WithLabelValues("not_found")))
}

func TestCollector_SetStorageCounts(t *testing.T) {
	collector := NewCollector()

	collector.SetStorageCounts(4, 1)
	collector.SetStorageCounts(5, 2)

	require.Equal(t, 5.0, testutil.ToFloat64(collector.storageCount.WithLabelValues("qa_pairs")))
	require.Equal(t, 2.0, testutil.ToFloat64(collector.storageCount.WithLabelValues("question_associations")))
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector()
	collector.ObserveResolution("direct", time.Millisecond)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `faqbot_resolutions_total{outcome="direct"} 1`)
}
