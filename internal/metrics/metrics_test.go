package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	t.Parallel()

	m := New()
	m.Request(StatusOK)
	m.Request(StatusOK)
	m.Request(StatusClientError)
	m.CacheResult("hit")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues(StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(StatusClientError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.draftCache.WithLabelValues("hit")))
}

func TestMetricsHandler(t *testing.T) {
	t.Parallel()

	m := New()
	m.Stage("normalize", 20*time.Millisecond)
	m.SkillsExtracted(7)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `cv_parser_stage_duration_seconds_count{stage="normalize"} 1`)
	assert.Contains(t, string(body), "cv_parser_skills_extracted_sum 7")
	assert.Contains(t, string(body), "go_goroutines")
}
