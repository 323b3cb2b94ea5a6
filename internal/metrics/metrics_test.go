package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	c := New()
	c.RecordUpload(OutcomeSuccess, 2048)
	c.RecordUpload(OutcomeRejected, 0)
	c.RecordUpload(OutcomeSuccess, 1024)
	c.RecordList(true)
	c.RecordList(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.uploads.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.uploads.WithLabelValues(OutcomeRejected)))
	assert.Equal(t, 3072.0, testutil.ToFloat64(c.uploadedBytes))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.listRequests.WithLabelValues("error")))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "uploader_uploads_total")
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.RecordUpload(OutcomeFailed, 10)
		c.RecordList(true)
	})
}
