package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRouteLabel(t *testing.T) {
	tests := map[string]string{
		"/":                               "/",
		"/api/v1/inquiry/fields/fullName": "/api/v1/inquiry/fields/{name}",
		"/api/v1/inquiries/42":            "/api/v1/inquiries/{id}",
		"/api/v1/inquiries/42/status":     "/api/v1/inquiries/{id}/status",
		"/static/site.css":                "/static/",
		"/wp-login.php":                   "other",
	}
	for path, want := range tests {
		assert.Equal(t, want, routeLabel(path), path)
	}
}

func TestRecordSubmission(t *testing.T) {
	before := testutil.ToFloat64(inquirySubmissionsTotal.WithLabelValues("accepted"))
	RecordSubmission("accepted")
	assert.Equal(t, before+1, testutil.ToFloat64(inquirySubmissionsTotal.WithLabelValues("accepted")))
}

func TestRecordMailDelivery(t *testing.T) {
	before := testutil.ToFloat64(mailDeliveriesTotal.WithLabelValues("smtp", "failure"))
	RecordMailDelivery("smtp", errors.New("421 try later"))
	assert.Equal(t, before+1, testutil.ToFloat64(mailDeliveriesTotal.WithLabelValues("smtp", "failure")))
}

func TestPrometheusMiddlewareCountsRequests(t *testing.T) {
	handler := PrometheusMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/inquiries/{id}", "418")
	before := testutil.ToFloat64(counter)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/inquiries/7", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
