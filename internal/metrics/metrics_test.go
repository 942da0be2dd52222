package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordDBQuery(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("test_query"))

	RecordDBQuery("test_query", 5*time.Millisecond, nil)
	assert.Equal(t, before, testutil.ToFloat64(DBQueryErrors.WithLabelValues("test_query")))

	RecordDBQuery("test_query", 5*time.Millisecond, errors.New("connection refused"))
	assert.Equal(t, before+1, testutil.ToFloat64(DBQueryErrors.WithLabelValues("test_query")))
}

func TestRecordAPIRequest(t *testing.T) {
	counter := APIRequestsTotal.WithLabelValues("GET", "/themes", "200")
	before := testutil.ToFloat64(counter)

	RecordAPIRequest("GET", "/themes", 200, 10*time.Millisecond)
	RecordAPIRequest("GET", "/themes", 200, 20*time.Millisecond)

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	assert.Equal(t, before+1, testutil.ToFloat64(APIActiveRequests))

	TrackActiveRequest(false)
	assert.Equal(t, before, testutil.ToFloat64(APIActiveRequests))
}
