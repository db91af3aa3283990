package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_HandlerServesRegisteredGauges(t *testing.T) {
	m := New(Sources{
		WorkerCount:            func() float64 { return 3 },
		LostFileCount:          func() float64 { return 1 },
		UncheckpointedDepCount: func() float64 { return 2 },
	})
	m.ObserveJournalAppend(5 * time.Millisecond)
	m.IncRecomputationLaunch()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "tachyon_master_workers 3")
	assert.Contains(t, body, "tachyon_master_lost_files 1")
	assert.Contains(t, body, "tachyon_master_uncheckpointed_dependencies 2")
	assert.Contains(t, body, "tachyon_master_recomputation_launches_total 1")
}
