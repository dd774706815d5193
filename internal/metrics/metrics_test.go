package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/evdnx/tachart/internal/logger"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_ObserveCompute(t *testing.T) {
	r := NewRecorder()
	r.ObserveCompute("rsi", 3*time.Millisecond, nil)
	r.ObserveCompute("rsi", time.Millisecond, nil)
	r.ObserveCompute("macd", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.computations.WithLabelValues("rsi", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.computations.WithLabelValues("macd", OutcomeError)))
	assert.Equal(t, 2, testutil.CollectAndCount(r.computeDur))
}

func TestRecorder_Bars(t *testing.T) {
	r := NewRecorder()
	r.AddBars(100)
	r.AddBars(0)
	r.AddBars(-3)
	assert.Equal(t, 100.0, testutil.ToFloat64(r.bars))
}

func TestRecorder_Preset(t *testing.T) {
	r := NewRecorder()
	r.ObservePreset("save", nil)
	r.ObservePreset("load", errors.New("missing"))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.presetOps.WithLabelValues("save", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.presetOps.WithLabelValues("load", OutcomeError)))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveCompute("ma", time.Second, nil)
		r.AddBars(10)
		r.ObservePreset("save", nil)
	})
	assert.Nil(t, r.Registry())
}

func TestServer_Endpoints(t *testing.T) {
	r := NewRecorder()
	r.AddBars(7)
	srv := NewServer("127.0.0.1:0", r, logger.Discard())

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "tachart_bars_processed_total 7"))

	resp, err = http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)
}
