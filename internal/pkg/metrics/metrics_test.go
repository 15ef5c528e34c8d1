package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRequest(t *testing.T) {
	before := CounterValue(ClientRequests, "login", "200")
	failedBefore := CounterValue(ClientRequests, "login", "error")

	RecordRequest("login", 200, 20*time.Millisecond)
	RecordRequest("login", 0, time.Millisecond)

	assert.Equal(t, before+1, CounterValue(ClientRequests, "login", "200"))
	assert.Equal(t, failedBefore+1, CounterValue(ClientRequests, "login", "error"))
}

func TestSnapshot(t *testing.T) {
	RecordCase("serverest", true, time.Second)
	RecordStubRequest("GET", "/produtos", 200)

	samples, err := Snapshot()
	require.NoError(t, err)

	var found bool
	for _, s := range samples {
		if s.Name == "serverest_e2e_cases_total" && s.Labels["suite"] == "serverest" && s.Labels["outcome"] == "passed" {
			found = true
			assert.GreaterOrEqual(t, s.Value, float64(1))
		}
		assert.NotEqual(t, "serverest_e2e_case_duration_seconds", s.Name)
	}
	assert.True(t, found)
}

func TestSummarize(t *testing.T) {
	RecordRequest("summary_op", 200, 100*time.Millisecond)
	RecordRequest("summary_op", 503, 300*time.Millisecond)
	RecordRequest("summary_op", 0, 200*time.Millisecond)
	RecordRequest("summary_op", 400, 200*time.Millisecond)

	stats, err := Summarize()
	require.NoError(t, err)

	var got *OperationStat
	for i := range stats {
		if stats[i].Operation == "summary_op" {
			got = &stats[i]
		}
	}
	require.NotNil(t, got)
	assert.Equal(t, 4, got.Requests)
	assert.Equal(t, 2, got.Failures)
	assert.InDelta(t, float64(200*time.Millisecond), float64(got.MeanLatency), float64(time.Millisecond))
}
