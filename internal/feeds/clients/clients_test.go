package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNOAAKpClientParsesProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[
			["time_tag","Kp","a_running","station_count"],
			["2026-05-01 09:00:00.000","2.33","8","8"],
			["2026-05-01 12:00:00.000","4.67","18","8"]
		]`))
	}))
	defer srv.Close()

	c := NewNOAAKpClient(srv.Client(), srv.URL)
	readings, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, readings, 2)
	assert.Equal(t, "2026-05-01 09:00:00.000", readings[0].TimeTag)
	assert.Equal(t, 2.33, readings[0].Kp)
	assert.Equal(t, 4.67, readings[1].Kp)
}

func TestNOAAKpClientBadValueFailsFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[["time_tag","Kp"],["2026-05-01 09:00:00.000","n/a"]]`))
	}))
	defer srv.Close()

	_, err := NewNOAAKpClient(srv.Client(), srv.URL).Fetch(context.Background())
	assert.Error(t, err)
}

func TestNOAAKpClientHeaderOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[["time_tag","Kp"]]`))
	}))
	defer srv.Close()

	_, err := NewNOAAKpClient(srv.Client(), srv.URL).Fetch(context.Background())
	assert.Error(t, err)
}

func TestISSClientParsesTelemetry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{
			"name":"iss","latitude":43.27,"longitude":-11.52,
			"altitude":419.3,"velocity":27571.8,
			"visibility":"daylight","timestamp":1773480413
		}`))
	}))
	defer srv.Close()

	r, err := NewISSClient(srv.Client(), srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 43.27, r.Latitude)
	assert.Equal(t, -11.52, r.Longitude)
	assert.Equal(t, 419.3, r.AltitudeKm)
	assert.Equal(t, "daylight", r.Visibility)
	assert.Equal(t, time.Unix(1773480413, 0).UTC(), r.Timestamp)
}

func TestNEOClientParsesFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("start_date"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		w.Write([]byte(`{"near_earth_objects":{"2026-06-02":[{
			"id":"3542519","name":"(2010 PK9)",
			"estimated_diameter":{"meters":{"estimated_diameter_min":100.0,"estimated_diameter_max":180.0}},
			"close_approach_data":[{
				"epoch_date_close_approach":1780444800000,
				"miss_distance":{"astronomical":"0.05"},
				"relative_velocity":{"kilometers_per_second":"14.3"}
			}]
		}]}}`))
	}))
	defer srv.Close()

	objects, err := NewNEOClient(srv.Client(), srv.URL, "test-key").Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "(2010 PK9)", objects[0].Name)
	assert.Equal(t, 140.0, objects[0].AvgDiameterM())
	assert.Equal(t, 0.05, objects[0].MissDistanceAu)
	assert.Equal(t, 14.3, objects[0].VelocityKps)
}

func TestNEOClientDropsObjectsWithoutApproach(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"near_earth_objects":{"2026-06-02":[{
			"id":"1","name":"orphan",
			"estimated_diameter":{"meters":{"estimated_diameter_min":10,"estimated_diameter_max":20}},
			"close_approach_data":[]
		}]}}`))
	}))
	defer srv.Close()

	objects, err := NewNEOClient(srv.Client(), srv.URL, "k").Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestGetJSONRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	backoff := Backoff{MaxRetries: 3, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond}
	var out struct {
		OK bool `json:"ok"`
	}
	err := getJSON(context.Background(), srv.Client(), newBreaker(t.Name()), backoff, srv.URL, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetJSONDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	backoff := Backoff{MaxRetries: 3, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond}
	var out map[string]any
	err := getJSON(context.Background(), srv.Client(), newBreaker(t.Name()), backoff, srv.URL, &out)
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetJSONHonorsContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	backoff := Backoff{MaxRetries: 3, InitialInterval: time.Second}
	var out map[string]any
	err := getJSON(ctx, srv.Client(), newBreaker(t.Name()), backoff, srv.URL, &out)
	assert.ErrorIs(t, err, context.Canceled)
}
