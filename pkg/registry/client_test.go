package registry

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOfficers_Success(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[
			{"name":"SMITH, Jane","officer_role":"director","appointed_on":"2020-03-01","nationality":"British"},
			{"name":"JONES, Bob","officer_role":"secretary","resigned_on":"2022-01-15"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	officers, err := client.GetOfficers(context.Background(), "01234567")
	require.NoError(t, err)
	require.Len(t, officers, 2)

	assert.Equal(t, "/company/01234567/officers", gotPath)
	assert.Equal(t, "SMITH, Jane", officers[0].Name)
	assert.Equal(t, "director", officers[0].Role)
	assert.Equal(t, "2020-03-01", officers[0].AppointedOn)
	assert.Equal(t, "2022-01-15", officers[1].ResignedOn)

	// API key as basic-auth username, empty password.
	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("test-key:"))
	assert.Equal(t, want, gotAuth)
}

func TestGetOfficers_NotFoundIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"company not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	officers, err := client.GetOfficers(context.Background(), "99999999")
	require.NoError(t, err)
	assert.Nil(t, officers)
}

func TestGetOfficers_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "upstream down", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"items":[{"name":"SMITH, Jane","officer_role":"director"}]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	officers, err := client.GetOfficers(context.Background(), "01234567")
	require.NoError(t, err)
	require.Len(t, officers, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetOfficers_AuthFailureIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("bad-key", WithBaseURL(srv.URL))
	_, err := client.GetOfficers(context.Background(), "01234567")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetOfficers_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": [`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.GetOfficers(context.Background(), "01234567")
	assert.Error(t, err)
}
