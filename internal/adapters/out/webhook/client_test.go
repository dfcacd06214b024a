package webhook_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"parcel-dispatch/internal/adapters/out/webhook"
	"parcel-dispatch/internal/pkg/codec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Send_JSON(t *testing.T) {
	type request struct {
		contentType string
		body        map[string]any
	}
	received := make(chan request, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := request{contentType: r.Header.Get("Content-Type")}
		data, _ := io.ReadAll(r.Body)
		_ = codec.JSON.Unmarshal(data, &req.body)
		received <- req
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := webhook.NewClient(time.Second).Send(t.Context(), srv.URL, map[string]any{"parcel_id": "P-1"})

	require.NoError(t, err)
	got := <-received
	assert.Equal(t, codec.MIMEJSON, got.contentType)
	assert.Equal(t, "P-1", got.body["parcel_id"])
}

func TestClient_Send_YAML(t *testing.T) {
	received := make(chan map[string]any, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		data, _ := io.ReadAll(r.Body)
		_ = codec.YAML.Unmarshal(data, &body)
		received <- body
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := webhook.NewClient(time.Second, webhook.WithCodec(codec.YAML))
	err := client.Send(t.Context(), srv.URL, map[string]any{"event": "delivery_assigned"})

	require.NoError(t, err)
	assert.Equal(t, "delivery_assigned", (<-received)["event"])
}

func TestClient_Send_Non2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := webhook.NewClient(time.Second).Send(t.Context(), srv.URL, map[string]any{})

	require.ErrorContains(t, err, "unexpected status 502")
}

func TestClient_Send_HonoursContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	err := webhook.NewClient(time.Minute).Send(ctx, srv.URL, map[string]any{})

	require.ErrorIs(t, err, context.DeadlineExceeded)
}
