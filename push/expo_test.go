package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"classhawk-scraper/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestValidToken(t *testing.T) {
	c := NewExpoClient("http://unused", zap.NewNop().Sugar())

	require.True(t, c.ValidToken("ExponentPushToken[xxxxxxxx]"))
	require.True(t, c.ValidToken("ExpoPushToken[yyyy]"))
	require.False(t, c.ValidToken(""))
	require.False(t, c.ValidToken("apns-device-token"))
	require.False(t, c.ValidToken("ExponentPushToken[missing-bracket"))
}

func TestSendChunksAtTransportLimit(t *testing.T) {
	var chunkSizes []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var batch []models.PushMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&batch))
		chunkSizes = append(chunkSizes, len(batch))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewExpoClient(server.URL, zap.NewNop().Sugar())

	messages := make([]models.PushMessage, 230)
	for i := range messages {
		messages[i] = models.PushMessage{To: "ExponentPushToken[a]", Title: "Spot Found!"}
	}

	require.NoError(t, c.Send(context.Background(), messages))
	require.Equal(t, []int{100, 100, 30}, chunkSizes)
}

func TestSendReportsTransportRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewExpoClient(server.URL, zap.NewNop().Sugar())
	err := c.Send(context.Background(), []models.PushMessage{{To: "ExponentPushToken[a]"}})
	require.Error(t, err)
}

func TestSendNothingIsNoop(t *testing.T) {
	c := NewExpoClient("http://unreachable.invalid", zap.NewNop().Sugar())
	require.NoError(t, c.Send(context.Background(), nil))
}
