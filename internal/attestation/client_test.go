package attestation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientIssueQR(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]string{"url_image": "https://sign.example/abc.png"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token-123")
	art, err := client.IssueQR(context.Background(), "izin-1", "ia04a", "jadwal-9")
	require.NoError(t, err)
	assert.Equal(t, "https://sign.example/abc.png", art.URLImage)
	assert.Equal(t, "/qr/izin-1/ia04a", gotPath)
	assert.Equal(t, "Bearer token-123", gotAuth)
	assert.Equal(t, "jadwal-9", gotBody["id_jadwal"])
}

func TestClientIssueQRServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.IssueQR(context.Background(), "izin-1", "ia04a", "jadwal-9")
	assert.Error(t, err)
}

func TestClientIssueQREmptyArtifact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.IssueQR(context.Background(), "izin-1", "ia04a", "jadwal-9")
	assert.Error(t, err)
}
