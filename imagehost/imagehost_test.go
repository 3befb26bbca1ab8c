package imagehost

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://host/img1.jpg", "img1"},
		{"https://host/img-up/abc123", "abc123"},
		{"https://host/img-up/abc123.png", "abc123"},
		{"https://res.example.com/a/b/photo.final.png", "photo"},
		{"plainstring", "plainstring"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AssetID(tt.url), "url %q", tt.url)
	}
}

type recordedRequest struct {
	method string
	path   string
}

func newFakeS3(t *testing.T) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, recordedRequest{method: r.Method, path: r.URL.Path})
		switch r.Method {
		case http.MethodPut:
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func newTestHost(t *testing.T, endpoint string) *S3Host {
	t.Helper()
	host, err := New(context.Background(), Options{
		Endpoint:  endpoint,
		Region:    "us-east-1",
		AccessKey: "test-key",
		SecretKey: "test-secret",
	})
	require.NoError(t, err)
	return host
}

func TestUpload_ReturnsPublicURLWithExtensionlessKey(t *testing.T) {
	srv, requests := newFakeS3(t)
	host := newTestHost(t, srv.URL)

	localPath := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(localPath, []byte("fake image bytes"), 0o600))

	url, err := host.Upload(context.Background(), localPath)
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	put := (*requests)[0]
	assert.Equal(t, http.MethodPut, put.method)
	assert.True(t, strings.HasPrefix(put.path, "/"+Bucket+"/"), "path %q", put.path)

	key := strings.TrimPrefix(put.path, "/"+Bucket+"/")
	assert.NotContains(t, key, ".")
	assert.Equal(t, srv.URL+"/"+Bucket+"/"+key, url)

	// Deriving the asset id from the returned URL must yield the object key.
	assert.Equal(t, key, AssetID(url))
}

func TestUpload_MissingFile(t *testing.T) {
	srv, _ := newFakeS3(t)
	host := newTestHost(t, srv.URL)

	_, err := host.Upload(context.Background(), filepath.Join(t.TempDir(), "absent.jpg"))
	require.Error(t, err)
}

func TestDelete_IssuesDeleteForAssetID(t *testing.T) {
	srv, requests := newFakeS3(t)
	host := newTestHost(t, srv.URL)

	require.NoError(t, host.Delete(context.Background(), "img1"))

	require.Len(t, *requests, 1)
	assert.Equal(t, http.MethodDelete, (*requests)[0].method)
	assert.Equal(t, "/"+Bucket+"/img1", (*requests)[0].path)
}
