package gcs

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &Client{
		httpClient:    srv.Client(),
		defaultBucket: "catalog-assets",
		apiEndpoint:   srv.URL,
		tokenSource: &tokenSource{
			fetch: func(context.Context) (string, time.Time, error) {
				return "test-token", time.Now().Add(time.Hour), nil
			},
		},
	}
}

func TestUploadObjectReturnsPublicURL(t *testing.T) {
	var gotPath, gotAuth, gotBody string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	})

	url, err := client.UploadObject(context.Background(), "", "products/p1/img.png", "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://storage.googleapis.com/catalog-assets/products/p1/img.png" {
		t.Fatalf("unexpected url %q", url)
	}
	if !strings.Contains(gotPath, "/upload/storage/v1/b/catalog-assets/o") {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotBody != "png-bytes" {
		t.Fatalf("body not forwarded, got %q", gotBody)
	}
}

func TestUploadObjectSurfacesServerError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	})

	_, err := client.UploadObject(context.Background(), "", "obj", "image/png", strings.NewReader("x"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected body in error, got %v", err)
	}
}

func TestDeleteObjectTreatsNotFoundAsSuccess(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusNoContent, http.StatusNotFound} {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				t.Fatalf("expected DELETE, got %s", r.Method)
			}
			w.WriteHeader(status)
		})
		if err := client.DeleteObject(context.Background(), "", "products/p1/img.png"); err != nil {
			t.Fatalf("status %d should be success, got %v", status, err)
		}
	}
}

func TestDeleteObjectSurfacesServerError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	if err := client.DeleteObject(context.Background(), "", "obj"); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestObjectFromURL(t *testing.T) {
	bucket, object, err := ObjectFromURL("https://storage.googleapis.com/catalog-assets/products/p1/img.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bucket != "catalog-assets" {
		t.Fatalf("unexpected bucket %q", bucket)
	}
	if object != "products/p1/img.png" {
		t.Fatalf("unexpected object %q", object)
	}

	if _, _, err := ObjectFromURL("https://storage.googleapis.com/only-bucket"); err == nil {
		t.Fatal("expected error for url without object path")
	}
}

func TestTokenSourceCachesUntilExpiry(t *testing.T) {
	calls := 0
	ts := &tokenSource{
		fetch: func(context.Context) (string, time.Time, error) {
			calls++
			return "tok", time.Now().Add(time.Hour), nil
		},
	}

	for i := 0; i < 3; i++ {
		if _, err := ts.Token(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected single fetch, got %d", calls)
	}
}
