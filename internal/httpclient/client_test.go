package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	// Test with nil config
	client := New(nil)
	if client == nil {
		t.Fatal("Expected client to be created with nil config")
		return
	}
	if client.config.Timeout != 0 {
		t.Errorf("Expected no default timeout, got %v", client.config.Timeout)
	}
	if client.config.DefaultHeaders["Accept"] != "application/json" {
		t.Errorf("Expected default Accept header, got %q", client.config.DefaultHeaders["Accept"])
	}

	// Test with custom config
	client = New(&Config{Timeout: 10 * time.Second})
	if client.httpClient.Timeout != 10*time.Second {
		t.Errorf("Expected timeout 10s, got %v", client.httpClient.Timeout)
	}
}

func TestPostForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST method, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/x-www-form-urlencoded" {
			t.Errorf("Expected form content type, got %s", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Expected Accept header, got %s", r.Header.Get("Accept"))
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("Failed to parse form: %v", err)
		}
		if r.PostForm.Get("redirect_uri") != "http://localhost:1455/auth/callback" {
			t.Errorf("Expected redirect_uri to round-trip, got %s", r.PostForm.Get("redirect_uri"))
		}
		if r.PostForm.Get("code") != "a&b=c" {
			t.Errorf("Expected escaped code to round-trip, got %s", r.PostForm.Get("code"))
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	form := url.Values{}
	form.Set("redirect_uri", "http://localhost:1455/auth/callback")
	form.Set("code", "a&b=c")

	resp, err := New(nil).PostForm(context.Background(), server.URL, form, nil)
	if err != nil {
		t.Fatalf("POST form request failed: %v", err)
	}

	var result map[string]bool
	if err := resp.JSON(&result); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if !result["ok"] {
		t.Errorf("Expected ok=true, got %v", result)
	}
}

func TestDoErrorStatusReturnsResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer server.Close()

	resp, err := New(nil).PostForm(context.Background(), server.URL, url.Values{}, nil)
	if err == nil {
		t.Fatal("Expected error for 401 response")
	}
	if resp == nil {
		t.Fatal("Expected response alongside error")
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.StatusCode)
	}
	if resp.String() != `{"error":"invalid_grant"}` {
		t.Errorf("Unexpected body: %s", resp.String())
	}
}

func TestDoContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := New(nil).PostForm(ctx, server.URL, url.Values{}, nil)
	if err == nil {
		t.Fatal("Expected error for cancelled context")
	}
	if resp != nil {
		t.Errorf("Expected nil response, got status %d", resp.StatusCode)
	}
}

func TestJSONEmptyBody(t *testing.T) {
	resp := &Response{}
	var v map[string]interface{}
	if err := resp.JSON(&v); err == nil {
		t.Error("Expected error for empty body")
	}
}
