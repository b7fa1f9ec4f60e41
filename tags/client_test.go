package tags

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func newTestClient(t *testing.T, body string, status int) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New(&Config{Endpoint: srv.URL})
}

func TestLookupAlternatePaths(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "top level tags",
			body: `{"tags":["algebra","calculus"]}`,
			want: []string{"algebra", "calculus"},
		},
		{
			name: "nested data tags",
			body: `{"data":{"tags":["geometry"]}}`,
			want: []string{"geometry"},
		},
		{
			name: "keywords fallback",
			body: `{"keywords":["trig"]}`,
			want: []string{"trig"},
		},
		{
			name: "first non-empty wins",
			body: `{"tags":[],"keywords":["fallback"]}`,
			want: []string{"fallback"},
		},
		{
			name: "object elements",
			body: `{"suggestions":[{"tag":"x"},{"name":"y"},{"other":"z"}]}`,
			want: []string{"x", "y"},
		},
		{
			name: "no recognized path",
			body: `{"something":"else"}`,
			want: nil,
		},
		{
			name: "blank entries dropped",
			body: `{"tags":["", "  ", "real"]}`,
			want: []string{"real"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.body, http.StatusOK)
			got, err := c.Lookup(context.Background(), "query")
			if err != nil {
				t.Fatalf("Lookup failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Lookup = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLookupCapsResults(t *testing.T) {
	c := newTestClient(t, `{"tags":["a","b","c","d","e","f","g","h","i","j"]}`, http.StatusOK)
	got, err := c.Lookup(context.Background(), "query")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(got) != DefaultMaxTags {
		t.Errorf("len = %d, want %d", len(got), DefaultMaxTags)
	}
}

func TestLookupErrorPaths(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		c := newTestClient(t, `{}`, http.StatusInternalServerError)
		if _, err := c.Lookup(context.Background(), "query"); err == nil {
			t.Error("expected an error for non-200 status")
		}
	})

	t.Run("unreachable service", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()
		c := New(&Config{Endpoint: srv.URL})
		if _, err := c.Lookup(context.Background(), "query"); err == nil {
			t.Error("expected an error for unreachable service")
		}
	})

	t.Run("no endpoint configured", func(t *testing.T) {
		c := New(nil)
		got, err := c.Lookup(context.Background(), "query")
		if err != nil || got != nil {
			t.Errorf("Lookup = (%v, %v), want (nil, nil)", got, err)
		}
	})
}
