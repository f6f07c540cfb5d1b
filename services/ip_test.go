package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func echoServer(status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestResolvePublicIPChain(t *testing.T) {
	tests := []struct {
		name     string
		services []*httptest.Server
		want     string
	}{
		{
			name: "first service wins",
			services: []*httptest.Server{
				echoServer(200, `{"ip":"1.2.3.4"}`),
				echoServer(200, `{"ip":"9.9.9.9"}`),
			},
			want: "1.2.3.4",
		},
		{
			name: "falls through non-2xx to origin shape",
			services: []*httptest.Server{
				echoServer(500, ``),
				echoServer(200, `{"origin":"5.6.7.8"}`),
			},
			want: "5.6.7.8",
		},
		{
			name: "origin with proxy chain keeps first entry",
			services: []*httptest.Server{
				echoServer(200, `{"origin":"5.6.7.8, 10.0.0.1"}`),
			},
			want: "5.6.7.8",
		},
		{
			name: "bare text body is trimmed",
			services: []*httptest.Server{
				echoServer(200, "  203.0.113.7\n"),
			},
			want: "203.0.113.7",
		},
		{
			name: "garbage bodies are skipped",
			services: []*httptest.Server{
				echoServer(200, `not an ip`),
				echoServer(200, `{"ip":"1.2.3.4"}`),
			},
			want: "1.2.3.4",
		},
		{
			name: "every service failing yields empty string",
			services: []*httptest.Server{
				echoServer(500, ``),
				echoServer(404, ``),
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			endpoints := make([]string, 0, len(tt.services))
			for _, s := range tt.services {
				defer s.Close()
				endpoints = append(endpoints, s.URL)
			}

			resolver := NewPublicIPResolver(endpoints, 2*time.Second)
			got := resolver.ResolvePublicIP(context.Background())
			if got != tt.want {
				t.Errorf("ResolvePublicIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolvePublicIPNoEndpoints(t *testing.T) {
	resolver := NewPublicIPResolver(nil, time.Second)
	if got := resolver.ResolvePublicIP(context.Background()); got != "" {
		t.Errorf("expected empty string with no endpoints, got %q", got)
	}
}
