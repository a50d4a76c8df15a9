package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sealevel/internal/fetcher"
	"sealevel/internal/ratelimit"
)

func TestNewHTTPTable(t *testing.T) {
	url := "https://datahub.io/core/sea-level-rise/r/sea-level.csv"

	src := NewHTTPTable(url, fetcher.NewHTTPClient(time.Second), nil)

	if src == nil {
		t.Fatal("NewHTTPTable() returned nil")
	}
	if got := src.ID(); got != url {
		t.Errorf("ID() = %q, want %q", got, url)
	}
	if src.client == nil {
		t.Error("client is nil")
	}
}

func TestNewHTTPTables_PreservesOrder(t *testing.T) {
	urls := []string{"https://a.example/1.csv", "https://b.example/2.csv", "https://c.example/3.csv"}

	sources := NewHTTPTables(urls, fetcher.NewHTTPClient(time.Second), ratelimit.Unlimited())

	if len(sources) != len(urls) {
		t.Fatalf("NewHTTPTables() returned %d sources, want %d", len(sources), len(urls))
	}
	for i, s := range sources {
		if s.ID() != urls[i] {
			t.Errorf("sources[%d].ID() = %q, want %q", i, s.ID(), urls[i])
		}
	}
}

func TestHTTPTable_Fetch_CSV(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %q, want GET", r.Method)
		}
		w.Header().Set("Content-Type", "text/csv")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Year,CSIRO_adjusted_GMSL\n1880,0\n1881,0.22\n"))
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	src := NewHTTPTable(server.URL, fetcher.NewHTTPClient(time.Second), ratelimit.Unlimited())

	table, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() returned unexpected error: %v", err)
	}
	if len(table.Columns) != 2 || table.Columns[1] != "CSIRO_adjusted_GMSL" {
		t.Errorf("Columns = %v, want [Year CSIRO_adjusted_GMSL]", table.Columns)
	}
	if len(table.Rows) != 2 {
		t.Errorf("len(Rows) = %d, want 2", len(table.Rows))
	}
}

func TestHTTPTable_Fetch_JSON(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"data":[{"ym":"199101","sea_level":1.2}]}`))
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	src := NewHTTPTable(server.URL, fetcher.NewHTTPClient(time.Second), nil)

	table, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() returned unexpected error: %v", err)
	}
	if got := table.Cell(0, 1); got != "1.2" {
		t.Errorf("Cell(0, 1) = %q, want %q", got, "1.2")
	}
}

func TestHTTPTable_Fetch_HTTPErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantType fetcher.ErrorType
	}{
		{"server error", http.StatusInternalServerError, fetcher.ErrorTypeServer},
		{"not found", http.StatusNotFound, fetcher.ErrorTypeClient},
		{"rate limited", http.StatusTooManyRequests, fetcher.ErrorTypeRateLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			server := httptest.NewServer(handler)
			defer server.Close()

			src := NewHTTPTable(server.URL, fetcher.NewHTTPClient(time.Second), nil)

			_, err := src.Fetch(context.Background())
			if err == nil {
				t.Fatal("Fetch() expected error, got nil")
			}
			fe, ok := err.(*fetcher.FetchError)
			if !ok {
				t.Fatalf("Fetch() error type = %T, want *fetcher.FetchError", err)
			}
			if fe.Type != tt.wantType {
				t.Errorf("error type = %q, want %q", fe.Type, tt.wantType)
			}
			if !fetcher.IsNetworkError(err) {
				t.Error("IsNetworkError() = false, want true")
			}
		})
	}
}

func TestHTTPTable_Fetch_MalformedBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"data": [`))
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	src := NewHTTPTable(server.URL, fetcher.NewHTTPClient(time.Second), nil)

	_, err := src.Fetch(context.Background())
	if !fetcher.IsParseError(err) {
		t.Errorf("Fetch() error = %v, want parse error", err)
	}
}

func TestHTTPTable_Fetch_EmptyBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	src := NewHTTPTable(server.URL, fetcher.NewHTTPClient(time.Second), nil)

	_, err := src.Fetch(context.Background())
	if !fetcher.IsParseError(err) {
		t.Errorf("Fetch() error = %v, want parse error", err)
	}
}

func TestHTTPTable_Fetch_Timeout(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	src := NewHTTPTable(server.URL, fetcher.NewHTTPClient(50*time.Millisecond), nil)

	_, err := src.Fetch(context.Background())
	if err == nil {
		t.Fatal("Fetch() expected error, got nil")
	}
	if !fetcher.IsNetworkError(err) {
		t.Errorf("Fetch() error = %v, want network-class error", err)
	}
	if !fetcher.IsRetryable(err) {
		t.Error("timeout should be retryable")
	}
}

func TestHTTPTable_Fetch_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	src := NewHTTPTable(url, fetcher.NewHTTPClient(time.Second), nil)

	_, err := src.Fetch(context.Background())
	if !fetcher.IsNetworkError(err) {
		t.Errorf("Fetch() error = %v, want network-class error", err)
	}
}

func TestHTTPTable_Fetch_ContextCancellation(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	src := NewHTTPTable(server.URL, fetcher.NewHTTPClient(time.Second), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Fetch(ctx)
	if err == nil {
		t.Error("Fetch() expected error for cancelled context, got nil")
	}
}
