package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fuzzdex/internal/domain"
	domcol "github.com/kailas-cloud/fuzzdex/internal/domain/collection"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/request"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/fuzzdex/internal/usecase/health"
)

// --- Mocks ---

type mockSearcher struct {
	seq result.Sequence
	err error

	called bool
	got    request.Request
}

func (m *mockSearcher) Search(_ context.Context, req request.Request) (result.Sequence, error) {
	m.called = true
	m.got = req
	return m.seq, m.err
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

func newTestRouter(s *Server) http.Handler {
	r := chi.NewRouter()
	s.Routes(r)
	return r
}

func doSearch(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

// --- Tests ---

func TestSearchCollection_ZSet(t *testing.T) {
	searcher := &mockSearcher{seq: result.Sequence{
		Kind: domcol.SortedSet,
		Matches: []result.Match{
			result.New("example", "114", 1),
			result.New("samples", "9", 0.5),
		},
	}}
	h := newTestRouter(NewServer(searcher, &mockHealth{}, zap.NewNop()))

	rr := doSearch(t, h, "/collections/words/search", `{"needle":"example"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	want := `[{"haystack":"example","score":"114","match":1},{"haystack":"samples","score":"9","match":0.5}]`
	if got := strings.TrimSpace(rr.Body.String()); got != want {
		t.Errorf("body:\ngot:  %s\nwant: %s", got, want)
	}
	if searcher.got.Key() != "words" || searcher.got.Needle() != "example" {
		t.Errorf("request key=%q needle=%q", searcher.got.Key(), searcher.got.Needle())
	}
	if searcher.got.Limit() != request.DefaultLimit {
		t.Errorf("limit = %d, want default %d", searcher.got.Limit(), request.DefaultLimit)
	}
}

func TestSearchCollection_EmptyResultIsArray(t *testing.T) {
	h := newTestRouter(NewServer(&mockSearcher{seq: result.Sequence{Kind: domcol.None}}, &mockHealth{}, zap.NewNop()))

	rr := doSearch(t, h, "/collections/missing/search", `{"needle":"x"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Errorf("body = %s, want []", got)
	}
}

func TestSearchCollection_EscapedKeyAndOptions(t *testing.T) {
	searcher := &mockSearcher{seq: result.Sequence{Kind: domcol.Set}}
	s := NewServer(searcher, &mockHealth{}, zap.NewNop(), WithDefaultLimit(3))
	h := newTestRouter(s)

	rr := doSearch(t, h, "/collections/app%3Acities/search", `{"needle":"東京","max_results":5,"min_score":0.2}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if searcher.got.Key() != "app:cities" {
		t.Errorf("key = %q, want app:cities", searcher.got.Key())
	}
	if searcher.got.Limit() != 5 || searcher.got.MinScore() != 0.2 {
		t.Errorf("limit=%d minScore=%v", searcher.got.Limit(), searcher.got.MinScore())
	}

	doSearch(t, h, "/collections/k/search", `{"needle":"x"}`)
	if searcher.got.Limit() != 3 {
		t.Errorf("configured default limit not applied: %d", searcher.got.Limit())
	}
}

func TestSearchCollection_Precision(t *testing.T) {
	searcher := &mockSearcher{seq: result.Sequence{
		Kind:    domcol.Set,
		Matches: []result.Match{result.New("京都府", "", 1.0/3.0)},
	}}
	h := newTestRouter(NewServer(searcher, &mockHealth{}, zap.NewNop(), WithPrecision(result.LegacyPrecision)))

	rr := doSearch(t, h, "/collections/k/search", `{"needle":"東京都"}`)
	want := `[{"haystack":"京都府","match":0.33333333333333}]`
	if got := strings.TrimSpace(rr.Body.String()); got != want {
		t.Errorf("body:\ngot:  %s\nwant: %s", got, want)
	}
}

func TestSearchCollection_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		code ErrorCode
	}{
		{"malformed json", `{"needle":`, ErrorCodeBadRequest},
		{"missing needle", `{"max_results":3}`, ErrorCodeInvalidArgument},
		{"zero max results", `{"needle":"x","max_results":0}`, ErrorCodeInvalidArgument},
		{"negative max results", `{"needle":"x","max_results":-1}`, ErrorCodeInvalidArgument},
		{"min score above one", `{"needle":"x","min_score":1.5}`, ErrorCodeInvalidArgument},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			searcher := &mockSearcher{}
			h := newTestRouter(NewServer(searcher, &mockHealth{}, zap.NewNop()))

			rr := doSearch(t, h, "/collections/k/search", tc.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
			if resp := decodeError(t, rr); resp.Code != tc.code {
				t.Errorf("code = %s, want %s", resp.Code, tc.code)
			}
			if searcher.called {
				t.Error("searcher must not be called for an invalid request")
			}
		})
	}
}

func TestSearchCollection_DomainErrors(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.7:6379: i/o timeout")
	tests := []struct {
		name   string
		err    error
		status int
		code   ErrorCode
	}{
		{"unsupported kind", fmt.Errorf("key %q: %w", "k", domain.ErrUnsupportedCollectionKind),
			http.StatusUnprocessableEntity, ErrorCodeUnsupportedCollectionKind},
		{"host unavailable", fmt.Errorf("%w: %w", domain.ErrHostUnavailable, cause),
			http.StatusServiceUnavailable, ErrorCodeHostUnavailable},
		{"invalid encoding", fmt.Errorf("candidate 3: %w", domain.ErrInvalidEncoding),
			http.StatusBadRequest, ErrorCodeInvalidEncoding},
		{"malformed reply", domain.ErrMalformedReply,
			http.StatusInternalServerError, ErrorCodeInternalError},
		{"server error reply", fmt.Errorf("load %q: %w", "k", errors.New("EVALSHA: BUSY Redis is busy running a script")),
			http.StatusInternalServerError, ErrorCodeInternalError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestRouter(NewServer(&mockSearcher{err: tc.err}, &mockHealth{}, zap.NewNop()))

			rr := doSearch(t, h, "/collections/k/search", `{"needle":"x"}`)
			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d", rr.Code, tc.status)
			}
			resp := decodeError(t, rr)
			if resp.Code != tc.code {
				t.Errorf("code = %s, want %s", resp.Code, tc.code)
			}
			if strings.Contains(resp.Message, "10.0.0.7") {
				t.Errorf("message leaks driver details: %q", resp.Message)
			}
		})
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name   string
		report healthuc.Report
		status int
	}{
		{"healthy", healthuc.Report{
			Status: healthuc.Healthy,
			Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
		}, http.StatusOK},
		{"unhealthy", healthuc.Report{
			Status: healthuc.Unhealthy,
			Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckError},
		}, http.StatusServiceUnavailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestRouter(NewServer(&mockSearcher{}, &mockHealth{report: tc.report}, zap.NewNop()))

			req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d", rr.Code, tc.status)
			}
			var resp HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if resp.Status != string(tc.report.Status) {
				t.Errorf("status = %q", resp.Status)
			}
			if resp.Checks["database"] != string(tc.report.Checks["database"]) {
				t.Errorf("checks = %v", resp.Checks)
			}
		})
	}
}

func TestMetricsRoute(t *testing.T) {
	h := newTestRouter(NewServer(&mockSearcher{}, &mockHealth{}, zap.NewNop()))

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}
