package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/fuzzdex/internal/domain"
	domcol "github.com/kailas-cloud/fuzzdex/internal/domain/collection"
	"github.com/kailas-cloud/fuzzdex/internal/domain/match/bigram"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/request"
)

// --- Mocks ---

type mockLoader struct {
	kind   domcol.Kind
	values []string
	err    error

	gotKey      string
	hadDeadline bool
}

func (m *mockLoader) Load(ctx context.Context, key string) (domcol.Source, error) {
	m.gotKey = key
	_, m.hadDeadline = ctx.Deadline()
	if m.err != nil {
		return nil, m.err
	}
	return domcol.NewSource(m.kind, m.values)
}

type observation struct {
	kind, status string
	scanned      int
}

type mockRecorder struct {
	seen []observation
}

func (m *mockRecorder) ObserveSearch(kind, status string, _ time.Duration, scanned int) {
	m.seen = append(m.seen, observation{kind: kind, status: status, scanned: scanned})
}

func mustRequest(t *testing.T, key, needle string, limit int, minScore float64) request.Request {
	t.Helper()
	req, err := request.New(key, needle, limit, minScore)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return req
}

// --- Tests ---

func TestSearch_ReturnsRankedMatches(t *testing.T) {
	loader := &mockLoader{kind: domcol.List, values: []string{"samples", "example", "xyz", "ample"}}
	svc := New(loader)

	seq, err := svc.Search(context.Background(), mustRequest(t, "words", "example", 10, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loader.gotKey != "words" {
		t.Errorf("loaded key = %q", loader.gotKey)
	}
	if seq.Kind != domcol.List {
		t.Errorf("kind = %s", seq.Kind)
	}
	if len(seq.Matches) != 3 {
		t.Fatalf("len = %d, want 3", len(seq.Matches))
	}
	if seq.Matches[0].Haystack() != "example" || seq.Matches[0].Score() != 1 {
		t.Errorf("first = %q %v", seq.Matches[0].Haystack(), seq.Matches[0].Score())
	}
}

func TestSearch_HostUnavailable(t *testing.T) {
	cause := errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")
	rec := &mockRecorder{}
	svc := New(&mockLoader{err: fmt.Errorf("%w: %w", domain.ErrHostUnavailable, cause)}, WithRecorder(rec))

	_, err := svc.Search(context.Background(), mustRequest(t, "k", "x", 10, 0))
	if !errors.Is(err, domain.ErrHostUnavailable) {
		t.Fatalf("expected ErrHostUnavailable, got %v", err)
	}
	if len(rec.seen) != 1 || rec.seen[0].status != StatusHostUnavailable || rec.seen[0].kind != kindUnknown {
		t.Errorf("observations = %+v", rec.seen)
	}
}

func TestSearch_ServerErrorReply(t *testing.T) {
	rec := &mockRecorder{}
	svc := New(&mockLoader{err: errors.New("EVALSHA: OOM command not allowed")}, WithRecorder(rec))

	_, err := svc.Search(context.Background(), mustRequest(t, "k", "x", 10, 0))
	if err == nil || errors.Is(err, domain.ErrHostUnavailable) {
		t.Fatalf("expected a plain error, got %v", err)
	}
	if len(rec.seen) != 1 || rec.seen[0].status != StatusError {
		t.Errorf("observations = %+v", rec.seen)
	}
}

func TestSearch_UnsupportedKind(t *testing.T) {
	svc := New(&mockLoader{err: fmt.Errorf("key %q: %w", "k", domain.ErrUnsupportedCollectionKind)})
	_, err := svc.Search(context.Background(), mustRequest(t, "k", "x", 10, 0))
	if !errors.Is(err, domain.ErrUnsupportedCollectionKind) {
		t.Fatalf("expected ErrUnsupportedCollectionKind, got %v", err)
	}
}

func TestSearch_InvalidEncoding(t *testing.T) {
	rec := &mockRecorder{}
	svc := New(&mockLoader{kind: domcol.Set, values: []string{"ok", "bad\xff"}}, WithRecorder(rec))

	seq, err := svc.Search(context.Background(), mustRequest(t, "k", "ok", 10, 0))
	if !errors.Is(err, domain.ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding, got %v", err)
	}
	if len(seq.Matches) != 0 {
		t.Errorf("expected no partial result, got %d matches", len(seq.Matches))
	}
	if rec.seen[0].status != StatusInvalidEncoding {
		t.Errorf("status = %q", rec.seen[0].status)
	}
}

func TestSearch_MaxLimit(t *testing.T) {
	loader := &mockLoader{kind: domcol.Set}
	svc := New(loader, WithMaxLimit(5))

	_, err := svc.Search(context.Background(), mustRequest(t, "k", "x", 6, 0))
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if loader.gotKey != "" {
		t.Error("store must not be touched for an invalid request")
	}
}

func TestSearch_NoCapsByDefault(t *testing.T) {
	values := make([]string, 0, 6000)
	for i := range 6000 {
		values = append(values, fmt.Sprintf("item%05d", i))
	}
	loader := &mockLoader{kind: domcol.List, values: values}
	svc := New(loader)

	seq, err := svc.Search(context.Background(), mustRequest(t, "k", "item0", 5000, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seq.Matches) != 5000 {
		t.Errorf("len = %d, want 5000", len(seq.Matches))
	}

	long := strings.Repeat("item", 2000)
	if _, err := svc.Search(context.Background(), mustRequest(t, "k", long, 10, 0)); err != nil {
		t.Errorf("long needle: unexpected error: %v", err)
	}
}

func TestSearch_MaxNeedleBytes(t *testing.T) {
	loader := &mockLoader{kind: domcol.Set}
	svc := New(loader, WithMaxNeedleBytes(8))

	_, err := svc.Search(context.Background(), mustRequest(t, "k", "ninebytes", 10, 0))
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if loader.gotKey != "" {
		t.Error("store must not be touched for an oversized needle")
	}

	if _, err := svc.Search(context.Background(), mustRequest(t, "k", "eightbyt", 10, 0)); err != nil {
		t.Errorf("needle at the cap: unexpected error: %v", err)
	}
}

func TestSearch_ServiceMinScoreFloor(t *testing.T) {
	loader := &mockLoader{kind: domcol.Set, values: []string{"example", "samples"}}
	svc := New(loader, WithMinScore(0.6))

	seq, err := svc.Search(context.Background(), mustRequest(t, "k", "example", 10, 0.1))
	if err != nil {
		t.Fatal(err)
	}
	if len(seq.Matches) != 1 || seq.Matches[0].Haystack() != "example" {
		t.Errorf("matches = %v", seq.Matches)
	}
}

func TestSearch_Normalization(t *testing.T) {
	loader := &mockLoader{kind: domcol.Set, values: []string{"cafe\u0301"}}
	svc := New(loader, WithNormalization(bigram.NFC))

	seq, err := svc.Search(context.Background(), mustRequest(t, "k", "café", 10, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(seq.Matches) != 1 || seq.Matches[0].Score() != 1 {
		t.Errorf("matches = %v", seq.Matches)
	}
}

func TestSearch_Timeout(t *testing.T) {
	loader := &mockLoader{kind: domcol.Set}
	if _, err := New(loader).Search(context.Background(), mustRequest(t, "k", "x", 1, 0)); err != nil {
		t.Fatal(err)
	}
	if loader.hadDeadline {
		t.Error("no deadline expected without WithTimeout")
	}

	if _, err := New(loader, WithTimeout(time.Second)).Search(context.Background(), mustRequest(t, "k", "x", 1, 0)); err != nil {
		t.Fatal(err)
	}
	if !loader.hadDeadline {
		t.Error("expected load context to carry a deadline")
	}
}

func TestSearch_RecordsScanned(t *testing.T) {
	rec := &mockRecorder{}
	svc := New(&mockLoader{kind: domcol.SortedSet, values: []string{"a", "1", "b", "2", "c", "3"}}, WithRecorder(rec))

	if _, err := svc.Search(context.Background(), mustRequest(t, "k", "a", 10, 0)); err != nil {
		t.Fatal(err)
	}
	want := observation{kind: "zset", status: StatusOK, scanned: 3}
	if len(rec.seen) != 1 || rec.seen[0] != want {
		t.Errorf("observations = %+v, want %+v", rec.seen, want)
	}
}
