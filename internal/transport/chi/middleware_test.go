package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	logpkg "github.com/kailas-cloud/fuzzdex/internal/logger"
)

func TestJSONRecoverer(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)

	r := chi.NewRouter()
	r.Use(JSONRecoverer(zap.New(core)))
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != ErrorCodeInternalError {
		t.Errorf("code = %s", resp.Code)
	}
	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Error("expected panic to be logged")
	}
}

func TestWideEventMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(zap.New(core)))
	r.Get("/teapot", func(w http.ResponseWriter, r *http.Request) {
		logpkg.FromContext(r.Context()).Debug("inside")
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/teapot", http.NoBody))

	requestID := rr.Header().Get("X-Request-ID")
	if requestID == "" {
		t.Fatal("expected X-Request-ID header")
	}

	inside := logs.FilterMessage("inside").All()
	if len(inside) != 1 || inside[0].ContextMap()["request_id"] != requestID {
		t.Errorf("handler logger missing request_id: %+v", inside)
	}

	lines := logs.FilterMessage("http_request").All()
	if len(lines) != 1 {
		t.Fatalf("expected one canonical line, got %d", len(lines))
	}
	fields := lines[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("status field = %v", fields["status"])
	}
	if fields["path"] != "/teapot" {
		t.Errorf("path field = %v", fields["path"])
	}
}
