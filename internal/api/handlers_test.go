package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/eisbaw/rule72/internal/config"
	"github.com/eisbaw/rule72/internal/pipeline"
)

func testServer(t *testing.T, apiKey string) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		APIKey:        apiKey,
		BodyWidth:     72,
		HeadlineWidth: 50,
		WorkerCount:   2,
		MaxQueueSize:  8,
		MaxBodyBytes:  1 << 20,
		JobTTL:        time.Hour,
	}
	orch := pipeline.NewOrchestrator(cfg, log)
	ctx, cancel := context.WithCancel(context.Background())
	orch.Start(ctx)
	t.Cleanup(func() {
		cancel()
		orch.Stop()
	})
	return NewServer(orch, log, cfg)
}

func TestHealth(t *testing.T) {
	srv := testServer(t, "")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestReflow_PlainText(t *testing.T) {
	srv := testServer(t, "")
	body := strings.NewReader("Subject line\n\nThis is a very long paragraph that should wrap nicely at twenty cols.")
	req := httptest.NewRequest(http.MethodPost, "/api/reflow?width=20", body)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	want := "Subject line\n\nThis is a very long\nparagraph that\nshould wrap nicely\nat twenty cols.\n"
	if rec.Body.String() != want {
		t.Errorf("got %q, want %q", rec.Body.String(), want)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("unexpected content type %q", ct)
	}
}

func TestReflow_JSON(t *testing.T) {
	srv := testServer(t, "")
	payload := `{"message":"Subject\n\nBody text","width":72}`
	req := httptest.NewRequest(http.MethodPost, "/api/reflow", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if resp["result"] != "Subject\n\nBody text\n" {
		t.Errorf("unexpected result: %q", resp["result"])
	}
}

func TestReflow_BadJSON(t *testing.T) {
	srv := testServer(t, "")
	req := httptest.NewRequest(http.MethodPost, "/api/reflow", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestBatch_SubmitAndPoll(t *testing.T) {
	srv := testServer(t, "")
	payload := `{"messages":["Subject one\n\nBody","Subject two"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/reflow/batch", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var submit struct {
		JobID   string `json:"job_id"`
		PollURL string `json:"poll_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &submit); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if submit.JobID == "" || submit.PollURL == "" {
		t.Fatalf("incomplete submit response: %+v", submit)
	}

	deadline := time.After(2 * time.Second)
	for {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, submit.PollURL, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("poll failed with %d: %s", rec.Code, rec.Body.String())
		}
		var snap pipeline.Snapshot
		if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
			t.Fatalf("invalid snapshot json: %v", err)
		}
		if snap.Status == pipeline.StatusCompleted {
			if len(snap.Results) != 2 {
				t.Fatalf("expected 2 results, got %d", len(snap.Results))
			}
			if snap.Results[1] != "Subject two\n" {
				t.Errorf("unexpected result: %q", snap.Results[1])
			}
			return
		}
		select {
		case <-deadline:
			t.Fatalf("job never completed, status %s", snap.Status)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestBatch_EmptyMessages(t *testing.T) {
	srv := testServer(t, "")
	req := httptest.NewRequest(http.MethodPost, "/api/reflow/batch", strings.NewReader(`{"messages":[]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestJobStatus_NotFound(t *testing.T) {
	srv := testServer(t, "")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reflow/jobs/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestAuth(t *testing.T) {
	srv := testServer(t, "secret-key")

	// Health stays open.
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health must not require auth, got %d", rec.Code)
	}

	// No token.
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reflow", strings.NewReader("x")))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}

	// Wrong token.
	req := httptest.NewRequest(http.MethodPost, "/api/reflow", strings.NewReader("x"))
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with bad token, got %d", rec.Code)
	}

	// Correct token.
	req = httptest.NewRequest(http.MethodPost, "/api/reflow", strings.NewReader("Subject"))
	req.Header.Set("Authorization", "Bearer secret-key")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 with valid token, got %d: %s", rec.Code, rec.Body.String())
	}
}
