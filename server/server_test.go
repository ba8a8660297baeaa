package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"hotelgram/bot"
	"hotelgram/logging"
	"hotelgram/models"
	"hotelgram/scheduler"
)

type fakePipeline struct {
	scrapeResult *bot.ScrapeResult
	scrapeErr    error
	generated    int
	publishErr   error
	published    []uuid.UUID
}

func (f *fakePipeline) ManualScrape(context.Context, string) (*bot.ScrapeResult, error) {
	return f.scrapeResult, f.scrapeErr
}

func (f *fakePipeline) GenerateContent(_ context.Context, limit int) int {
	if f.generated > limit {
		return limit
	}
	return f.generated
}

func (f *fakePipeline) PublishPost(_ context.Context, id uuid.UUID) error {
	f.published = append(f.published, id)
	return f.publishErr
}

type fakeSchedule struct {
	running bool
}

func (f *fakeSchedule) Start(int) error {
	if f.running {
		return scheduler.ErrAlreadyRunning
	}
	f.running = true
	return nil
}

func (f *fakeSchedule) Stop() error {
	if !f.running {
		return scheduler.ErrNotRunning
	}
	f.running = false
	return nil
}

func (f *fakeSchedule) IsRunning() bool { return f.running }

type fakeReader struct {
	posts  []models.PostView
	hotels []models.Hotel
}

func (f *fakeReader) ListPosts(context.Context) ([]models.PostView, error) { return f.posts, nil }
func (f *fakeReader) ListHotels(context.Context) ([]models.Hotel, error)   { return f.hotels, nil }

func newTestServer(p *fakePipeline, sch *fakeSchedule, rd *fakeReader) *Server {
	if p == nil {
		p = &fakePipeline{}
	}
	if sch == nil {
		sch = &fakeSchedule{}
	}
	if rd == nil {
		rd = &fakeReader{}
	}
	return New(p, sch, rd, logging.NewBuffer(50))
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody *strings.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	} else {
		reqBody = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reqBody)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return m
}

func TestBotStatus(t *testing.T) {
	s := newTestServer(nil, &fakeSchedule{running: true}, nil)
	rec := doRequest(t, s, "GET", "/bot/status", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if got := decodeMap(t, rec); got["is_running"] != true {
		t.Fatalf("unexpected body %v", got)
	}
}

func TestBotStartIdempotentReject(t *testing.T) {
	sch := &fakeSchedule{}
	s := newTestServer(nil, sch, nil)

	rec := doRequest(t, s, "POST", "/bot/start?minutes=5", "")
	if got := decodeMap(t, rec); got["status"] != "success" {
		t.Fatalf("first start: %v", got)
	}

	rec = doRequest(t, s, "POST", "/bot/start?minutes=5", "")
	if got := decodeMap(t, rec); got["status"] != "already_running" {
		t.Fatalf("second start: %v", got)
	}
}

func TestBotStopWhenNotRunning(t *testing.T) {
	s := newTestServer(nil, &fakeSchedule{}, nil)
	rec := doRequest(t, s, "POST", "/bot/stop", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decodeMap(t, rec); got["status"] != "error" {
		t.Fatalf("unexpected body %v", got)
	}
}

func TestScrapeSuccess(t *testing.T) {
	p := &fakePipeline{scrapeResult: &bot.ScrapeResult{Found: 5, Saved: 3}}
	s := newTestServer(p, nil, nil)

	rec := doRequest(t, s, "POST", "/scrape", `{"location":"Bali"}`)
	got := decodeMap(t, rec)
	if got["status"] != "success" || got["new_hotels_saved"] != float64(3) {
		t.Fatalf("unexpected body %v", got)
	}
}

func TestScrapeFailure(t *testing.T) {
	p := &fakePipeline{scrapeErr: bot.ErrNoData}
	s := newTestServer(p, nil, nil)

	rec := doRequest(t, s, "POST", "/scrape", `{"location":"Bali"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for expected failure, got %d", rec.Code)
	}
	if got := decodeMap(t, rec); got["status"] != "failed" {
		t.Fatalf("unexpected body %v", got)
	}
}

func TestScrapeMissingLocation(t *testing.T) {
	s := newTestServer(nil, nil, nil)
	rec := doRequest(t, s, "POST", "/scrape", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGenerateContent(t *testing.T) {
	p := &fakePipeline{generated: 2}
	s := newTestServer(p, nil, nil)

	rec := doRequest(t, s, "POST", "/generate-content?limit=5", "")
	if got := decodeMap(t, rec); got["generated_count"] != float64(2) {
		t.Fatalf("unexpected body %v", got)
	}
}

func TestPublishUnknownPost(t *testing.T) {
	p := &fakePipeline{publishErr: bot.ErrPostNotFound}
	s := newTestServer(p, nil, nil)

	rec := doRequest(t, s, "POST", "/posts/"+uuid.NewString()+"/publish", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPublishInvalidID(t *testing.T) {
	s := newTestServer(nil, nil, nil)
	rec := doRequest(t, s, "POST", "/posts/not-a-uuid/publish", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for malformed id, got %d", rec.Code)
	}
}

func TestPublishDeliveryFailureIs200(t *testing.T) {
	p := &fakePipeline{publishErr: context.DeadlineExceeded}
	s := newTestServer(p, nil, nil)

	rec := doRequest(t, s, "POST", "/posts/"+uuid.NewString()+"/publish", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decodeMap(t, rec); got["status"] != "failed" {
		t.Fatalf("unexpected body %v", got)
	}
}

func TestLogsEndpoint(t *testing.T) {
	logs := logging.NewBuffer(10)
	s := New(&fakePipeline{}, &fakeSchedule{}, &fakeReader{}, logs)
	logs.Add("first")
	logs.Add("second")

	rec := doRequest(t, s, "GET", "/logs", "")
	var lines []string
	if err := json.Unmarshal(rec.Body.Bytes(), &lines); err != nil {
		t.Fatalf("decode logs: %v", err)
	}
	if len(lines) != 2 || !strings.HasSuffix(lines[0], "second") {
		t.Fatalf("logs not newest-first: %v", lines)
	}
}

func TestPostsEndpoint(t *testing.T) {
	rd := &fakeReader{posts: []models.PostView{{HotelName: "Sunset Bay", Status: "ready"}}}
	s := newTestServer(nil, nil, rd)

	rec := doRequest(t, s, "GET", "/posts", "")
	var posts []models.PostView
	if err := json.Unmarshal(rec.Body.Bytes(), &posts); err != nil {
		t.Fatalf("decode posts: %v", err)
	}
	if len(posts) != 1 || posts[0].HotelName != "Sunset Bay" {
		t.Fatalf("unexpected posts %v", posts)
	}
}
