package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"pigmemento/internal/cases"
	"pigmemento/internal/config"
	"pigmemento/internal/httpx"
	"pigmemento/internal/inference"
	"pigmemento/internal/waitlist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type fakeWaitlistRepo struct {
	mu   sync.Mutex
	rows map[string]waitlist.Subscriber
}

func (r *fakeWaitlistRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[strings.ToLower(email)]
	return ok, nil
}

func (r *fakeWaitlistRepo) Create(_ context.Context, s *waitlist.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(s.Email)
	if _, ok := r.rows[key]; ok {
		return waitlist.ErrDuplicateEmail
	}
	r.rows[key] = *s
	return nil
}

func testConfig() config.Config {
	return config.Config{
		AllowedOrigins: config.DefaultAllowedOrigins,
		MaxUploadBytes: 64 << 10,
		MaxJSONBytes:   1 << 10,
	}
}

func newTestRouter(t *testing.T, cfg config.Config, db pinger) http.Handler {
	t.Helper()
	catalogue, err := cases.DefaultCatalogue()
	require.NoError(t, err)

	var limiter *httpx.RateLimitMiddleware
	if cfg.WaitlistRateRPS > 0 {
		limiter = httpx.NewRateLimitMiddleware(cfg.WaitlistRateRPS, cfg.WaitlistRateBurst, cfg.TrustedProxies...)
		t.Cleanup(limiter.Close)
	}

	repo := &fakeWaitlistRepo{rows: map[string]waitlist.Subscriber{}}
	return newRouter(cfg, handlers{
		cases:     cases.NewHTTPHandler(cases.NewService(cases.NewMemoryRepo(catalogue))),
		inference: inference.NewHTTPHandler(inference.NewClassifier(inference.WithSampler(func() float64 { return 0.25 }))),
		waitlist:  waitlist.NewHTTPHandler(waitlist.NewService(repo)),
	}, db, limiter)
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func jsonRequest(method, path, body string) *http.Request {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t, testConfig(), fakePinger{})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"service":"pigmemento-api"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestRouter_Readyz(t *testing.T) {
	w := serve(newTestRouter(t, testConfig(), fakePinger{}), httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = serve(newTestRouter(t, testConfig(), fakePinger{err: errors.New("down")}), httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_READY")
}

func TestRouter_Cases(t *testing.T) {
	router := newTestRouter(t, testConfig(), fakePinger{})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/cases?limit=1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var list []cases.Case
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "case_001", list[0].ID)

	w = serve(router, httptest.NewRequest(http.MethodGet, "/cases/case_002", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var got cases.Case
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "case_002", got.ID)

	w = serve(router, httptest.NewRequest(http.MethodGet, "/cases/case_999", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(router, httptest.NewRequest(http.MethodPost, "/cases", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouter_CaseAnswer(t *testing.T) {
	router := newTestRouter(t, testConfig(), fakePinger{})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/cases/case_001", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "teachingPoints")

	w = serve(router, jsonRequest(http.MethodPost, "/cases/case_001/answer", `{"chosenLabel":"Malignant"}`))
	require.Equal(t, http.StatusOK, w.Code)
	var fb cases.Feedback
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fb))
	assert.True(t, fb.Correct)
	assert.Equal(t, cases.LabelMalignant, fb.CorrectLabel)
	assert.NotEmpty(t, fb.TeachingPoints)
	assert.Equal(t, cases.Disclaimer, fb.Disclaimer)

	w = serve(router, jsonRequest(http.MethodPost, "/cases/case_999/answer", `{"chosenLabel":"benign"}`))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(router, jsonRequest(http.MethodPost, "/cases/case_001/answer", `{"chosenLabel":"`+strings.Repeat("a", 2048)+`"}`))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRouter_Infer(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg, fakePinger{})

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 4, 4))))

	upload := func(data []byte) *http.Request {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		fw, err := mw.CreateFormFile("file", "lesion.png")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
		require.NoError(t, mw.Close())
		r := httptest.NewRequest(http.MethodPost, "/infer", &body)
		r.Header.Set("Content-Type", mw.FormDataContentType())
		return r
	}

	w := serve(router, upload(img.Bytes()))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"probs":{"benign":0.725,"malignant":0.275},"camPngUrl":"`+inference.HeatmapPlaceholderURL+`"}`, w.Body.String())

	w = serve(router, upload(bytes.Repeat([]byte{'Z'}, int(cfg.MaxUploadBytes)+1)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRouter_Waitlist(t *testing.T) {
	router := newTestRouter(t, testConfig(), fakePinger{})

	w := serve(router, jsonRequest(http.MethodPost, "/waitlist", `{"name":"  Alice ","email":"A@x.com"}`))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"ok":true,"message":"Added to waitlist!"}`, w.Body.String())

	w = serve(router, jsonRequest(http.MethodPost, "/waitlist", `{"name":"Alice","email":"a@x.com"}`))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"message":"Already on the waitlist."}`, w.Body.String())

	w = serve(router, jsonRequest(http.MethodPost, "/waitlist/check", `{"email":"A@X.COM"}`))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"exists":true}`, w.Body.String())

	w = serve(router, jsonRequest(http.MethodPost, "/waitlist", `{"name":"`+strings.Repeat("a", 2048)+`","email":"b@x.com"}`))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRouter_WaitlistRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.WaitlistRateRPS = 0.001
	cfg.WaitlistRateBurst = 2
	router := newTestRouter(t, cfg, fakePinger{})

	for i := 0; i < 2; i++ {
		w := serve(router, jsonRequest(http.MethodPost, "/waitlist/check", `{"email":"a@x.com"}`))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := serve(router, jsonRequest(http.MethodPost, "/waitlist/check", `{"email":"a@x.com"}`))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// Other routes do not share the waitlist budget.
	w = serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(t, testConfig(), fakePinger{})

	r := httptest.NewRequest(http.MethodOptions, "/waitlist", nil)
	r.Header.Set("Origin", "exp://192.168.0.10:8081")
	w := serve(router, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "exp://192.168.0.10:8081", w.Header().Get("Access-Control-Allow-Origin"))

	r = httptest.NewRequest(http.MethodGet, "/health", nil)
	r.Header.Set("Origin", "https://evil.example")
	w = serve(router, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
