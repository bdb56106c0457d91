package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/happyhackingspace/spamlens"
	"github.com/happyhackingspace/spamlens/classifier"
	"github.com/happyhackingspace/spamlens/internal/vectorizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClassifier(t *testing.T) *spamlens.Classifier {
	t.Helper()
	tv := &vectorizer.TfidfVectorizer{
		CountVec: vectorizer.NewCountVectorizer([2]int{1, 1}, false, 1, vectorizer.EnglishStopWords()),
		IDF:      []float64{1.5, 1.2, 1.5, 1.3, 1.4},
	}
	tv.CountVec.Vocabulary = map[string]int{"coming": 0, "free": 1, "later": 2, "money": 3, "win": 4}
	m, err := classifier.NewModel(tv, classifier.Weights{
		Coef:      []float64{-1.5, 3.0, -1.0, 2.0, 2.8},
		Intercept: -0.5,
	})
	require.NoError(t, err)
	return spamlens.FromModel(m)
}

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := New(Config{TopK: 5, MaxBodyBytes: 1024}, testClassifier(t))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/predict", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestPredict(t *testing.T) {
	ts := testServer(t)
	resp := post(t, ts, `{"message":"Win free money now"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var res spamlens.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, "Win free money now", res.Message)
	assert.Equal(t, classifier.Spam, res.Prediction)
	assert.Greater(t, res.Confidence, 50.0)
	require.Len(t, res.Explanation, 3)
	assert.Equal(t, "win", res.Explanation[0].Word)
	for _, item := range res.Explanation {
		assert.Equal(t, classifier.Spam, item.Direction)
	}
}

func TestPredictTopK(t *testing.T) {
	ts := testServer(t)
	resp := post(t, ts, `{"message":"Win free money now","top_k":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res spamlens.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	require.Len(t, res.Explanation, 1)
	assert.Equal(t, "win", res.Explanation[0].Word)
}

func TestPredictEmptyExplanationIsArray(t *testing.T) {
	ts := testServer(t)
	resp := post(t, ts, `{"message":"","top_k":0}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.JSONEq(t, `[]`, string(raw["explanation"]))
	assert.JSONEq(t, `"not_spam"`, string(raw["prediction"]))
}

func TestPredictRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"malformed json", `{"message":`, http.StatusUnprocessableEntity},
		{"missing message", `{"top_k":3}`, http.StatusUnprocessableEntity},
		{"negative top_k", `{"message":"hi","top_k":-1}`, http.StatusUnprocessableEntity},
		{"top_k too large", `{"message":"hi","top_k":51}`, http.StatusUnprocessableEntity},
		{"wrong type", `{"message":42}`, http.StatusUnprocessableEntity},
		{"too large", `{"message":"` + strings.Repeat("a", 2048) + `"}`, http.StatusRequestEntityTooLarge},
	}
	ts := testServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, tt.body)
			assert.Equal(t, tt.code, resp.StatusCode)

			var e errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
			assert.NotEmpty(t, e.Error)
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := testServer(t)
	resp, err := http.Get(ts.URL + "/predict")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	ts := testServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var h healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&h))
	assert.Equal(t, healthResponse{Status: "ok", Vocabulary: 5}, h)
}

func TestRequestID(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	_, err = uuid.Parse(resp.Header.Get("X-Request-Id"))
	assert.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "abc-123")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-Id"))
}

func TestServeShutsDown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New(Config{TopK: 5, ShutdownTimeout: time.Second}, testClassifier(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("SPAMLENS_ADDR", ":9999")
	t.Setenv("SPAMLENS_TOP_K", "7")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 7, cfg.TopK)
	assert.Equal(t, int64(65536), cfg.MaxBodyBytes)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestLoadConfigNegativeTopK(t *testing.T) {
	t.Setenv("SPAMLENS_TOP_K", "-2")
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfigMissingEnvFile(t *testing.T) {
	_, err := LoadConfig(t.TempDir() + "/missing.env")
	assert.Error(t, err)
}
