package cli

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/happyhackingspace/spamlens"
	"github.com/happyhackingspace/spamlens/classifier"
	"github.com/happyhackingspace/spamlens/internal/vectorizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func init() {
	color.NoColor = true
}

func writeModel(t *testing.T) string {
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
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, spamlens.FromModel(m).Save(path))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	c := New("test")
	var out bytes.Buffer
	c.rootCmd.SetOut(&out)
	c.rootCmd.SetErr(io.Discard)
	c.rootCmd.SetIn(strings.NewReader(stdin))
	c.rootCmd.SetArgs(append(args, "-s"))
	err := c.rootCmd.Execute()
	return out.String(), err
}

func TestRunJSON(t *testing.T) {
	model := writeModel(t)
	out, err := execute(t, "", "run", "--model", model, "-o", "json", "Win free money now")
	require.NoError(t, err)

	var res spamlens.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, classifier.Spam, res.Prediction)
	require.Len(t, res.Explanation, 3)
	assert.Equal(t, "win", res.Explanation[0].Word)
}

func TestRunSeveralMessages(t *testing.T) {
	model := writeModel(t)
	out, err := execute(t, "", "run", "--model", model, "-o", "json", "-k", "1", "free money", "coming later")
	require.NoError(t, err)

	var res []spamlens.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res, 2)
	assert.Equal(t, classifier.Spam, res[0].Prediction)
	assert.Equal(t, classifier.NotSpam, res[1].Prediction)
	assert.Len(t, res[0].Explanation, 1)
	assert.Equal(t, "coming later", res[1].Message)
}

func TestRunYAML(t *testing.T) {
	model := writeModel(t)
	out, err := execute(t, "", "run", "--model", model, "-o", "yaml", "free money")
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	assert.Equal(t, "spam", res["prediction"])
	assert.Equal(t, "free money", res["message"])
}

func TestRunText(t *testing.T) {
	model := writeModel(t)
	out, err := execute(t, "", "run", "--model", model, "Win free money", "coming later")
	require.NoError(t, err)

	assert.Contains(t, out, `"Win free money"`)
	assert.Contains(t, out, "Prediction: SPAM")
	assert.Contains(t, out, "Prediction: NOT SPAM")
	assert.Contains(t, out, `• "win" increased spam likelihood by`)
	assert.Contains(t, out, `• "coming" decreased spam likelihood by`)
}

func TestRunStdin(t *testing.T) {
	if isStdinTerminal() {
		t.Skip("stdin is a terminal")
	}
	model := writeModel(t)
	out, err := execute(t, "free money\n\n  \ncoming later\n", "run", "--model", model, "-o", "json")
	require.NoError(t, err)

	var res []spamlens.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res, 2)
}

func TestRunFile(t *testing.T) {
	model := writeModel(t)
	dir := t.TempDir()

	htmlPath := filepath.Join(dir, "mail.html")
	require.NoError(t, os.WriteFile(htmlPath, []byte(`<!DOCTYPE html><html><head><title>x</title><style>p{}</style></head>
<body><p>Win free money</p><script>var later = 1;</script></body></html>`), 0644))
	out, err := execute(t, "", "run", "--model", model, "-o", "json", "--file", htmlPath)
	require.NoError(t, err)
	var res spamlens.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "Win free money", res.Message)

	textPath := filepath.Join(dir, "messages.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("free money\ncoming later\n"), 0644))
	out, err = execute(t, "", "run", "--model", model, "-o", "json", "--file", textPath)
	require.NoError(t, err)
	var results []spamlens.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.Len(t, results, 2)
}

func TestRunErrors(t *testing.T) {
	model := writeModel(t)
	dir := t.TempDir()
	binPath := filepath.Join(dir, "blob.png")
	require.NoError(t, os.WriteFile(binPath, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR"), 0644))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad format", []string{"run", "--model", model, "-o", "xml", "hi"}, "unknown output format"},
		{"negative top-k", []string{"run", "--model", model, "-k", "-1", "hi"}, "--top-k"},
		{"missing model", []string{"run", "--model", filepath.Join(dir, "none.json"), "hi"}, "model artifact missing"},
		{"missing file", []string{"run", "--model", model, "--file", filepath.Join(dir, "none.txt")}, "read file"},
		{"binary file", []string{"run", "--model", model, "--file", binPath}, "unsupported input type"},
		{"test size too large", []string{"train", filepath.Join(dir, "m.json"), "--data-folder", dir, "--test-size", "1.5"}, "--test-size"},
		{"negative test size", []string{"train", filepath.Join(dir, "m.json"), "--data-folder", dir, "--test-size", "-0.1"}, "--test-size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"text", "JSON", "yaml"} {
		_, err := parseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := parseFormat("csv")
	assert.Error(t, err)
}

func TestPrintEvaluation(t *testing.T) {
	m := spamlens.Metrics{TruePositive: 9, FalsePositive: 1, TrueNegative: 88, FalseNegative: 2}
	var buf bytes.Buffer
	printEvaluation(&buf, &spamlens.EvalResult{
		Folds:   2,
		Samples: 100,
		Spam:    11,
		Metrics: m,
		PerFold: []spamlens.Metrics{m, m},
	})
	out := buf.String()
	assert.Contains(t, out, "2-fold cross-validation on 100 messages (11 spam)")
	assert.Contains(t, out, "97.00%")
	assert.Contains(t, out, "not_spam")
}

func TestDataDownload(t *testing.T) {
	var archive bytes.Buffer
	zw := zip.NewWriter(&archive)
	f, err := zw.Create("SMSSpamCollection")
	require.NoError(t, err)
	_, err = f.Write([]byte("ham\tsee you later\nspam\tWIN a free prize\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(archive.Bytes())
	}))
	defer ts.Close()

	dir := t.TempDir()
	out, err := execute(t, "", "data", "download", "--data-folder", dir, "--url", ts.URL)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "SMSSpamCollection"), strings.TrimSpace(out))
}
