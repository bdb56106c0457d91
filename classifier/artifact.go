package classifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// LoadModel reads a model artifact. Files ending in .msgpack or .mpk are
// decoded as MessagePack, everything else as JSON.
//
// A missing file yields ErrArtifactMissing; undecodable or inconsistent
// content yields ErrArtifactMalformed.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, path)
		}
		return nil, fmt.Errorf("read model: %w", err)
	}

	var m Model
	if isMsgpack(path) {
		err = msgpack.Unmarshal(data, &m)
	} else {
		dec := json.NewDecoder(bytes.NewReader(data))
		err = dec.Decode(&m)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrArtifactMalformed, path, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.InitRuntime()
	return &m, nil
}

// Save writes the model artifact, choosing the codec by file extension.
func (m *Model) Save(path string) error {
	var (
		data []byte
		err  error
	)
	if isMsgpack(path) {
		data, err = msgpack.Marshal(m)
	} else {
		data, err = json.Marshal(m)
	}
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create model dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return nil
}

func isMsgpack(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mpk":
		return true
	}
	return false
}

// validate checks that vocabulary, IDF table and coefficients agree.
func (m *Model) validate() error {
	malformed := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrArtifactMalformed, fmt.Sprintf(format, args...))
	}

	if m.FormatVersion != FormatVersion {
		return malformed("unsupported format version %d", m.FormatVersion)
	}
	if m.Tfidf == nil || m.Tfidf.CountVec == nil {
		return malformed("missing vectorizer")
	}
	// [0,0] is the zero value and analyzes as unigrams
	if r := m.Tfidf.CountVec.NgramRange; r != ([2]int{}) && (r[0] < 1 || r[1] < r[0]) {
		return malformed("invalid ngram range %v", r)
	}
	n := len(m.Tfidf.CountVec.Vocabulary)
	if len(m.Tfidf.IDF) != n {
		return malformed("vocabulary has %d terms but idf has %d entries", n, len(m.Tfidf.IDF))
	}
	if len(m.Coef) != n {
		return malformed("vocabulary has %d terms but coef has %d entries", n, len(m.Coef))
	}

	seen := make([]bool, n)
	for term, idx := range m.Tfidf.CountVec.Vocabulary {
		if idx < 0 || idx >= n {
			return malformed("term %q has out-of-range index %d", term, idx)
		}
		if seen[idx] {
			return malformed("index %d assigned to more than one term", idx)
		}
		seen[idx] = true
	}
	for i, v := range m.Tfidf.IDF {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return malformed("invalid idf %v at index %d", v, i)
		}
	}
	for i, v := range m.Coef {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return malformed("invalid coefficient %v at index %d", v, i)
		}
	}
	if math.IsNaN(m.Intercept) || math.IsInf(m.Intercept, 0) {
		return malformed("invalid intercept %v", m.Intercept)
	}
	if len(m.Classes) != 2 || m.Classes[0] != NotSpam || m.Classes[1] != Spam {
		return malformed("classes must be [%s %s], got %v", NotSpam, Spam, m.Classes)
	}
	return nil
}
