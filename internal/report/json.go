package report

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/kirbyfan64/Celero/pkg/bench"
)

// JSONWriter buffers the result stream and writes it as one indented JSON
// array on Close, matching the shape the history store persists.
type JSONWriter struct {
	mu      sync.Mutex
	w       io.Writer
	results []bench.Result
}

func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w}
}

func (j *JSONWriter) Report(r bench.Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.results = append(j.results, r)
}

func (j *JSONWriter) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := json.MarshalIndent(j.results, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = j.w.Write(data)
	return err
}

// Reporter consumes a stream of benchmark results.
type Reporter interface {
	Report(bench.Result)
}

// Multi fans one result stream out to several reporters.
type Multi []Reporter

func (m Multi) Report(r bench.Result) {
	for _, rep := range m {
		rep.Report(r)
	}
}
