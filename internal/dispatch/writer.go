package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Davis1233798/proxy-demos-go/internal/model"
)

// Writer persists one artifact per attempt under Dir. Each attempt index
// owns its own filenames, so concurrent writes never need a lock.
type Writer struct {
	Dir        string
	Prefix     string
	FormatJSON bool
}

type failureRecord struct {
	StatusCode   model.StatusCode `json:"statusCode"`
	AttemptIndex int              `json:"attemptIndex"`
	Error        string           `json:"error"`
	Class        string           `json:"class,omitempty"`
}

func NewWriter(dir, prefix string, formatJSON bool) *Writer {
	return &Writer{Dir: dir, Prefix: prefix, FormatJSON: formatJSON}
}

// Prepare creates Dir and checks that it accepts files. It runs once, before
// any attempt.
func (w *Writer) Prepare() error {
	if err := w.checkDir(); err != nil {
		return &model.ConfigError{Reason: model.ReasonOutputDir, Err: err}
	}
	return nil
}

func (w *Writer) checkDir() error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(w.Dir, ".write-check-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

func (w *Writer) SuccessPath(attempt int) string {
	ext := "html"
	if w.FormatJSON {
		ext = "json"
	}
	return filepath.Join(w.Dir, fmt.Sprintf("%s_%d.%s", w.Prefix, attempt, ext))
}

func (w *Writer) FailurePath(attempt int) string {
	return filepath.Join(w.Dir, fmt.Sprintf("%s_failed_%d.json", w.Prefix, attempt))
}

// Write stores o and returns the path written. When a success body cannot be
// stored, the partial file is removed and a failure record is attempted in
// its place; the returned error is the original write error.
func (w *Writer) Write(o model.Outcome) (string, error) {
	if o.Kind == model.OutcomeFailure {
		path := w.FailurePath(o.Attempt)
		if err := w.writeFailure(path, o.StatusCode, o.Attempt, o.Message, string(o.Class)); err != nil {
			return "", err
		}
		return path, nil
	}

	path := w.SuccessPath(o.Attempt)
	if err := writeAtomic(path, w.render(o.Body)); err != nil {
		fallback := w.FailurePath(o.Attempt)
		if ferr := w.writeFailure(fallback, o.StatusCode, o.Attempt, "writing artifact: "+err.Error(), string(model.ClassPersist)); ferr == nil {
			return fallback, err
		}
		return "", err
	}
	return path, nil
}

func (w *Writer) render(body []byte) []byte {
	if !w.FormatJSON || !json.Valid(body) {
		return body
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return body
	}
	return buf.Bytes()
}

func (w *Writer) writeFailure(path string, status model.StatusCode, attempt int, msg, class string) error {
	data, err := json.MarshalIndent(failureRecord{
		StatusCode:   status,
		AttemptIndex: attempt,
		Error:        msg,
		Class:        class,
	}, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

// writeAtomic writes to path+".part" and renames it into place so that a
// failed write never leaves a truncated artifact.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
