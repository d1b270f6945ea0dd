package prometheus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/golang/gddo/httputil"
	"github.com/pkg/errors"
)

const (
	contentTypePlainText = "text/plain"
	contentTypeJSON      = "application/json"
)

type serviceStatus struct {
	Name   string `json:"service"`
	Status bool   `json:"status"`
	Err    string `json:"error,omitempty"`
}

// healthReport lists the status of every registered service, sorted by name.
type healthReport struct {
	Services []serviceStatus `json:"data"`
}

func (h healthReport) healthy() bool {
	for _, st := range h.Services {
		if !st.Status {
			return false
		}
	}
	return true
}

func (h healthReport) text() []byte {
	var buf bytes.Buffer
	for _, st := range h.Services {
		status := "OK"
		if !st.Status {
			status = "ERROR, " + st.Err
		}
		fmt.Fprintf(&buf, "%s: %s\n", st.Name, status)
	}
	return buf.Bytes()
}

// writeTo encodes the report in the content type preferred by the request's
// Accept header, plain text unless JSON is asked for.
func (h healthReport) writeTo(w http.ResponseWriter, r *http.Request) error {
	code := http.StatusOK
	if !h.healthy() {
		code = http.StatusInternalServerError
	}
	offers := []string{contentTypePlainText, contentTypeJSON}
	if httputil.NegotiateContentType(r, offers, contentTypePlainText) == contentTypeJSON {
		w.Header().Set("Content-Type", contentTypeJSON)
		w.WriteHeader(code)
		return errors.Wrap(json.NewEncoder(w).Encode(h), "could not encode health report")
	}
	w.Header().Set("Content-Type", contentTypePlainText)
	w.WriteHeader(code)
	_, err := w.Write(h.text())
	return errors.Wrap(err, "could not write health report")
}
