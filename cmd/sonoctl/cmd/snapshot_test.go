package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/pitabwire/sonoctl/model"
)

func sampleSnapshot() catalogSnapshot {
	return catalogSnapshot{
		Version: "test",
		Operations: []model.OperationSpec{
			{Name: "Play", Action: "Play", Service: "AVTransport"},
		},
		Services: map[string]model.ServiceInfo{
			"AVTransport": {
				Endpoint:   "/MediaRenderer/AVTransport/Control",
				ServiceURI: "urn:schemas-upnp-org:service:AVTransport:1",
			},
		},
	}
}

func TestWriteSnapshot(t *testing.T) {
	var buf bytes.Buffer
	if err := writeSnapshot(&buf, sampleSnapshot()); err != nil {
		t.Fatalf("writeSnapshot: %v", err)
	}

	var decoded catalogSnapshot
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("artifact is not valid JSON: %v", err)
	}
	if decoded.Version != "test" || len(decoded.Operations) != 1 {
		t.Errorf("decoded artifact = %+v", decoded)
	}
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestWriteSnapshotSurfacesWriteError(t *testing.T) {
	sentinel := errors.New("disk full")
	err := writeSnapshot(failingWriter{err: sentinel}, sampleSnapshot())
	if !errors.Is(err, sentinel) {
		t.Errorf("writeSnapshot error = %v, want write failure surfaced", err)
	}
}
