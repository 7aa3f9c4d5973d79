package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/voxnote/voxnote/internal/session"
)

func writeTestAudio(t *testing.T) session.FileRef {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "lecture.mp3")
	data := []byte("fake mp3 bytes")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return session.FileRef{
		Name:      "lecture.mp3",
		Path:      path,
		MIMEType:  "audio/mpeg",
		SizeBytes: int64(len(data)),
	}
}

func newTestClient(transcribeURL, summarizeURL string) *Client {
	return New(transcribeURL, summarizeURL, 5*time.Second, zerolog.Nop())
}

func TestTranscribeOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart: %v", err)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file field: %v", err)
		}
		defer f.Close()
		if hdr.Filename != "lecture.mp3" {
			t.Errorf("filename = %q", hdr.Filename)
		}
		if ct := hdr.Header.Get("Content-Type"); ct != "audio/mpeg" {
			t.Errorf("part content-type = %q", ct)
		}
		body, _ := io.ReadAll(f)
		if string(body) != "fake mp3 bytes" {
			t.Errorf("uploaded bytes = %q", body)
		}
		json.NewEncoder(w).Encode(map[string]string{"transcription": "hello world"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	text, err := c.Transcribe(context.Background(), writeTestAudio(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello world" {
		t.Errorf("text = %q, want %q", text, "hello world")
	}
}

func TestTranscribeServiceErrorWithDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "model overloaded"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	_, err := c.Transcribe(context.Background(), writeTestAudio(t))
	if !IsKind(err, KindService) {
		t.Fatalf("error = %v, want service kind", err)
	}
	if Message(err) != "model overloaded" {
		t.Errorf("message = %q, want detail from body", Message(err))
	}
}

func TestTranscribeServiceErrorWithoutDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	_, err := c.Transcribe(context.Background(), writeTestAudio(t))
	if !IsKind(err, KindService) {
		t.Fatalf("error = %v, want service kind", err)
	}
	if Message(err) != "HTTP status 502" {
		t.Errorf("message = %q, want synthesized status message", Message(err))
	}
}

func TestTranscribeMalformedSuccessBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing field", `{"other": "x"}`},
		{"empty transcription", `{"transcription": ""}`},
		{"not json", `plain text`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := newTestClient(srv.URL, srv.URL)
			_, err := c.Transcribe(context.Background(), writeTestAudio(t))
			if !IsKind(err, KindMalformed) {
				t.Fatalf("error = %v, want malformed kind", err)
			}
		})
	}
}

func TestTranscribeConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := newTestClient(srv.URL, srv.URL)
	_, err := c.Transcribe(context.Background(), writeTestAudio(t))
	if !IsKind(err, KindNetwork) {
		t.Fatalf("error = %v, want network kind", err)
	}
}

func TestSummarizeOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parsing form: %v", err)
		}
		if got := r.PostFormValue("transcribed_text"); got != "test transcript" {
			t.Errorf("transcribed_text = %q", got)
		}
		if got := r.PostFormValue("category"); got != "lecture" {
			t.Errorf("category = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"summary": "<p>ok</p>",
			"notes":   []string{"a", "b"},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	res, err := c.Summarize(context.Background(), "test transcript", session.CategoryLecture)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Summary != "<p>ok</p>" {
		t.Errorf("summary = %q", res.Summary)
	}
	if len(res.Notes) != 2 || res.Notes[0] != "a" || res.Notes[1] != "b" {
		t.Errorf("notes = %v, want ordered [a b]", res.Notes)
	}
}

func TestSummarizeRejectsNonStringNotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"summary": "s", "notes": ["ok", {"injected": "<script>"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	_, err := c.Summarize(context.Background(), "text", session.CategoryMeeting)
	if !IsKind(err, KindMalformed) {
		t.Fatalf("error = %v, want malformed kind", err)
	}
}

func TestSummarizeMalformedSuccessBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty summary", `{"summary": "", "notes": ["a"]}`},
		{"no notes", `{"summary": "s", "notes": []}`},
		{"missing notes", `{"summary": "s"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := newTestClient(srv.URL, srv.URL)
			_, err := c.Summarize(context.Background(), "text", session.CategoryMeeting)
			if !IsKind(err, KindMalformed) {
				t.Fatalf("error = %v, want malformed kind", err)
			}
		})
	}
}

func TestSummarizeServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"detail": "AI service failed to generate summary and notes."})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	_, err := c.Summarize(context.Background(), "text", session.CategoryMeeting)
	if !IsKind(err, KindService) {
		t.Fatalf("error = %v, want service kind", err)
	}
	if !strings.Contains(Message(err), "AI service failed") {
		t.Errorf("message = %q", Message(err))
	}
}

func TestSummarizePreconditions(t *testing.T) {
	c := newTestClient("http://localhost:0", "http://localhost:0")

	if _, err := c.Summarize(context.Background(), "", session.CategoryMeeting); err == nil {
		t.Error("empty transcript must be rejected before any network call")
	}
	if _, err := c.Summarize(context.Background(), "text", session.Category("bogus")); err == nil {
		t.Error("unknown category must be rejected before any network call")
	}
}

func TestErrorFormatting(t *testing.T) {
	svc := newServiceError(500, []byte(`{"detail": "boom"}`))
	if svc.Error() != `api: service (HTTP 500): boom` {
		t.Errorf("Error() = %q", svc.Error())
	}

	mal := newMalformedError("bad body")
	if !strings.Contains(mal.Error(), "malformed") {
		t.Errorf("Error() = %q", mal.Error())
	}

	if Message(io.ErrUnexpectedEOF) != io.ErrUnexpectedEOF.Error() {
		t.Error("Message should fall back to Error() for plain errors")
	}
}
