// Package api wraps the two remote services the pipeline depends on: the
// transcription endpoint (multipart file upload) and the summarization
// endpoint (form-encoded transcript + category). Both return typed *Error
// values so the caller can show the right message and recover.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/voxnote/voxnote/internal/session"
)

// uploadField is the multipart field name the transcription service expects.
const uploadField = "file"

// Client issues requests to the transcription and summarization endpoints.
type Client struct {
	http          *http.Client
	transcribeURL string
	summarizeURL  string
	log           zerolog.Logger
}

// New returns a Client. The timeout bounds each whole request including the
// upload; a timeout surfaces as a network error.
func New(transcribeURL, summarizeURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		http:          &http.Client{Timeout: timeout},
		transcribeURL: transcribeURL,
		summarizeURL:  summarizeURL,
		log:           log.With().Str("component", "api").Logger(),
	}
}

// transcriptionBody is the success payload of the transcription endpoint.
type transcriptionBody struct {
	Transcription string `json:"transcription"`
}

// Transcribe uploads the file and returns its transcript. The file is read
// from disk only here, at upload time.
func (c *Client) Transcribe(ctx context.Context, f session.FileRef) (string, error) {
	body, contentType, err := multipartUpload(f)
	if err != nil {
		return "", fmt.Errorf("building upload for %s: %w", f.Name, err)
	}

	start := time.Now()
	c.log.Info().Str("file", f.Name).Int64("size", f.SizeBytes).Msg("transcription request")

	status, respBody, err := c.post(ctx, c.transcribeURL, contentType, body)
	if err != nil {
		c.log.Error().Err(err).Str("file", f.Name).Msg("transcription transport failure")
		return "", newNetworkError(err)
	}
	if status < 200 || status >= 300 {
		svcErr := newServiceError(status, respBody)
		c.log.Error().Int("status", status).Str("file", f.Name).Msg("transcription rejected")
		return "", svcErr
	}

	var tb transcriptionBody
	if err := json.Unmarshal(respBody, &tb); err != nil || tb.Transcription == "" {
		c.log.Error().Str("file", f.Name).Msg("transcription response missing transcript")
		return "", newMalformedError("the service returned no transcription")
	}

	c.log.Info().Dur("elapsed", time.Since(start)).Str("file", f.Name).Msg("transcription complete")
	return tb.Transcription, nil
}

// Result is a successful summarization: a rich-text summary plus the key
// notes in the order the service produced them.
type Result struct {
	Summary string
	Notes   []string
}

// summarizationBody decodes notes lazily so non-string entries can be
// detected instead of silently mangled.
type summarizationBody struct {
	Summary string            `json:"summary"`
	Notes   []json.RawMessage `json:"notes"`
}

// Summarize sends the transcript and category and returns the summary and
// notes. The transcript must be non-empty and the category one of the known
// values; the session state machine guarantees both.
func (c *Client) Summarize(ctx context.Context, text string, category session.Category) (*Result, error) {
	if text == "" {
		return nil, fmt.Errorf("summarize: empty transcript")
	}
	if !category.Valid() {
		return nil, fmt.Errorf("summarize: unknown category %q", category)
	}

	form := url.Values{
		"transcribed_text": {text},
		"category":         {string(category)},
	}

	c.log.Info().Str("category", string(category)).Int("transcript_len", len(text)).Msg("summarization request")

	status, respBody, err := c.post(ctx, c.summarizeURL,
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		c.log.Error().Err(err).Msg("summarization transport failure")
		return nil, newNetworkError(err)
	}
	if status < 200 || status >= 300 {
		c.log.Error().Int("status", status).Msg("summarization rejected")
		return nil, newServiceError(status, respBody)
	}

	var sb summarizationBody
	if err := json.Unmarshal(respBody, &sb); err != nil {
		return nil, newMalformedError("the service returned an unreadable summary")
	}
	if sb.Summary == "" || len(sb.Notes) == 0 {
		return nil, newMalformedError("the service returned no summary or notes")
	}

	notes := make([]string, 0, len(sb.Notes))
	for i, raw := range sb.Notes {
		var note string
		if err := json.Unmarshal(raw, &note); err != nil {
			return nil, newMalformedError(fmt.Sprintf("note %d is not plain text", i+1))
		}
		notes = append(notes, note)
	}

	c.log.Info().Int("notes", len(notes)).Msg("summarization complete")
	return &Result{Summary: sb.Summary, Notes: notes}, nil
}

// post issues the request and reads the whole response body. A returned
// error means no HTTP response was obtained.
func (c *Client) post(ctx context.Context, endpoint, contentType string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, respBody, nil
}

// multipartUpload builds the multipart body with the file under the fixed
// upload field, carrying its original name and declared media type.
func multipartUpload(f session.FileRef) (io.Reader, string, error) {
	src, err := os.Open(f.Path)
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		`form-data; name="`+uploadField+`"; filename="`+escapeQuotes(f.Name)+`"`)
	if f.MIMEType != "" {
		header.Set("Content-Type", f.MIMEType)
	}
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}

func escapeQuotes(s string) string {
	var buf bytes.Buffer
	for _, b := range []byte(s) {
		if b == '"' || b == '\\' {
			buf.WriteByte('\\')
		}
		buf.WriteByte(b)
	}
	return buf.String()
}
