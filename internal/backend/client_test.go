package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 5*time.Second)
}

func TestAsk_SendsFixedParametersAndDecodes(t *testing.T) {
	t.Parallel()
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/ask", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"answer":"42","sources":["https://a.com"]}`)
	})

	resp, err := c.Ask(context.Background(), AskRequest{Query: "test", MaxResults: 6, MaxPages: 4, MaxCharsPerDoc: 4000})
	require.NoError(t, err)
	require.Equal(t, "42", resp.Answer)
	require.Equal(t, []string{"https://a.com"}, resp.Sources)
	require.Equal(t, map[string]any{
		"query":             "test",
		"max_results":       float64(6),
		"max_pages":         float64(4),
		"max_chars_per_doc": float64(4000),
	}, got)
}

func TestAsk_NonSuccessStatusBecomesAPIError(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "boom")
	})

	_, err := c.Ask(context.Background(), AskRequest{Query: "test", MaxResults: 6, MaxPages: 4, MaxCharsPerDoc: 4000})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 500, apiErr.Status)
	require.Equal(t, "API 500: boom", err.Error())
}

func TestAsk_ValidationRejectsEmptyQueryWithoutSending(t *testing.T) {
	t.Parallel()
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	_, err := c.Ask(context.Background(), AskRequest{MaxResults: 6, MaxPages: 4, MaxCharsPerDoc: 4000})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, err.Error(), "query failed required")
	require.False(t, called)
}

func TestChat_OmitsSessionIDOnFirstTurn(t *testing.T) {
	t.Parallel()
	var bodies []map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies = append(bodies, body)
		_, _ = io.WriteString(w, `{"session_id":"s1","answer":"hi"}`)
	})

	first, err := c.Chat(context.Background(), ChatRequest{Message: "hello"})
	require.NoError(t, err)
	require.Equal(t, "s1", first.SessionID)

	_, err = c.Chat(context.Background(), ChatRequest{SessionID: first.SessionID, Message: "again"})
	require.NoError(t, err)

	require.Len(t, bodies, 2)
	require.NotContains(t, bodies[0], "session_id")
	require.Equal(t, "s1", bodies[1]["session_id"])
}

func TestOCR_UploadsMultipartFile(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ocr", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		require.Equal(t, "scan.png", hdr.Filename)
		require.Equal(t, "image/png", hdr.Header.Get("Content-Type"))
		require.Equal(t, []byte("pixels"), data)
		_, _ = io.WriteString(w, `{"text":"hello\nworld"}`)
	})

	resp, err := c.OCR(context.Background(), Upload{Name: "/tmp/scan.png", ContentType: "image/png", Data: []byte("pixels")})
	require.NoError(t, err)
	require.Equal(t, "hello\nworld", resp.Text)
}

func TestUploadPDF_ErrorPayload(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"error":"No extractable text found."}`)
	})

	_, err := c.UploadPDF(context.Background(), Upload{Name: "a.pdf", ContentType: "application/pdf", Data: []byte("%PDF")})
	var perr *PayloadError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "No extractable text found.", perr.Message)
}

func TestUploadPDF_Success(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"doc_id":"d1","chunks":12}`)
	})

	resp, err := c.UploadPDF(context.Background(), Upload{Name: "a.pdf", ContentType: "application/pdf", Data: []byte("%PDF")})
	require.NoError(t, err)
	require.Equal(t, "d1", resp.DocID)
	require.Equal(t, 12, resp.Chunks)
}

func TestUpload_EmptyFileRejected(t *testing.T) {
	t.Parallel()
	c := NewClient("http://127.0.0.1:1", time.Second)
	_, err := c.OCR(context.Background(), Upload{Name: "a.png"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestAskPDF_AnswerAndErrorField(t *testing.T) {
	t.Parallel()
	var got PDFAskRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		if got.DocID == "missing" {
			_, _ = io.WriteString(w, `{"error":"Unknown doc_id"}`)
			return
		}
		_, _ = io.WriteString(w, `{"answer":"chapter 3","selected_chunks":[4,1]}`)
	})

	resp, err := c.AskPDF(context.Background(), PDFAskRequest{DocID: "d1", Question: "where?", K: 6})
	require.NoError(t, err)
	require.Equal(t, "chapter 3", resp.Answer)
	require.Equal(t, 6, got.K)

	_, err = c.AskPDF(context.Background(), PDFAskRequest{DocID: "missing", Question: "where?", K: 6})
	var perr *PayloadError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "Unknown doc_id", err.Error())
}

func TestTransportFailure(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second)
	_, err := c.GenerateImage(context.Background(), ImageRequest{Prompt: "cat", Size: "1024x1024", N: 1})
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, "image", terr.Op)
	require.False(t, errors.Is(err, context.Canceled))
}

func TestUndecodableBodyIsTransportError(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>`)
	})
	_, err := c.GenerateImage(context.Background(), ImageRequest{Prompt: "cat", Size: "1024x1024", N: 1})
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/health", r.URL.Path)
		_, _ = io.WriteString(w, `{"ok":true}`)
	})
	resp, err := c.Health(context.Background())
	require.NoError(t, err)
	require.True(t, resp.OK)
}

func TestOversizedBodyIsRejected(t *testing.T) {
	t.Parallel()
	for _, status := range []int{http.StatusOK, http.StatusBadGateway} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = io.WriteString(w, `{"answer":"far too long for the limit"}`)
		})
		c.maxBody = 16

		_, err := c.Ask(context.Background(), AskRequest{Query: "test", MaxResults: 6, MaxPages: 4, MaxCharsPerDoc: 4000})
		var terr *TransportError
		require.ErrorAs(t, err, &terr)
		require.ErrorIs(t, err, ErrResponseTooLarge)
		require.Equal(t, "ask: response too large: over 16 bytes", err.Error())
	}
}

func TestBodyAtLimitIsAccepted(t *testing.T) {
	t.Parallel()
	body := `{"answer":"ok"}`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, body)
	})
	c.maxBody = int64(len(body))

	resp, err := c.Ask(context.Background(), AskRequest{Query: "test", MaxResults: 6, MaxPages: 4, MaxCharsPerDoc: 4000})
	require.NoError(t, err)
	require.Equal(t, "ok", resp.Answer)
}
