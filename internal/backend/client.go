package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// maxResponseBytes bounds how much of a response body is read. Generated
// images arrive base64 encoded inside JSON and can run to several megabytes.
const maxResponseBytes = 64 << 20

// Client talks to the search bot backend. It issues exactly one HTTP request
// per call and never retries.
type Client struct {
	baseURL  string
	http     *http.Client
	log      *zap.Logger
	validate *validator.Validate
	maxBody  int64
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The timeout passed to
// NewClient is not applied to a replaced client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient returns a client for baseURL. A zero timeout leaves requests
// bounded only by the caller's context.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:     &http.Client{Timeout: timeout},
		log:      zap.NewNop(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		maxBody:  maxResponseBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("backend")
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// Ask runs a web search with cited answer.
func (c *Client) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	var out AskResponse
	if err := c.postJSON(ctx, "ask", "/ask", req, &out); err != nil {
		return AskResponse{}, err
	}
	return out, nil
}

func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (ImageResponse, error) {
	var out ImageResponse
	if err := c.postJSON(ctx, "image", "/image/generate", req, &out); err != nil {
		return ImageResponse{}, err
	}
	return out, nil
}

func (c *Client) OCR(ctx context.Context, up Upload) (OCRResponse, error) {
	var out OCRResponse
	if err := c.postFile(ctx, "ocr", "/ocr", up, &out); err != nil {
		return OCRResponse{}, err
	}
	return out, nil
}

func (c *Client) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	var out ChatResponse
	if err := c.postJSON(ctx, "chat", "/chat", req, &out); err != nil {
		return ChatResponse{}, err
	}
	return out, nil
}

// UploadPDF indexes a PDF. A {"error": ...} body is returned as *PayloadError.
// A body with neither doc_id nor error is returned as-is; callers decide how
// to present it.
func (c *Client) UploadPDF(ctx context.Context, up Upload) (PDFUploadResponse, error) {
	var out PDFUploadResponse
	if err := c.postFile(ctx, "pdf_upload", "/pdf/upload", up, &out); err != nil {
		return PDFUploadResponse{}, err
	}
	if out.DocID == "" && out.Error != "" {
		return out, &PayloadError{Message: out.Error}
	}
	return out, nil
}

// AskPDF answers a question about an indexed document.
func (c *Client) AskPDF(ctx context.Context, req PDFAskRequest) (PDFAskResponse, error) {
	var out PDFAskResponse
	if err := c.postJSON(ctx, "pdf_ask", "/pdf/ask", req, &out); err != nil {
		return PDFAskResponse{}, err
	}
	if out.Answer == "" && out.Error != "" {
		return out, &PayloadError{Message: out.Error}
	}
	return out, nil
}

func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return HealthResponse{}, fmt.Errorf("build health request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	var out HealthResponse
	if err := c.do("health", httpReq, &out); err != nil {
		return HealthResponse{}, err
	}
	return out, nil
}

func (c *Client) postJSON(ctx context.Context, call, path string, req, out any) error {
	if err := c.validate.Struct(req); err != nil {
		return newValidationError(err)
	}
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", call, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", call, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	return c.do(call, httpReq, out)
}

func (c *Client) postFile(ctx context.Context, call, path string, up Upload, out any) error {
	if err := c.validate.Struct(up); err != nil {
		return newValidationError(err)
	}
	body, contentType, err := multipartBody(up)
	if err != nil {
		return fmt.Errorf("encode %s upload: %w", call, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", call, err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	return c.do(call, httpReq, out)
}

func (c *Client) do(call string, req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("call", call),
			zap.String("path", req.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return &TransportError{Op: call, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return &TransportError{Op: call, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > c.maxBody {
		c.log.Warn("response too large",
			zap.String("call", call),
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.Int64("limit", c.maxBody))
		return &TransportError{Op: call, Err: fmt.Errorf("%w: over %d bytes", ErrResponseTooLarge, c.maxBody)}
	}
	c.log.Info("request done",
		zap.String("call", call),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &TransportError{Op: call, Err: fmt.Errorf("decode body: %w", err)}
	}
	return nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func multipartBody(up Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	ct := up.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(filepath.Base(up.Name))))
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(up.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
