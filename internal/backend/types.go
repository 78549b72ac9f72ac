package backend

// Request/response shapes mirror the backend's JSON wire format.

type AskRequest struct {
	Query          string `json:"query" validate:"required"`
	MaxResults     int    `json:"max_results" validate:"gt=0"`
	MaxPages       int    `json:"max_pages" validate:"gt=0"`
	MaxCharsPerDoc int    `json:"max_chars_per_doc" validate:"gt=0"`
}

type AskResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

type ImageRequest struct {
	Prompt string `json:"prompt" validate:"required"`
	Size   string `json:"size" validate:"required"`
	N      int    `json:"n" validate:"gt=0"`
}

// ImageResponse carries raw base64 PNG payloads, one per generated image.
type ImageResponse struct {
	Data []string `json:"data"`
}

type OCRResponse struct {
	Text string `json:"text"`
}

// ChatRequest omits session_id on the first turn; the backend then opens a
// new session and returns its id.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message" validate:"required"`
}

type ChatResponse struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

type PDFUploadResponse struct {
	DocID  string `json:"doc_id"`
	Chunks int    `json:"chunks"`
	Error  string `json:"error,omitempty"`
}

type PDFAskRequest struct {
	DocID    string `json:"doc_id" validate:"required"`
	Question string `json:"question" validate:"required"`
	K        int    `json:"k" validate:"gt=0"`
}

type PDFAskResponse struct {
	Answer         string `json:"answer"`
	Error          string `json:"error,omitempty"`
	SelectedChunks []int  `json:"selected_chunks,omitempty"`
}

type HealthResponse struct {
	OK bool `json:"ok"`
}

// Upload is a file attached to a multipart call under the "file" field.
type Upload struct {
	Name        string `validate:"required"`
	ContentType string
	Data        []byte `validate:"min=1"`
}
