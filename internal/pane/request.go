package pane

import (
	"context"
	"fmt"

	"github.com/jask/searchbot/internal/backend"
)

type Call string

const (
	CallAsk       Call = "ask"
	CallImage     Call = "image"
	CallOCR       Call = "ocr"
	CallChat      Call = "chat"
	CallPDFUpload Call = "pdf_upload"
	CallPDFAsk    Call = "pdf_ask"
)

// Request describes one backend call. Only the payload matching Call is set.
type Request struct {
	Call   Call
	Ask    backend.AskRequest
	Image  backend.ImageRequest
	Chat   backend.ChatRequest
	PDFAsk backend.PDFAskRequest
	Upload backend.Upload
}

// Result is the outcome of a dispatched Request.
type Result struct {
	Call      Call
	Ask       backend.AskResponse
	Image     backend.ImageResponse
	OCR       backend.OCRResponse
	Chat      backend.ChatResponse
	PDFUpload backend.PDFUploadResponse
	PDFAsk    backend.PDFAskResponse
	Err       error
}

// Backend is the subset of *backend.Client the panes depend on.
type Backend interface {
	Ask(ctx context.Context, req backend.AskRequest) (backend.AskResponse, error)
	GenerateImage(ctx context.Context, req backend.ImageRequest) (backend.ImageResponse, error)
	OCR(ctx context.Context, up backend.Upload) (backend.OCRResponse, error)
	Chat(ctx context.Context, req backend.ChatRequest) (backend.ChatResponse, error)
	UploadPDF(ctx context.Context, up backend.Upload) (backend.PDFUploadResponse, error)
	AskPDF(ctx context.Context, req backend.PDFAskRequest) (backend.PDFAskResponse, error)
}

// Dispatch performs req against b. It blocks until the call completes.
func Dispatch(ctx context.Context, b Backend, req Request) Result {
	res := Result{Call: req.Call}
	switch req.Call {
	case CallAsk:
		res.Ask, res.Err = b.Ask(ctx, req.Ask)
	case CallImage:
		res.Image, res.Err = b.GenerateImage(ctx, req.Image)
	case CallOCR:
		res.OCR, res.Err = b.OCR(ctx, req.Upload)
	case CallChat:
		res.Chat, res.Err = b.Chat(ctx, req.Chat)
	case CallPDFUpload:
		res.PDFUpload, res.Err = b.UploadPDF(ctx, req.Upload)
	case CallPDFAsk:
		res.PDFAsk, res.Err = b.AskPDF(ctx, req.PDFAsk)
	default:
		res.Err = fmt.Errorf("unknown call %q", req.Call)
	}
	return res
}
