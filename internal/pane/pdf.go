package pane

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jask/searchbot/internal/backend"
)

const pdfTopK = 6

const (
	statusIndexing = "Uploading & indexing…"
	statusFailed   = "Failed."
)

type PDFState int

const (
	Unindexed PDFState = iota
	Indexed
)

func (s PDFState) String() string {
	if s == Indexed {
		return "indexed"
	}
	return "unindexed"
}

// PDF is the upload-then-ask pane. Asking needs a doc_id from a successful
// upload; a failed re-upload keeps the previous document.
type PDF struct {
	File      *backend.Upload
	DocID     string
	Chunks    int
	Status    string
	Question  string
	Answer    string
	Cited     []int
	Uploading bool
	Asking    bool
}

func (p PDF) State() PDFState {
	if p.DocID == "" {
		return Unindexed
	}
	return Indexed
}

func (p PDF) Busy() bool { return p.Uploading || p.Asking }

func (p PDF) Attach(up backend.Upload) PDF {
	p.File = &up
	return p
}

func (p PDF) CanUpload() bool {
	return !p.Busy() && p.File != nil
}

func (p PDF) CanAsk() bool {
	return !p.Busy() && p.State() == Indexed && strings.TrimSpace(p.Question) != ""
}

func (p PDF) Upload() (PDF, *Request) {
	if !p.CanUpload() {
		return p, nil
	}
	p.Uploading = true
	p.Status = statusIndexing
	p.Answer = ""
	return p, &Request{Call: CallPDFUpload, Upload: *p.File}
}

func (p PDF) Ask() (PDF, *Request) {
	if !p.CanAsk() {
		return p, nil
	}
	p.Asking = true
	p.Answer = ""
	p.Cited = nil
	return p, &Request{
		Call:   CallPDFAsk,
		PDFAsk: backend.PDFAskRequest{DocID: p.DocID, Question: strings.TrimSpace(p.Question), K: pdfTopK},
	}
}

func (p PDF) Resolve(res Result) PDF {
	switch res.Call {
	case CallPDFUpload:
		if !p.Uploading {
			return p
		}
		p.Uploading = false
		switch {
		case res.Err != nil:
			p.Status = Describe(res.Err)
		case res.PDFUpload.DocID == "":
			p.Status = statusFailed
		default:
			p.DocID = res.PDFUpload.DocID
			p.Chunks = res.PDFUpload.Chunks
			p.Status = fmt.Sprintf("Indexed %d chunks. Ready.", p.Chunks)
		}
	case CallPDFAsk:
		if !p.Asking {
			return p
		}
		p.Asking = false
		switch {
		case res.Err != nil:
			p.Answer = Describe(res.Err)
		case res.PDFAsk.Answer != "":
			p.Answer = res.PDFAsk.Answer
			p.Cited = slices.Clone(res.PDFAsk.SelectedChunks)
		case res.PDFAsk.Error != "":
			p.Answer = res.PDFAsk.Error
		default:
			p.Answer = noAnswer
		}
	}
	return p
}

// CitedLabel lists the chunk numbers the answer was drawn from, or "" when
// the backend did not report any.
func (p PDF) CitedLabel() string {
	if len(p.Cited) == 0 {
		return ""
	}
	nums := make([]string, 0, len(p.Cited))
	for _, n := range p.Cited {
		nums = append(nums, strconv.Itoa(n))
	}
	return "cited chunks: " + strings.Join(nums, ", ")
}
