package pane

import (
	"context"
	"fmt"
	"strings"
)

type Tab int

const (
	TabSearch Tab = iota
	TabImage
	TabOCR
	TabChat
	TabPDF
	tabCount
)

var tabTitles = [tabCount]string{"Search", "Image", "OCR", "Chat", "PDF Q&A"}

var tabNames = [tabCount]string{"search", "image", "ocr", "chat", "pdf"}

func Tabs() []Tab {
	out := make([]Tab, 0, tabCount)
	for t := TabSearch; t < tabCount; t++ {
		out = append(out, t)
	}
	return out
}

func (t Tab) Valid() bool { return t >= TabSearch && t < tabCount }

func (t Tab) Title() string {
	if !t.Valid() {
		return "?"
	}
	return tabTitles[t]
}

func (t Tab) String() string {
	if !t.Valid() {
		return fmt.Sprintf("tab(%d)", int(t))
	}
	return tabNames[t]
}

// ParseTab accepts the lowercase tab names: search, image, ocr, chat, pdf.
func ParseTab(s string) (Tab, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t := TabSearch; t < tabCount; t++ {
		if tabNames[t] == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown tab %q", s)
}

// Envelope tags a Request with the pane that issued it and that pane's epoch.
type Envelope struct {
	Tab     Tab
	Epoch   uint64
	Request Request
}

// Outcome is a Result addressed back to the pane that asked for it.
type Outcome struct {
	Tab    Tab
	Epoch  uint64
	Result Result
}

// Run dispatches the envelope's request and addresses the result.
func Run(ctx context.Context, b Backend, env Envelope) Outcome {
	return Outcome{Tab: env.Tab, Epoch: env.Epoch, Result: Dispatch(ctx, b, env.Request)}
}

// Shell owns the five panes and which one is visible. Leaving a tab resets
// its pane and bumps its epoch so that replies to requests issued before the
// switch are dropped.
type Shell struct {
	active Tab
	epochs [tabCount]uint64

	Search Search
	Image  Image
	OCR    OCR
	Chat   Chat
	PDF    PDF
}

func NewShell(start Tab) *Shell {
	if !start.Valid() {
		start = TabSearch
	}
	return &Shell{active: start, Chat: NewChat()}
}

func (s *Shell) Active() Tab { return s.active }

// Epoch is the generation of tab t. Work started for t under an older epoch
// belongs to a pane that has since been reset.
func (s *Shell) Epoch(t Tab) uint64 {
	if !t.Valid() {
		return 0
	}
	return s.epochs[t]
}

// Switch makes t the visible tab. It reports whether anything changed.
func (s *Shell) Switch(t Tab) bool {
	if !t.Valid() || t == s.active {
		return false
	}
	s.reset(s.active)
	s.active = t
	return true
}

func (s *Shell) reset(t Tab) {
	s.epochs[t]++
	switch t {
	case TabSearch:
		s.Search = Search{}
	case TabImage:
		s.Image = Image{}
	case TabOCR:
		s.OCR = OCR{}
	case TabChat:
		s.Chat = NewChat()
	case TabPDF:
		s.PDF = PDF{}
	}
}

func (s *Shell) wrap(t Tab, req *Request) *Envelope {
	if req == nil {
		return nil
	}
	return &Envelope{Tab: t, Epoch: s.epochs[t], Request: *req}
}

func (s *Shell) SubmitSearch() *Envelope {
	var req *Request
	s.Search, req = s.Search.Submit()
	return s.wrap(TabSearch, req)
}

func (s *Shell) GenerateImage() *Envelope {
	var req *Request
	s.Image, req = s.Image.Submit()
	return s.wrap(TabImage, req)
}

func (s *Shell) RunOCR() *Envelope {
	var req *Request
	s.OCR, req = s.OCR.Submit()
	return s.wrap(TabOCR, req)
}

func (s *Shell) SendChat() *Envelope {
	var req *Request
	s.Chat, req = s.Chat.Submit()
	return s.wrap(TabChat, req)
}

func (s *Shell) UploadPDF() *Envelope {
	var req *Request
	s.PDF, req = s.PDF.Upload()
	return s.wrap(TabPDF, req)
}

func (s *Shell) AskPDF() *Envelope {
	var req *Request
	s.PDF, req = s.PDF.Ask()
	return s.wrap(TabPDF, req)
}

// Deliver routes an outcome to its pane. Stale outcomes are ignored and
// reported as false.
func (s *Shell) Deliver(o Outcome) bool {
	if !o.Tab.Valid() || o.Epoch != s.epochs[o.Tab] {
		return false
	}
	switch o.Tab {
	case TabSearch:
		s.Search = s.Search.Resolve(o.Result)
	case TabImage:
		s.Image = s.Image.Resolve(o.Result)
	case TabOCR:
		s.OCR = s.OCR.Resolve(o.Result)
	case TabChat:
		s.Chat = s.Chat.Resolve(o.Result)
	case TabPDF:
		s.PDF = s.PDF.Resolve(o.Result)
	}
	return true
}

// Busy reports whether tab t has a request in flight.
func (s *Shell) Busy(t Tab) bool {
	switch t {
	case TabSearch:
		return s.Search.Loading
	case TabImage:
		return s.Image.Loading
	case TabOCR:
		return s.OCR.Loading
	case TabChat:
		return s.Chat.Loading
	case TabPDF:
		return s.PDF.Busy()
	}
	return false
}
