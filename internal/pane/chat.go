package pane

import (
	"strings"

	"github.com/jask/searchbot/internal/backend"
)

// Chat is the multi-turn chat pane. SessionID is issued by the backend on the
// first reply and echoed on every later turn.
type Chat struct {
	SessionID  string
	Message    string
	Transcript Transcript
	Err        error
	Loading    bool
}

func NewChat() Chat {
	return Chat{Transcript: NewTranscript()}
}

func (c Chat) CanSubmit() bool {
	return !c.Loading && strings.TrimSpace(c.Message) != ""
}

// Submit shows the user's turn and the assistant marker before the reply
// arrives.
func (c Chat) Submit() (Chat, *Request) {
	if !c.CanSubmit() {
		return c, nil
	}
	msg := strings.TrimSpace(c.Message)
	c.Transcript = c.Transcript.
		Append(Segment{Kind: SegmentUser, Text: msg}).
		Append(Segment{Kind: SegmentMarker})
	c.Loading = true
	c.Err = nil
	return c, &Request{
		Call: CallChat,
		Chat: backend.ChatRequest{SessionID: c.SessionID, Message: msg},
	}
}

// Resolve keeps the typed message on failure so the user can send it again.
func (c Chat) Resolve(res Result) Chat {
	if !c.Loading || res.Call != CallChat {
		return c
	}
	c.Loading = false
	if res.Err != nil {
		c.Err = res.Err
		return c
	}
	if res.Chat.SessionID != "" {
		c.SessionID = res.Chat.SessionID
	}
	c.Transcript = c.Transcript.Append(Segment{Kind: SegmentAnswer, Text: res.Chat.Answer})
	c.Message = ""
	return c
}

func (c Chat) SessionLabel() string {
	if c.SessionID == "" {
		return "new"
	}
	return c.SessionID
}
