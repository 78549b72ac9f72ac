package pane

import (
	"fmt"
	"strings"

	"github.com/jask/searchbot/internal/backend"
)

const (
	searchMaxResults     = 6
	searchMaxPages       = 4
	searchMaxCharsPerDoc = 4000
)

const noAnswer = "(no answer)"

// Search is the web search pane: one query in, one cited answer out.
type Search struct {
	Query   string
	Answer  string
	Sources []string
	Err     error
	Loading bool
}

func (s Search) CanSubmit() bool {
	return !s.Loading && strings.TrimSpace(s.Query) != ""
}

// Submit clears the previous answer and asks for a new one.
func (s Search) Submit() (Search, *Request) {
	if !s.CanSubmit() {
		return s, nil
	}
	s.Loading = true
	s.Err = nil
	s.Answer = ""
	s.Sources = nil
	return s, &Request{
		Call: CallAsk,
		Ask: backend.AskRequest{
			Query:          strings.TrimSpace(s.Query),
			MaxResults:     searchMaxResults,
			MaxPages:       searchMaxPages,
			MaxCharsPerDoc: searchMaxCharsPerDoc,
		},
	}
}

func (s Search) Resolve(res Result) Search {
	if !s.Loading || res.Call != CallAsk {
		return s
	}
	s.Loading = false
	if res.Err != nil {
		s.Err = res.Err
		return s
	}
	s.Answer = res.Ask.Answer
	if s.Answer == "" {
		s.Answer = noAnswer
	}
	s.Sources = append([]string(nil), res.Ask.Sources...)
	return s
}

// SourceLines numbers the sources from 1 in backend order.
func (s Search) SourceLines() []string {
	out := make([]string, 0, len(s.Sources))
	for i, src := range s.Sources {
		out = append(out, fmt.Sprintf("[%d] %s", i+1, src))
	}
	return out
}
