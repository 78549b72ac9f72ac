package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestExitErr(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	killed := fmt.Errorf("%w: %w", tea.ErrProgramKilled, context.Canceled)
	boom := errors.New("boom")

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want error
	}{
		{name: "clean exit", ctx: context.Background(), err: nil, want: nil},
		{name: "signal shutdown", ctx: cancelled, err: killed, want: nil},
		{name: "killed without signal", ctx: context.Background(), err: killed, want: killed},
		{name: "other error", ctx: cancelled, err: boom, want: boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitErr(tt.ctx, tt.err); got != tt.want {
				t.Fatalf("exitErr() = %v, want %v", got, tt.want)
			}
		})
	}
}
