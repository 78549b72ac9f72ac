// Package pane holds the client-side state machines behind each tab.
//
// Every pane is a value. Its transitions return the new value plus, at most,
// one *Request describing the HTTP call to make. Nothing here performs I/O;
// Dispatch executes a Request against a Backend and the result is fed back
// through Resolve.
package pane
