package pane

import (
	"errors"

	"github.com/jask/searchbot/internal/backend"
)

// Describe turns any call error into the text a pane shows. Server-supplied
// error payloads are shown verbatim; everything else is prefixed "Error: ".
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var perr *backend.PayloadError
	if errors.As(err, &perr) {
		return perr.Message
	}
	return "Error: " + err.Error()
}
