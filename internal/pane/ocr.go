package pane

import "github.com/jask/searchbot/internal/backend"

const noText = "(no text)"

// OCR sends a single image and shows the extracted text.
type OCR struct {
	File    *backend.Upload
	Text    string
	Err     error
	Loading bool
}

// Attach selects the image to read. It replaces any previous selection.
func (o OCR) Attach(up backend.Upload) OCR {
	o.File = &up
	o.Err = nil
	return o
}

func (o OCR) CanSubmit() bool {
	return !o.Loading && o.File != nil
}

func (o OCR) Submit() (OCR, *Request) {
	if !o.CanSubmit() {
		return o, nil
	}
	o.Loading = true
	o.Err = nil
	o.Text = ""
	return o, &Request{Call: CallOCR, Upload: *o.File}
}

func (o OCR) Resolve(res Result) OCR {
	if !o.Loading || res.Call != CallOCR {
		return o
	}
	o.Loading = false
	if res.Err != nil {
		o.Err = res.Err
		return o
	}
	o.Text = res.OCR.Text
	if o.Text == "" {
		o.Text = noText
	}
	return o
}
