package run

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var scriptMarkdown = goldmark.New(goldmark.WithExtensions(extension.Typographer))

// ScriptHTML renders Script(r) as an HTML fragment.
// Raw HTML in slide text is omitted, not passed through.
func ScriptHTML(r *Run) ([]byte, error) {
	var buf bytes.Buffer
	if err := scriptMarkdown.Convert([]byte(Script(r)), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
