package render

import (
	"bytes"
	"encoding/json"
	"io"

	"effcost/domain/efficiency"
)

// JSONRenderer writes the report as an indented JSON object
type JSONRenderer struct {
	Indent string
}

// NewJSONRenderer uses two-space indentation
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{Indent: "  "}
}

func (r *JSONRenderer) ContentType() string { return "application/json; charset=utf-8" }

func (r *JSONRenderer) Render(w io.Writer, report *efficiency.Report) error {
	compact, err := json.Marshal(report)
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", r.Indent); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err = w.Write(out.Bytes())
	return err
}
