package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dmitrymomot/upiqr/pkg/upi"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printFields writes one "name: value" line per present field, in wire
// order, then passthrough params.
func printFields(w io.Writer, fs upi.FieldSet) {
	for _, f := range upi.Fields() {
		if v, ok := fs.Field(f).Get(); ok && v != "" {
			fmt.Fprintf(w, "%-17s %s\n", f.Name()+":", v)
		}
	}
	for _, p := range fs.Params() {
		if p.Value != "" {
			fmt.Fprintf(w, "%-17s %s\n", p.Code+":", p.Value)
		}
	}
}

func nonEmpty(fs upi.FieldSet) map[string]string {
	m := fs.Map()
	for k, v := range m {
		if v == "" {
			delete(m, k)
		}
	}
	return m
}
