package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dmitrymomot/upiqr/pkg/qrcode"
	"github.com/dmitrymomot/upiqr/pkg/upi"
)

type renderFlags struct {
	boxSize int
	border  int
	level   string
	output  string
}

func (rf *renderFlags) register(fs *pflag.FlagSet) {
	fs.IntVar(&rf.boxSize, "box-size", qrcode.DefaultBoxSize, "pixels per module")
	fs.IntVar(&rf.border, "border", qrcode.DefaultBorder, "quiet zone width in modules")
	fs.StringVar(&rf.level, "level", string(qrcode.DefaultLevel), "error correction level: L, M, Q or H")
	fs.StringVarP(&rf.output, "output", "o", "", `PNG file to write ("-" for stdout)`)
}

func (rf *renderFlags) options() (qrcode.Options, error) {
	level, err := qrcode.ParseLevel(rf.level)
	if err != nil {
		return qrcode.Options{}, err
	}
	return qrcode.Options{BoxSize: rf.boxSize, Border: rf.border, ErrorCorrection: level}.Validate()
}

// write saves png to the output flag. An empty output writes nothing.
func (rf *renderFlags) write(cmd *cobra.Command, png []byte) error {
	switch rf.output {
	case "":
		return nil
	case "-":
		_, err := cmd.OutOrStdout().Write(png)
		return err
	}
	if err := os.WriteFile(rf.output, png, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rf.output, err)
	}
	return nil
}

// fieldFlags binds one string flag per vocabulary field, named by wire code,
// plus repeatable --param code=value for anything else.
type fieldFlags struct {
	values map[upi.Field]*string
	params []string
}

func (ff *fieldFlags) register(fs *pflag.FlagSet) {
	ff.values = make(map[upi.Field]*string)
	for _, f := range upi.Fields() {
		ff.values[f] = fs.String(f.Code(), "", strings.ReplaceAll(f.Name(), "_", " "))
	}
	fs.StringArrayVar(&ff.params, "param", nil, "extra parameter as code=value (repeatable)")
}

// fieldSet collects the flags the user actually set, so an explicit
// --am "" is a present empty value.
func (ff *fieldFlags) fieldSet(fs *pflag.FlagSet) (upi.FieldSet, error) {
	var out upi.FieldSet
	for _, f := range upi.Fields() {
		if fs.Changed(f.Code()) {
			out.SetField(f, upi.Some(*ff.values[f]))
		}
	}
	for _, p := range ff.params {
		code, value, ok := strings.Cut(p, "=")
		if !ok || code == "" {
			return upi.FieldSet{}, fmt.Errorf("invalid --param %q, want code=value", p)
		}
		out.Set(code, value)
	}
	return out, nil
}
