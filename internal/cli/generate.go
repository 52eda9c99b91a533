package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/upiqr"
)

func newGenerateCmd(g *globals) *cobra.Command {
	var (
		ff fieldFlags
		rf renderFlags
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create a UPI payment QR code",
		Example: `  upiqr generate --pa shop@upi --pn "My Shop" --am 100 --cu INR -o shop.png
  upiqr generate --pa shop@upi --level H --box-size 4 -o - > small.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := ff.fieldSet(cmd.Flags())
			if err != nil {
				return err
			}
			opts, err := rf.options()
			if err != nil {
				return err
			}

			res, err := upiqr.New(upiqr.WithLogger(g.logger())).Generate(cmd.Context(), fields, opts)
			if err != nil {
				return err
			}
			if err := rf.write(cmd, res.Image); err != nil {
				return err
			}
			return report(cmd, g, rf, res, "upi_string")
		},
	}

	ff.register(cmd.Flags())
	rf.register(cmd.Flags())
	return cmd
}

// report prints the payment string unless the image went to stdout.
func report(cmd *cobra.Command, g *globals, rf renderFlags, res upiqr.Result, key string) error {
	if rf.output == "-" {
		return nil
	}
	out := cmd.OutOrStdout()
	if g.json {
		resp := map[string]any{key: res.Raw, "upi_data": nonEmpty(res.Fields)}
		if rf.output != "" {
			resp["output"] = rf.output
		} else {
			resp["image_data_uri"] = res.DataURI()
		}
		return printJSON(out, resp)
	}
	fmt.Fprintln(out, res.Raw)
	if rf.output != "" {
		fmt.Fprintf(out, "wrote %s (%d bytes)\n", rf.output, len(res.Image))
	}
	return nil
}
