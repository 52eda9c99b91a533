package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/upiqr"
	"github.com/dmitrymomot/upiqr/pkg/upi"
)

func newModifyCmd(g *globals) *cobra.Command {
	var (
		ff        fieldFlags
		rf        renderFlags
		clearKeys []string
	)

	cmd := &cobra.Command{
		Use:   "modify <image>",
		Short: "Rewrite a UPI QR code with changed fields",
		Long: `Decode a UPI QR code, apply the given fields and render a new code.
Fields not given keep their decoded value. Passing an empty value
(--tn "") or naming the field in --clear removes it.`,
		Example: `  upiqr modify shop.png --am 200 --tn "New note" -o shop-200.png
  upiqr modify shop.png --clear tn,am -o open-amount.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			req, err := ff.fieldSet(cmd.Flags())
			if err != nil {
				return err
			}
			for _, key := range clearKeys {
				key = strings.TrimSpace(key)
				if f, ok := upi.Lookup(key); ok {
					req.SetField(f, upi.Some(""))
				} else if key != "" {
					req.Set(key, "")
				}
			}
			opts, err := rf.options()
			if err != nil {
				return err
			}

			res, err := upiqr.New(upiqr.WithLogger(g.logger())).Modify(cmd.Context(), img, req, opts)
			if err != nil {
				return err
			}
			if err := rf.write(cmd, res.Image); err != nil {
				return err
			}
			return report(cmd, g, rf, res, "new_upi_string")
		},
	}

	ff.register(cmd.Flags())
	rf.register(cmd.Flags())
	cmd.Flags().StringSliceVar(&clearKeys, "clear", nil, "fields to remove, by code or name (comma separated)")
	return cmd
}
