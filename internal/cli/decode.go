package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/upiqr"
	"github.com/dmitrymomot/upiqr/pkg/qrcode"
)

func newDecodeCmd(g *globals) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "decode <image>",
		Short: "Print the payload of a QR code image",
		Long: `Decode a PNG, JPEG, GIF, BMP or WebP image and print its payload.
UPI payment strings are broken down into fields; other payloads are
printed as-is.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			log := g.logger()
			decOpts := []qrcode.DecoderOption{qrcode.WithDecoderLogger(log)}
			if strict {
				decOpts = append(decOpts, qrcode.WithStrictDecoding())
			}
			svc := upiqr.New(upiqr.WithLogger(log), upiqr.WithDecoder(qrcode.NewDecoder(decOpts...)))

			scan, err := svc.Inspect(cmd.Context(), img)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if g.json {
				resp := map[string]any{"raw_data": scan.Raw, "is_upi": scan.IsUPI}
				if scan.IsUPI {
					resp["upi_data"] = nonEmpty(scan.Fields)
				}
				return printJSON(out, resp)
			}

			fmt.Fprintln(out, scan.Raw)
			if scan.IsUPI {
				fmt.Fprintln(out)
				printFields(out, scan.Fields)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail when the image holds several different QR codes")
	return cmd
}
