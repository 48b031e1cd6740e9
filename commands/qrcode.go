package commands

import (
	"fmt"
	"os"

	"rta-backend/services"

	"github.com/spf13/cobra"
)

func newQRCodeCommand() *cobra.Command {
	var (
		out    string
		width  int
		margin int
		level  string
	)
	cmd := &cobra.Command{
		Use:   "qrcode [text]",
		Short: "write a QR code PNG, e.g. for a table or a menu link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			png, err := services.NewQRCodeService().PNG(args[0], services.QROptions{
				ErrorCorrectionLevel: level,
				Width:                width,
				Margin:               &margin,
			})
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, png, 0o644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "QR code written to", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "qrcode.png", "output file")
	cmd.Flags().IntVar(&width, "width", 256, "image width in pixels")
	cmd.Flags().IntVar(&margin, "margin", 1, "quiet zone in modules")
	cmd.Flags().StringVar(&level, "level", "M", "error correction level: L, M, Q or H")
	return cmd
}
