package cmd

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/jpfielding/jpegls.go/pkg/compress/jpegls"
	"github.com/jpfielding/jpegls.go/pkg/compress/jpegls/dicomparams"
	"github.com/jpfielding/jpegls.go/pkg/util"
	"github.com/spf13/cobra"
)

// NewHeaderCmd writes the marker segments of a JPEG-LS header
func NewHeaderCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "header",
		Short: "write a JPEG-LS header",
		Long:  "Writes SOI, the optional JFIF APP0, SOF55, the optional APP8 color transform and LSE preset parameters, and the first SOS.",
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			width, _ := fs.GetInt("width")
			height, _ := fs.GetInt("height")
			bits, _ := fs.GetInt("bits")
			components, _ := fs.GetInt("components")
			near, _ := fs.GetInt("near")
			ilv, _ := fs.GetInt("ilv")
			transform, _ := fs.GetInt("transform")
			out, _ := fs.GetString("out")
			asHex, _ := fs.GetBool("hex")

			params := dicomparams.New()
			params.Near = near
			params.Interleave = jpegls.InterleaveMode(ilv)
			params.ColorTransform = jpegls.ColorTransformation(transform)
			params.Preset = presetFromFlags(fs)

			h, err := params.Header(jpegls.FrameInfo{
				Width:          width,
				Height:         height,
				BitsPerSample:  bits,
				ComponentCount: components,
			})
			if err != nil {
				return err
			}
			if jfif, _ := fs.GetBool("jfif"); jfif {
				density, _ := fs.GetInt("density")
				units, _ := fs.GetInt("units")
				h.JFIF = &jpegls.JFIFParameters{
					Version:  0x0102,
					Units:    jpegls.DensityUnits(units),
					XDensity: density,
					YDensity: density,
				}
			}

			var buf bytes.Buffer
			if err := jpegls.WriteHeader(&buf, h); err != nil {
				return err
			}
			coding, err := h.CodingParameters()
			if err != nil {
				return err
			}
			slog.DebugContext(ctx, "regular mode contexts",
				slog.Any("quantizer", jpegls.NewGradientQuantizer(coding, h.Scan.AllowedLossyError)))

			w, err := stdoutOr(cmd, out)
			if err != nil {
				return err
			}
			defer w.Close()
			if asHex {
				_, err = fmt.Fprintln(w, hex.EncodeToString(buf.Bytes()))
			} else {
				_, err = w.Write(buf.Bytes())
			}
			if err != nil {
				return err
			}

			slog.InfoContext(ctx, "wrote JPEG-LS header",
				slog.String("id", util.HashUUID(h)),
				slog.Int("bytes", buf.Len()),
				slog.String("preset", coding.String()),
				slog.String("transferSyntax", params.TransferSyntax().UID().UID()),
			)
			return nil
		},
	}
	pf := cmd.Flags()
	pf.Int("width", 0, "image width (X)")
	pf.Int("height", 0, "image height (Y)")
	pf.Int("bits", 8, "bits per sample (2-16)")
	pf.Int("components", 1, "component count (1-254)")
	pf.Int("near", 0, "allowed lossy error (NEAR)")
	pf.Int("ilv", 0, "interleave mode (0 none, 1 line, 2 sample)")
	pf.Int("transform", 0, "HP color transformation (0 none, 1-3)")
	pf.Bool("jfif", false, "write a JFIF APP0 segment")
	pf.Int("density", 1, "JFIF pixel density")
	pf.Int("units", 0, "JFIF density units (0 aspect, 1 dpi, 2 dpcm)")
	pf.StringP("out", "o", "-", "output file, - for stdout")
	pf.Bool("hex", false, "write hex instead of raw bytes")
	addPresetFlags(pf)
	return cmd
}
