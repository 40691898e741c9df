package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/jpfielding/jpegls.go/pkg/compress/jpegls"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func addPresetFlags(fs *pflag.FlagSet) {
	fs.Int("sample-max", 0, "MAXVAL override (0 = from bit depth)")
	fs.Int("t1", 0, "T1 override (0 = default)")
	fs.Int("t2", 0, "T2 override (0 = default)")
	fs.Int("t3", 0, "T3 override (0 = default)")
	fs.Int("reset", 0, "RESET override (0 = default)")
}

func presetFromFlags(fs *pflag.FlagSet) jpegls.PresetCodingParameters {
	var p jpegls.PresetCodingParameters
	p.MaximumSampleValue, _ = fs.GetInt("sample-max")
	p.Threshold1, _ = fs.GetInt("t1")
	p.Threshold2, _ = fs.GetInt("t2")
	p.Threshold3, _ = fs.GetInt("t3")
	p.ResetValue, _ = fs.GetInt("reset")
	return p
}

// maxComponentValue reads --maxval, falling back to 2^bits-1.
func maxComponentValue(fs *pflag.FlagSet) (int, error) {
	maxVal, _ := fs.GetInt("maxval")
	if maxVal == 0 {
		bits, _ := fs.GetInt("bits")
		if bits < 2 || bits > 16 {
			return 0, fmt.Errorf("%w: bits per sample %d", jpegls.ErrInvalidParameters, bits)
		}
		maxVal = 1<<bits - 1
	}
	if maxVal < 1 || maxVal > jpegls.MaximumComponentValue {
		return 0, fmt.Errorf("%w: maximum sample value %d", jpegls.ErrInvalidParameters, maxVal)
	}
	return maxVal, nil
}

type presetOutput struct {
	MaxVal int `json:"maxVal"`
	Near   int `json:"near"`
	T1     int `json:"t1"`
	T2     int `json:"t2"`
	T3     int `json:"t3"`
	Reset  int `json:"reset"`
}

func printPreset(w io.Writer, format string, p jpegls.PresetCodingParameters, near int) error {
	switch format {
	case "json":
		return json.NewEncoder(w).Encode(presetOutput{
			MaxVal: p.MaximumSampleValue,
			Near:   near,
			T1:     p.Threshold1,
			T2:     p.Threshold2,
			T3:     p.Threshold3,
			Reset:  p.ResetValue,
		})
	default:
		_, err := fmt.Fprintf(w, "%v NEAR=%d\n", p, near)
		return err
	}
}

// NewDefaultsCmd prints the default thresholds for a sample range and NEAR
func NewDefaultsCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "print the default preset coding parameters",
		Long:  "Computes T1, T2, T3 and RESET as defined by ISO/IEC 14495-1 C.2.4.1.1.1 for a MAXVAL and NEAR.",
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			maxVal, err := maxComponentValue(fs)
			if err != nil {
				return err
			}
			near, _ := fs.GetInt("near")
			if near < 0 || near > jpegls.MaximumNearLossless(maxVal) {
				return fmt.Errorf("%w: near lossless %d (maximum %d)", jpegls.ErrInvalidParameters, near, jpegls.MaximumNearLossless(maxVal))
			}

			p := jpegls.ComputeDefault(maxVal, near)
			slog.DebugContext(ctx, "computed default preset", slog.String("preset", p.String()), slog.Int("near", near))
			format, _ := fs.GetString("format")
			return printPreset(cmd.OutOrStdout(), format, p, near)
		},
	}
	pf := cmd.Flags()
	pf.Int("maxval", 0, "maximum sample value (0 = from --bits)")
	pf.Int("bits", 8, "bits per sample")
	pf.Int("near", 0, "allowed lossy error (NEAR)")
	pf.StringP("format", "f", "text", "output format (text|json)")
	return cmd
}

// NewValidateCmd checks preset overrides against Table C.1
func NewValidateCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "validate preset coding parameter overrides",
		Long:  "Checks T1, T2, T3, RESET and MAXVAL overrides against ISO/IEC 14495-1 Table C.1 and prints the resolved set.",
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			maxVal, err := maxComponentValue(fs)
			if err != nil {
				return err
			}
			near, _ := fs.GetInt("near")
			override := presetFromFlags(fs)

			resolved, err := override.Resolve(maxVal, near)
			if err != nil {
				slog.WarnContext(ctx, "rejected preset override", slog.String("override", override.String()), slog.Any("error", err))
				return err
			}
			format, _ := fs.GetString("format")
			return printPreset(cmd.OutOrStdout(), format, resolved, near)
		},
	}
	pf := cmd.Flags()
	pf.Int("maxval", 0, "maximum component value (0 = from --bits)")
	pf.Int("bits", 8, "bits per sample")
	pf.Int("near", 0, "allowed lossy error (NEAR)")
	pf.StringP("format", "f", "text", "output format (text|json)")
	addPresetFlags(pf)
	return cmd
}
