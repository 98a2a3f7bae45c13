package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thesyncim/lc3"
	"github.com/thesyncim/lc3/internal/testsignal"
)

// Quality thresholds for pass/fail determination.
const (
	snrThreshold  = 10.0 // dB
	corrThreshold = 0.9
)

// matrixEntry is one session of the quality matrix.
type matrixEntry struct {
	Name string
	Cfg  lc3.SessionConfig
}

var qualityMatrix = []matrixEntry{
	{"NB 7.5ms 24kbps", lc3.SessionConfig{FrameDuration: 7500, SampleRate: 8000, Bitrate: 24000}},
	{"WB 10ms 32kbps", lc3.SessionConfig{FrameDuration: 10000, SampleRate: 16000, Bitrate: 32000}},
	{"SWB 10ms 48kbps", lc3.SessionConfig{FrameDuration: 10000, SampleRate: 32000, Bitrate: 48000}},
	{"FB 10ms 64kbps stereo", lc3.SessionConfig{FrameDuration: 10000, SampleRate: 48000, Channels: 2, Bitrate: 64000}},
	{"FB 5ms 96kbps", lc3.SessionConfig{FrameDuration: 5000, SampleRate: 48000, Bitrate: 96000}},
	{"FB 2.5ms 128kbps", lc3.SessionConfig{FrameDuration: 2500, SampleRate: 48000, Bitrate: 128000}},
	{"HR 10ms 256kbps", lc3.SessionConfig{FrameDuration: 10000, SampleRate: 96000, HighResolution: true, Format: lc3.PCMFormatS24, Bitrate: 256000}},
}

// matrixRow is one (session, signal) result.
type matrixRow struct {
	Config  string  `yaml:"config"`
	Signal  string  `yaml:"signal"`
	Quality quality `yaml:",inline"`
	Pass    bool    `yaml:"pass"`
}

func (a *app) roundtripCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roundtrip",
		Short: "Encode and decode synthetic signals and report quality",
		Long: `Encode and decode a synthetic signal and report SNR, correlation and peak
error. With --all a matrix of sessions and signals is run and each result
is checked against fixed thresholds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds := a.v.GetFloat64("seconds")
			if seconds <= 0 {
				return fmt.Errorf("seconds must be positive, got %v", seconds)
			}
			w := cmd.OutOrStdout()
			if a.v.GetBool("all") {
				rows, err := a.runMatrix(cmd, seconds)
				if err != nil {
					return err
				}
				return writeMatrix(w, a.v.GetString("output"), rows)
			}

			cfg, err := a.session()
			if err != nil {
				return err
			}
			kind := a.v.GetString("signal")
			in, err := signal(kind, cfg, seconds)
			if err != nil {
				return err
			}
			res, err := run(cmd.Context(), cfg, in, 0, 1, nil)
			if err != nil {
				return fmt.Errorf("roundtrip: %w", err)
			}
			enc, _ := lc3.NewEncoder(cfg)
			q := measure(in, res.Decoded, enc.Delay(), enc.FrameSamples(), max(cfg.Channels, 1))
			a.logger.Debug("roundtrip done", "config", label(cfg), "signal", kind, "frames", res.Frames)
			return writeQuality(w, a.v.GetString("output"), label(cfg), kind, q)
		},
	}
	sessionFlags(cmd)
	cmd.Flags().Float64("seconds", 1, "signal duration in seconds")
	cmd.Flags().String("signal", testsignal.SpeechLike, "signal: "+strings.Join(testsignal.Kinds(), ", "))
	cmd.Flags().Bool("all", false, "run the quality matrix")
	cmd.Flags().StringP("output", "o", "text", "output format: text or yaml")
	return cmd
}

func (a *app) runMatrix(cmd *cobra.Command, seconds float64) ([]matrixRow, error) {
	var rows []matrixRow
	for _, e := range qualityMatrix {
		enc, err := lc3.NewEncoder(e.Cfg)
		if err != nil {
			return nil, err
		}
		for _, kind := range []string{testsignal.Sine, testsignal.ChirpSweep, testsignal.SpeechLike} {
			in, err := signal(kind, e.Cfg, seconds)
			if err != nil {
				return nil, err
			}
			res, err := run(cmd.Context(), e.Cfg, in, 0, 1, nil)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", e.Name, kind, err)
			}
			q := measure(in, res.Decoded, enc.Delay(), enc.FrameSamples(), max(e.Cfg.Channels, 1))
			rows = append(rows, matrixRow{
				Config:  e.Name,
				Signal:  kind,
				Quality: q,
				Pass:    q.SNR > snrThreshold && math.Abs(q.Correlation) > corrThreshold,
			})
			a.logger.Debug("matrix entry", "config", e.Name, "signal", kind, "snr_db", q.SNR)
		}
	}
	return rows, nil
}

func writeMatrix(w io.Writer, output string, rows []matrixRow) error {
	switch output {
	case "yaml":
		return yaml.NewEncoder(w).Encode(rows)
	case "text":
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
	fmt.Fprintf(w, "Thresholds: SNR > %.0f dB, Correlation > %.1f\n\n", snrThreshold, corrThreshold)
	fmt.Fprintf(w, "%-25s %-14s %9s %8s %10s %6s\n", "Config", "Signal", "SNR (dB)", "Corr", "Peak Err", "Status")
	passed := 0
	for _, r := range rows {
		status := "FAIL"
		if r.Pass {
			status = "PASS"
			passed++
		}
		fmt.Fprintf(w, "%-25s %-14s %9.2f %8.4f %10.6f %6s\n",
			r.Config, r.Signal, r.Quality.SNR, r.Quality.Correlation, r.Quality.PeakError, status)
	}
	fmt.Fprintf(w, "\nSummary: %d/%d passed\n", passed, len(rows))
	return nil
}

func writeQuality(w io.Writer, output, config, kind string, q quality) error {
	switch output {
	case "yaml":
		return yaml.NewEncoder(w).Encode(matrixRow{Config: config, Signal: kind, Quality: q, Pass: q.SNR > snrThreshold})
	case "text":
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
	fmt.Fprintf(w, "--- Quality Report: %s, %s ---\n", config, kind)
	fmt.Fprintf(w, "  SNR:              %8.2f dB\n", q.SNR)
	fmt.Fprintf(w, "  Correlation:      %8.4f\n", q.Correlation)
	fmt.Fprintf(w, "  Peak Error:       %8.6f\n", q.PeakError)
	fmt.Fprint(w, "Assessment: ")
	switch {
	case q.SNR > 30:
		fmt.Fprintln(w, "Excellent (transparent)")
	case q.SNR > 20:
		fmt.Fprintln(w, "Good (minor artifacts)")
	case q.SNR > 10:
		fmt.Fprintln(w, "Fair (noticeable artifacts)")
	case q.SNR > 0:
		fmt.Fprintln(w, "Poor (significant distortion)")
	default:
		fmt.Fprintln(w, "Very poor (severe distortion)")
	}
	return nil
}
