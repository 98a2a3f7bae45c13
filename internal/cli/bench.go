package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/thesyncim/lc3"
	"github.com/thesyncim/lc3/internal/observe"
	"github.com/thesyncim/lc3/internal/testsignal"
)

// streamResult is the throughput of one benchmark stream.
type streamResult struct {
	Stream    int     `yaml:"stream"`
	Frames    int     `yaml:"frames"`
	Lost      int     `yaml:"lost"`
	Concealed int     `yaml:"concealed"`
	EncodeRT  float64 `yaml:"encode_realtime"`
	DecodeRT  float64 `yaml:"decode_realtime"`
	SNR       float64 `yaml:"snr_db"`
}

type benchReport struct {
	Config  string               `yaml:"config"`
	Signal  string               `yaml:"signal"`
	Seconds float64              `yaml:"seconds"`
	Streams []streamResult       `yaml:"streams"`
	Metrics []observe.SummaryRow `yaml:"metrics"`
}

func (a *app) benchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure encode and decode throughput on parallel streams",
		Long: `Run independent encode/decode streams in parallel over a synthetic signal,
optionally dropping frames, and report realtime factors together with the
recorded codec metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.session()
			if err != nil {
				return err
			}
			seconds := a.v.GetFloat64("seconds")
			streams := a.v.GetInt("streams")
			loss := a.v.GetFloat64("loss")
			switch {
			case seconds <= 0:
				return fmt.Errorf("seconds must be positive, got %v", seconds)
			case streams < 1:
				return fmt.Errorf("streams must be at least 1, got %d", streams)
			case loss < 0 || loss > 1:
				return fmt.Errorf("loss must be in [0, 1], got %v", loss)
			}
			kind := a.v.GetString("signal")
			in, err := signal(kind, cfg, seconds)
			if err != nil {
				return err
			}

			mp, reader, err := observe.NewManualProvider(a.version)
			if err != nil {
				return err
			}
			defer mp.Shutdown(context.Background())
			m, err := observe.NewMetrics(mp)
			if err != nil {
				return err
			}

			report, err := a.bench(cmd.Context(), cfg, in, streams, loss, m)
			if err != nil {
				return err
			}
			report.Signal = kind
			report.Seconds = seconds
			if report.Metrics, err = observe.Summarize(cmd.Context(), reader); err != nil {
				return err
			}
			return writeBench(cmd.OutOrStdout(), a.v.GetString("output"), report)
		},
	}
	sessionFlags(cmd)
	cmd.Flags().String("signal", testsignal.SpeechLike, "signal: "+strings.Join(testsignal.Kinds(), ", "))
	cmd.Flags().Float64("seconds", 2, "signal duration in seconds")
	cmd.Flags().Int("streams", 1, "number of parallel streams")
	cmd.Flags().Float64("loss", 0, "frame loss probability")
	cmd.Flags().Uint64("seed", 1, "seed of the loss pattern")
	cmd.Flags().StringP("output", "o", "text", "output format: text or yaml")
	return cmd
}

func (a *app) bench(ctx context.Context, cfg lc3.SessionConfig, in []float32, streams int, loss float64, m *observe.Metrics) (benchReport, error) {
	enc, err := lc3.NewEncoder(cfg)
	if err != nil {
		return benchReport{}, err
	}
	name := label(cfg)
	channels := max(cfg.Channels, 1)
	seed := a.v.GetUint64("seed")

	results := make([]streamResult, streams)
	g, ctx := errgroup.WithContext(ctx)
	for i := range streams {
		g.Go(func() error {
			attrs := metric.WithAttributes(observe.ConfigAttr(name))
			m.ActiveStreams.Add(ctx, 1, attrs)
			defer m.ActiveStreams.Add(context.Background(), -1, attrs)

			a.logger.Debug("stream started", "stream", i, "config", name)
			res, err := run(ctx, cfg, in, loss, seed+uint64(i), m)
			if err != nil {
				return fmt.Errorf("stream %d: %w", i, err)
			}
			audio := time.Duration(float64(res.Frames) * float64(cfg.FrameDuration) * float64(time.Microsecond))
			r := streamResult{
				Stream:    i,
				Frames:    res.Frames,
				Lost:      res.Lost,
				Concealed: res.Concealed,
				EncodeRT:  realtime(audio, res.Encode),
				DecodeRT:  realtime(audio, res.Decode),
			}
			if loss == 0 {
				r.SNR = measure(in, res.Decoded, enc.Delay(), enc.FrameSamples(), channels).SNR
			}
			results[i] = r
			a.logger.Debug("stream done", "stream", i, "frames", res.Frames, "concealed", res.Concealed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return benchReport{}, err
	}
	a.logger.Info("benchmark complete", "config", name, "streams", streams)
	return benchReport{Config: name, Streams: results}, nil
}

// realtime is the ratio of audio duration to processing time.
func realtime(audio, took time.Duration) float64 {
	if took <= 0 {
		return 0
	}
	return audio.Seconds() / took.Seconds()
}

func writeBench(w io.Writer, output string, r benchReport) error {
	switch output {
	case "yaml":
		return yaml.NewEncoder(w).Encode(r)
	case "text":
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
	fmt.Fprintf(w, "Config: %s, signal %s, %.2fs per stream\n\n", r.Config, r.Signal, r.Seconds)
	fmt.Fprintf(w, "%-7s %7s %6s %9s %11s %11s %9s\n", "Stream", "Frames", "Lost", "Conceal", "Encode RT", "Decode RT", "SNR (dB)")
	for _, s := range r.Streams {
		fmt.Fprintf(w, "%-7d %7d %6d %9d %10.1fx %10.1fx %9.2f\n",
			s.Stream, s.Frames, s.Lost, s.Concealed, s.EncodeRT, s.DecodeRT, s.SNR)
	}
	if len(r.Metrics) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\n%-26s %-22s %8s %12s %12s\n", "Metric", "Attributes", "Count", "Mean", "Max")
	for _, row := range r.Metrics {
		fmt.Fprintf(w, "%-26s %-22s %8d %12.4g %12.4g\n", row.Name, row.Attributes, row.Count, row.Mean, row.Max)
	}
	return nil
}
