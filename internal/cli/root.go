// Package cli implements the lc3 command line tool: session inspection,
// synthetic round trip quality checks and throughput benchmarks.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thesyncim/lc3"
)

// app carries the state shared by the subcommands.
type app struct {
	v       *viper.Viper
	version string
	logger  *slog.Logger
}

// NewRootCommand returns the lc3 command tree. Flags may also be set with
// LC3_* environment variables (LC3_BITRATE, LC3_FRAME_DURATION, ...) or a
// YAML/TOML/JSON file passed with --config.
func NewRootCommand(version string) *cobra.Command {
	a := &app{v: viper.New(), version: version}
	a.v.SetEnvPrefix("LC3")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "lc3",
		Short:         "Inspect and benchmark the lc3 audio codec",
		Long:          `lc3 reports session geometry and measures the quality and speed of the codec on synthetic signals.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			if path := a.v.GetString("config"); path != "" {
				a.v.SetConfigFile(path)
				if err := a.v.ReadInConfig(); err != nil {
					return fmt.Errorf("read config %q: %w", path, err)
				}
			}
			logger, err := newLogger(cmd.ErrOrStderr(), a.v.GetString("log-level"))
			if err != nil {
				return err
			}
			a.logger = logger
			logger.Debug("configuration loaded", "config_file", a.v.ConfigFileUsed())
			return nil
		},
	}
	root.PersistentFlags().String("config", "", "configuration file")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")
	if err := a.v.BindPFlags(root.PersistentFlags()); err != nil {
		panic("cli: " + err.Error())
	}

	root.AddCommand(a.infoCommand(), a.roundtripCommand(), a.benchCommand(), a.versionCommand())
	return root
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// sessionFlags registers the flags describing a SessionConfig.
func sessionFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("frame-duration", 10000, "frame duration in µs: 2500, 5000, 7500 or 10000")
	f.Int("sample-rate", 48000, "codec sample rate in Hz")
	f.Int("pcm-sample-rate", 0, "PCM sample rate in Hz (0: codec rate)")
	f.Int("channels", 1, "number of channels")
	f.Int("bitrate", 64000, "bitrate per channel in bps")
	f.Bool("hr", false, "high-resolution mode")
	f.String("format", "s16", "PCM format: s16, s24, s24_3 or float")
}

// session assembles the SessionConfig from the bound flags.
func (a *app) session() (lc3.SessionConfig, error) {
	format, err := parseFormat(a.v.GetString("format"))
	if err != nil {
		return lc3.SessionConfig{}, err
	}
	cfg := lc3.SessionConfig{
		FrameDuration:  a.v.GetInt("frame-duration"),
		SampleRate:     a.v.GetInt("sample-rate"),
		PCMSampleRate:  a.v.GetInt("pcm-sample-rate"),
		Format:         format,
		Channels:       a.v.GetInt("channels"),
		HighResolution: a.v.GetBool("hr"),
		Bitrate:        a.v.GetInt("bitrate"),
	}
	if err := cfg.Validate(); err != nil {
		return lc3.SessionConfig{}, fmt.Errorf("session: %w", err)
	}
	return cfg, nil
}

func parseFormat(s string) (lc3.PCMFormat, error) {
	switch strings.ToLower(s) {
	case "s16", "s16_le":
		return lc3.PCMFormatS16, nil
	case "s24", "s24_le":
		return lc3.PCMFormatS24, nil
	case "s24_3", "s24_3le":
		return lc3.PCMFormatS24Packed, nil
	case "float", "float_le":
		return lc3.PCMFormatFloat, nil
	}
	return 0, fmt.Errorf("%w: %q", lc3.ErrInvalidFormat, s)
}

// label names a session in logs and metric attributes.
func label(cfg lc3.SessionConfig) string {
	s := fmt.Sprintf("%dHz/%dus", cfg.SampleRate, cfg.FrameDuration)
	if cfg.HighResolution {
		s += "/hr"
	}
	return s
}
