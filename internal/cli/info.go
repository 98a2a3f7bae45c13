package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thesyncim/lc3"
	"github.com/thesyncim/lc3/internal/tables"
)

// Info describes the geometry of one session.
type Info struct {
	FrameDurationUs   int    `yaml:"frame_duration_us"`
	SampleRateHz      int    `yaml:"sample_rate_hz"`
	PCMSampleRateHz   int    `yaml:"pcm_sample_rate_hz"`
	HighResolution    bool   `yaml:"high_resolution"`
	Format            string `yaml:"format"`
	Channels          int    `yaml:"channels"`
	FrameSamples      int    `yaml:"frame_samples"`
	FrameBytes        int    `yaml:"frame_bytes"`
	EffectiveBitrate  int    `yaml:"effective_bitrate"`
	PCMBlockBytes     int    `yaml:"pcm_block_bytes"`
	DelaySamples      int    `yaml:"delay_samples"`
	EncoderStateBytes int    `yaml:"encoder_state_bytes"`
	DecoderStateBytes int    `yaml:"decoder_state_bytes"`
}

func describe(cfg lc3.SessionConfig) (Info, error) {
	enc, err := lc3.NewEncoder(cfg)
	if err != nil {
		return Info{}, err
	}
	encSize, err := lc3.HREncoderSize(cfg.HighResolution, cfg.FrameDuration, cfg.SampleRate)
	if err != nil {
		return Info{}, err
	}
	decSize, err := lc3.HRDecoderSize(cfg.HighResolution, cfg.FrameDuration, cfg.SampleRate)
	if err != nil {
		return Info{}, err
	}
	pcmRate := cfg.PCMSampleRate
	if pcmRate == 0 {
		pcmRate = cfg.SampleRate
	}
	channels := max(cfg.Channels, 1)
	return Info{
		FrameDurationUs:   cfg.FrameDuration,
		SampleRateHz:      cfg.SampleRate,
		PCMSampleRateHz:   pcmRate,
		HighResolution:    cfg.HighResolution,
		Format:            cfg.Format.String(),
		Channels:          channels,
		FrameSamples:      enc.FrameSamples(),
		FrameBytes:        enc.FrameBytes(),
		EffectiveBitrate:  lc3.ResolveBitrate(cfg.FrameDuration, enc.FrameBytes()),
		PCMBlockBytes:     enc.PCMBlockBytes(),
		DelaySamples:      enc.Delay(),
		EncoderStateBytes: encSize,
		DecoderStateBytes: decSize,
	}, nil
}

func (a *app) infoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print the geometry of a session",
		Long: `Print frame samples, frame bytes, latency and state sizes of a session.
With --all every supported duration and rate is listed at the given bitrate.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var infos []Info
			if a.v.GetBool("all") {
				for _, c := range tables.Configs() {
					cfg := lc3.SessionConfig{
						FrameDuration:  c.DurationUs,
						SampleRate:     c.SampleRate,
						HighResolution: c.HighResolution,
						Bitrate:        a.v.GetInt("bitrate"),
					}
					info, err := describe(cfg)
					if err != nil {
						return err
					}
					infos = append(infos, info)
				}
			} else {
				cfg, err := a.session()
				if err != nil {
					return err
				}
				info, err := describe(cfg)
				if err != nil {
					return err
				}
				infos = append(infos, info)
			}
			return writeInfos(cmd.OutOrStdout(), a.v.GetString("output"), infos)
		},
	}
	sessionFlags(cmd)
	cmd.Flags().Bool("all", false, "list every supported configuration")
	cmd.Flags().StringP("output", "o", "text", "output format: text or yaml")
	return cmd
}

func writeInfos(w io.Writer, output string, infos []Info) error {
	switch output {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if len(infos) == 1 {
			if err := enc.Encode(infos[0]); err != nil {
				return err
			}
		} else if err := enc.Encode(infos); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "DURATION\tRATE\tHR\tSAMPLES\tBYTES\tBITRATE\tDELAY\tENC STATE\tDEC STATE")
		for _, in := range infos {
			fmt.Fprintf(tw, "%dus\t%dHz\t%v\t%d\t%d\t%d\t%d\t%d\t%d\n",
				in.FrameDurationUs, in.SampleRateHz, in.HighResolution, in.FrameSamples,
				in.FrameBytes, in.EffectiveBitrate, in.DelaySamples, in.EncoderStateBytes, in.DecoderStateBytes)
		}
		return tw.Flush()
	}
	return fmt.Errorf("unknown output format %q", output)
}
