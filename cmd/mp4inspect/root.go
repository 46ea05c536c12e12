package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/ugparu/mp4atom/format/mp4"
	"github.com/ugparu/mp4atom/internal/config"
	"github.com/ugparu/mp4atom/utils/logger"
)

// app is the state shared by every command of one invocation.
type app struct {
	configPath string
	asJSON     bool
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "mp4inspect",
		Short: "Inspect MP4 and QuickTime movie files",
		Long: `mp4inspect reads the atom structure of MP4 and QuickTime files without
loading them into memory. Atoms are parsed only when a command needs them.

Commands:
  tree      Print the atom tree
  tracks    List tracks and their sample counts
  locate    Find the sample presented at a given time
  sample    Dump one sample
  serve     Serve the same views over HTTP`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: mp4inspect.yaml in ., $HOME/.mp4inspect, /etc/mp4inspect)")
	flags.String("log-level", "info", "log level (trace, debug, info, warning, error)")
	flags.Uint32("max-sample-bytes", config.DefaultMaxSampleBytes, "largest sample payload to read")
	flags.BoolVar(&a.asJSON, "json", false, "print JSON instead of text")

	root.AddCommand(
		a.treeCmd(),
		a.tracksCmd(),
		a.locateCmd(),
		a.sampleCmd(),
		a.serveCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(config.New(), a.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	lvl, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.SetOutput(cmd.ErrOrStderr())
	logger.Init(lvl)
	a.cfg = cfg
	return nil
}

// open demuxes the file at path. The caller closes the demuxer.
func (a *app) open(path string) (*mp4.Demuxer, error) {
	dmx := mp4.NewDemuxer(path, mp4.WithMaxSampleSize(a.cfg.MaxSampleBytes))
	if _, err := dmx.Demux(); err != nil {
		_ = dmx.Close()
		return nil, err
	}
	return dmx, nil
}

func (a *app) printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
