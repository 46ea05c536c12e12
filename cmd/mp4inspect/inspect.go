package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/ugparu/mp4atom/codec/h264"
	"github.com/ugparu/mp4atom/codec/h265"
	"github.com/ugparu/mp4atom/format/mp4/mp4io"
)

func (a *app) treeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree <file>",
		Short: "Print the atom tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dmx, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer dmx.Close()

			nodes, err := dmx.Tree()
			if err != nil {
				return err
			}
			if a.asJSON {
				return a.printJSON(cmd.OutOrStdout(), nodes)
			}
			mp4io.FprintAtoms(cmd.OutOrStdout(), nodes)
			return nil
		},
	}
}

func (a *app) tracksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tracks <file>",
		Short: "List tracks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dmx, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer dmx.Close()

			out := cmd.OutOrStdout()
			if a.asJSON {
				infos := make([]any, 0, len(dmx.Streams()))
				for _, s := range dmx.Streams() {
					infos = append(infos, s.Info())
				}
				return a.printJSON(out, infos)
			}
			fmt.Fprintf(out, "duration %v\n", dmx.Duration())
			for _, s := range dmx.Streams() {
				info := s.Info()
				fmt.Fprintf(out, "track %d: %s %s, %d samples, %v, scale %d",
					info.TrackID, info.Handler, info.Format, info.Samples, info.Duration, info.TimeScale)
				switch {
				case info.Width > 0:
					fmt.Fprintf(out, ", %dx%d", info.Width, info.Height)
				case info.Channels > 0:
					fmt.Fprintf(out, ", %d ch %g Hz", info.Channels, info.SampleRate)
				}
				if info.Language != "" {
					fmt.Fprintf(out, ", %s", info.Language)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

func (a *app) locateCmd() *cobra.Command {
	var (
		track uint32
		at    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "locate <file>",
		Short: "Find the sample presented at a given time",
		Long: `Find the sample presented at a given time.

Examples:
  # Sample of track 1 shown at 1.5s
  mp4inspect locate movie.mp4 --track 1 --time 1.5s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dmx, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer dmx.Close()

			loc, err := dmx.Locate(track, at)
			if err != nil {
				return err
			}
			if a.asJSON {
				return a.printJSON(cmd.OutOrStdout(), loc)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sample %d: chunk %d at %d, offset %d, size %d, dts %d, sync %t\n",
				loc.Sample, loc.Chunk, loc.ChunkOffset, loc.Offset, loc.Size, loc.DecodeTime, loc.Sync)
			return nil
		},
	}
	cmd.Flags().Uint32Var(&track, "track", 1, "track id")
	cmd.Flags().DurationVar(&at, "time", 0, "presentation time")
	return cmd
}

func (a *app) sampleCmd() *cobra.Command {
	var (
		track  uint32
		number uint32
		nalus  bool
	)
	cmd := &cobra.Command{
		Use:   "sample <file>",
		Short: "Dump one sample",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dmx, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer dmx.Close()

			s, err := dmx.Stream(track)
			if err != nil {
				return err
			}
			smp, err := dmx.ReadSampleAt(s, number)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "sample %d of track %d: %d bytes at %d, dts %v, pts %v, key %t\n",
				smp.Number, smp.TrackID, len(smp.Data), smp.Offset, smp.DecodeTime, smp.Presentation, smp.KeyFrame)
			if !nalus {
				fmt.Fprintf(out, "% x\n", smp.Data)
				return nil
			}
			units, err := s.SplitSample(smp.Data)
			if err != nil {
				return err
			}
			for i, u := range units {
				typ := h264.NALUType(u)
				if s.HEVCRecord != nil {
					typ = h265.NALUType(u)
				}
				fmt.Fprintf(out, "nalu %d: type %d, %d bytes\n", i, typ, len(u))
			}
			return nil
		},
	}
	cmd.Flags().Uint32Var(&track, "track", 1, "track id")
	cmd.Flags().Uint32Var(&number, "sample", 1, "sample number, starting at 1")
	cmd.Flags().BoolVar(&nalus, "nalus", false, "split an AVC sample into NAL units")
	return cmd
}
