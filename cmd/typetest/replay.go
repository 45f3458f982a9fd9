package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typetest/internal/replay"
)

var (
	replayText   string
	replayKeys   string
	replayStep   time.Duration
	replayFormat string
)

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Type a key script against a text and print the results",
		Long: `Replay feeds a comma separated key script into a fresh session.

Keys are single characters or <space>, <comma>, <at> and <bs> (backspace).
A key may carry an offset from the first key, e.g. "c,a@1.5s,t@2s".
Keys without an offset follow the previous key by --step.`,
		Args: cobra.NoArgs,
		RunE: runReplayCmd,
	}
	cmd.Flags().StringVar(&replayText, "text", "", "target text")
	cmd.Flags().StringVar(&replayKeys, "keys", "", "key script")
	cmd.Flags().DurationVar(&replayStep, "step", replay.DefaultStep, "delay between keys without an offset")
	cmd.Flags().StringVar(&replayFormat, "format", string(replay.FormatText), "output format: text, json or yaml")
	_ = cmd.MarkFlagRequired("text")
	_ = cmd.MarkFlagRequired("keys")
	return cmd
}

func runReplayCmd(cmd *cobra.Command, _ []string) error {
	format, err := replay.ParseFormat(replayFormat)
	if err != nil {
		return fmt.Errorf("--format: %w", err)
	}
	if replayStep < 0 {
		return fmt.Errorf("--step must be >= 0")
	}
	steps, err := replay.ParseScript(replayKeys)
	if err != nil {
		return fmt.Errorf("--keys: %w", err)
	}
	res, err := replay.Run(replayText, steps, replayStep)
	if err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}
	return replay.Write(cmd.OutOrStdout(), res, format)
}
