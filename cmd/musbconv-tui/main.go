package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alkatrazstudio/musbconv/internal/config"
	"github.com/alkatrazstudio/musbconv/internal/tui"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFlag string

	cmd := &cobra.Command{
		Use:           "musbconv-tui [flags] [-- ffmpeg args]",
		Short:         "Interactive terminal front-end for musbconv",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var passthrough []string
			if at := cmd.ArgsLenAtDash(); at == 0 {
				passthrough = args
			} else if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q (ffmpeg arguments go after --)", args[0])
			}

			path := configFlag
			if path == "" {
				path = config.DefaultPath()
			}
			settings, err := config.Load(path)
			if err != nil {
				return err
			}
			settings.ApplyFlags(cmd.Flags())
			settings.FfmpegArgs = passthrough

			return tui.Run(settings)
		},
	}

	cmd.Flags().StringVar(&configFlag, "config", "", "path to the settings file")
	config.BindFlags(cmd.Flags())

	return cmd
}
