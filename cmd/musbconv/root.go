package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alkatrazstudio/musbconv/internal/config"
	"github.com/alkatrazstudio/musbconv/internal/convert"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1A3"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8DADC"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D"))
)

func newRootCommand() *cobra.Command {
	var configFlag string

	cmd := &cobra.Command{
		Use:   "musbconv [flags] [-- ffmpeg args]",
		Short: "Batch music conversion via ffmpeg",
		Long: "musbconv converts batches of audio files to MP3 or Ogg Vorbis.\n" +
			"Tags are carried over from the source files and their CUE sheets,\n" +
			"output paths come from a filename template, and all transcoding is\n" +
			"delegated to ffmpeg.\n\n" +
			"Arguments after -- are passed to ffmpeg in front of the output path.",
		Example: "  musbconv --input-dir ~/rips --output-dir ~/music\n" +
			"  musbconv --input-dir ~/rips --output-dir ~/music --output-ext ogg --playlist\n" +
			"  musbconv --input-dir ~/rips --output-dir ~/music -- -af loudnorm",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			passthrough, err := passthroughArgs(cmd.ArgsLenAtDash(), args)
			if err != nil {
				return err
			}
			settings, err := loadSettings(cmd.Flags(), configFlag)
			if err != nil {
				return err
			}
			settings.FfmpegArgs = passthrough
			return runBatch(cmd.Context(), settings)
		},
	}

	cmd.Flags().StringVar(&configFlag, "config", "", "path to the settings file")
	config.BindFlags(cmd.Flags())

	return cmd
}

// passthroughArgs validates the positional arguments and returns the
// ffmpeg passthrough portion after "--".
func passthroughArgs(argsLenAtDash int, args []string) ([]string, error) {
	if argsLenAtDash != 0 && len(args) > 0 {
		return nil, fmt.Errorf("unexpected argument %q (ffmpeg arguments go after --)", args[0])
	}
	if argsLenAtDash == -1 {
		return nil, nil
	}
	return args, nil
}

// loadSettings layers the configuration: built-in defaults, then the
// settings file, then explicitly set flags.
func loadSettings(flags *pflag.FlagSet, configPath string) (*config.Settings, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	settings.ApplyFlags(flags)
	return settings, nil
}

func runBatch(ctx context.Context, settings *config.Settings) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manager, err := convert.NewManager(settings, printEvent(settings.Verbose))
	if err != nil {
		return err
	}
	if err := manager.Initialize(ctx); err != nil {
		return err
	}

	report, err := manager.Run(ctx)
	if err != nil {
		return err
	}

	printReport(os.Stdout, settings.OutputDir, report)

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d conversions failed", report.Failed, report.Total())
	}
	return nil
}

// printEvent formats manager progress for the terminal, one line per
// event. Verbose lines are dropped unless asked for.
func printEvent(verbose bool) func(convert.ProgressEvent) {
	return func(event convert.ProgressEvent) {
		if event.Level == convert.LevelVerbose && !verbose {
			return
		}
		switch event.Level {
		case convert.LevelError:
			fmt.Println(errorStyle.Render("✗") + " " + event.Message)
		case convert.LevelWarning:
			fmt.Println(warningStyle.Render("!") + " " + event.Message)
		case convert.LevelSuccess:
			fmt.Println(successStyle.Render("✓") + " " + event.Message)
		case convert.LevelInfo:
			fmt.Println(infoStyle.Render("›") + " " + event.Message)
		default:
			fmt.Println(dimStyle.Render("  " + event.Message))
		}
	}
}
