package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/handiism/ytmp3/internal/config"
	"github.com/handiism/ytmp3/internal/download"
	"github.com/handiism/ytmp3/internal/prompt"
	"github.com/handiism/ytmp3/internal/report"
	"github.com/handiism/ytmp3/internal/transcode"
	"github.com/handiism/ytmp3/internal/tui"
)

var version = "dev"

// cliFlags holds the command line flags. Unset flags leave the
// configuration file and environment values alone.
type cliFlags struct {
	output       string
	lowQuality   bool
	verbose      bool
	separators   []string
	bitrate      int
	video        bool
	intermediate bool
	keepVideo    bool
	yes          bool
	playlist     string
	configPath   string
	noLookup     bool
	noArtwork    bool
}

func newRootCmd() (*cobra.Command, *cliFlags) {
	f := &cliFlags{}

	cmd := &cobra.Command{
		Use:   "ytmp3 <url>",
		Short: "Download a YouTube video as a tagged MP3",
		Long: "ytmp3 downloads a YouTube video, transcodes its audio to MP3 with ffmpeg\n" +
			"and tags it with metadata from the iTunes Search API or the video title.",
		Version: version,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("%w: expected exactly one video URL, got %d", download.ErrUsage, len(args))
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], f)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", download.ErrUsage, err)
	})

	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", "", "Output file name (.mp3 is enforced)")
	flags.BoolVarP(&f.lowQuality, "low-quality", "l", false, "Select the smallest format instead of the highest bitrate")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "Show debug output")
	flags.StringArrayVarP(&f.separators, "separator", "s", nil, "Artist/title separator, repeatable (default \"-\" and \"—\")")
	flags.IntVarP(&f.bitrate, "bitrate", "b", 0, "Output bitrate in kbps, 32 to 320 (default: source bitrate)")
	flags.BoolVar(&f.video, "video", false, "Save the video only, skip transcoding and tagging")
	flags.BoolVarP(&f.intermediate, "intermediate", "i", false, "Write intermediate files to the current directory")
	flags.BoolVarP(&f.keepVideo, "keep-video", "k", false, "Keep the intermediate video after transcoding")
	flags.BoolVarP(&f.yes, "yes", "y", false, "Accept the guessed metadata without prompting")
	flags.StringVarP(&f.playlist, "playlist", "p", "", "Append the track to a playlist (.m3u, .pls, .wpl, .zpl)")
	flags.StringVarP(&f.configPath, "config", "c", "", "Path to config file (default "+config.DefaultPath+")")
	flags.BoolVar(&f.noLookup, "no-lookup", false, "Do not query the iTunes Search API")
	flags.BoolVar(&f.noArtwork, "no-artwork", false, "Do not embed cover art")

	return cmd, f
}

// apply copies the flags that were set onto s. An explicit bitrate must
// lie in the MP3 range; zero only means "source bitrate" when unset.
func (f *cliFlags) apply(cmd *cobra.Command, s *config.Settings) error {
	changed := cmd.Flags().Changed

	if changed("low-quality") {
		s.LowQuality = f.lowQuality
	}
	if changed("separator") {
		s.Separators = f.separators
	}
	if changed("bitrate") {
		if f.bitrate < transcode.MinBitrate || f.bitrate > transcode.MaxBitrate {
			return &config.ValidationError{Problems: []string{
				fmt.Sprintf("bitrate must be between %d and %d kbps (got %d)", transcode.MinBitrate, transcode.MaxBitrate, f.bitrate),
			}}
		}
		s.Bitrate = f.bitrate
	}
	if changed("intermediate") {
		s.Intermediate = f.intermediate
	}
	if changed("keep-video") {
		s.KeepVideo = f.keepVideo
	}
	if changed("playlist") {
		s.Playlist = f.playlist
	}
	if f.noLookup {
		s.LookupEnabled = false
	}
	if f.noArtwork {
		s.EmbedArtwork = false
	}
	return nil
}

func run(cmd *cobra.Command, url string, f *cliFlags) error {
	settings, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	if err := f.apply(cmd, settings); err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	opts := download.OptionsFromSettings(settings)
	opts.Output = f.output
	opts.VideoOnly = f.video

	out := cmd.OutOrStdout()
	logger := report.NewLogger(out, f.verbose)
	display := tui.NewDisplay(os.Stdin, out, logger, !f.verbose && tui.IsTerminal(os.Stdout))

	var confirmer prompt.Confirmer = prompt.AutoConfirmer{}
	if !f.yes && tui.IsTerminal(os.Stdin) {
		confirmer = prompt.NewSurveyConfirmer(os.Stdin, os.Stdout, os.Stderr)
	}

	manager := download.NewManager(settings, opts, confirmer, display, display.Handle)
	result, err := manager.Run(cmd.Context(), url)
	if err != nil {
		return err
	}

	report.Summary(out, result)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd, _ := newRootCmd()
	code := execute(ctx, cmd)
	stop()
	os.Exit(code)
}

// execute runs cmd and returns the process exit code.
func execute(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return download.ExitOK
	}

	logger := report.NewLogger(cmd.ErrOrStderr(), false)
	code := download.ExitCode(err)
	switch {
	case code == download.ExitInterrupted:
		logger.Fatal(errors.New("interrupted"))
	case code == download.ExitUsage:
		logger.Fatal(err)
		cmd.SetOut(cmd.ErrOrStderr())
		_ = cmd.Usage()
	default:
		logger.Fatal(err)
	}
	return code
}
