// Package transcode converts downloaded streams to MP3 and reads the
// technical attributes of finished files, both through ffmpeg.
package transcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/floostack/transcoder/ffmpeg"

	"github.com/handiism/ytmp3/internal/model"
)

const (
	// MinBitrate and MaxBitrate bound the MP3 bitrate in kbps.
	MinBitrate = 32
	MaxBitrate = 320

	codecMP3  = "libmp3lame"
	formatMP3 = "mp3"
)

var (
	// ErrNoOutput is returned when ffmpeg exits without producing a file.
	ErrNoOutput = errors.New("ffmpeg produced no output")
	// ErrFailed is returned when ffmpeg exits unsuccessfully.
	ErrFailed = errors.New("ffmpeg failed")
)

func exitState(cmd *exec.Cmd) string {
	if cmd == nil || cmd.ProcessState == nil {
		return "process state unknown"
	}
	return cmd.ProcessState.String()
}

// Config locates the ffmpeg binaries. Empty paths are resolved from PATH.
type Config struct {
	FfmpegBinPath  string
	FfprobeBinPath string
}

// Transcoder runs ffmpeg and ffprobe.
type Transcoder struct {
	cfg Config
}

// New creates a Transcoder.
func New(cfg Config) *Transcoder {
	if cfg.FfmpegBinPath == "" {
		cfg.FfmpegBinPath = "ffmpeg"
	}
	if cfg.FfprobeBinPath == "" {
		cfg.FfprobeBinPath = "ffprobe"
	}
	return &Transcoder{cfg: cfg}
}

// ClampBitrate bounds kbps to [MinBitrate, MaxBitrate].
func ClampBitrate(kbps int) int {
	return min(max(kbps, MinBitrate), MaxBitrate)
}

// Convert transcodes input to an MP3 at output with the given bitrate.
//
// The video track is dropped and an existing output is overwritten.
// onProgress, if not nil, receives the completed percentage as ffmpeg
// reports it.
func (t *Transcoder) Convert(ctx context.Context, input, output string, bitrateKbps int, onProgress func(percent float64)) error {
	codec := codecMP3
	format := formatMP3
	bitrate := fmt.Sprintf("%dk", ClampBitrate(bitrateKbps))
	skipVideo := true
	overwrite := true

	opts := &ffmpeg.Options{
		AudioCodec:   &codec,
		AudioBitrate: &bitrate,
		SkipVideo:    &skipVideo,
		OutputFormat: &format,
		Overwrite:    &overwrite,
	}

	ff := ffmpeg.
		New(&ffmpeg.Config{
			ProgressEnabled: true,
			FfmpegBinPath:   t.cfg.FfmpegBinPath,
			FfprobeBinPath:  t.cfg.FfprobeBinPath,
		}).
		Input(input).
		Output(output).
		WithContext(&ctx)

	progress, err := ff.Start(opts)
	if err != nil {
		return ParseError(err)
	}

	// The channel closes once ffmpeg has been waited on.
	for p := range progress {
		if onProgress != nil {
			onProgress(p.GetProgress())
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if cmd := ff.GetRunningCmdInstance(); cmd == nil || cmd.ProcessState == nil || !cmd.ProcessState.Success() {
		return fmt.Errorf("%w: %s", ErrFailed, exitState(cmd))
	}
	if info, err := os.Stat(output); err != nil || info.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrNoOutput, output)
	}
	if onProgress != nil {
		onProgress(100)
	}
	return nil
}

// Probe reads the duration, size and bit rate of the file at path.
func (t *Transcoder) Probe(path string) (model.ProbeInfo, error) {
	metadata, err := ffmpeg.
		New(&ffmpeg.Config{
			FfmpegBinPath:  t.cfg.FfmpegBinPath,
			FfprobeBinPath: t.cfg.FfprobeBinPath,
		}).
		Input(path).
		GetMetadata()
	if err != nil {
		return model.ProbeInfo{}, fmt.Errorf("failed to extract file metadata information using ffprobe: %w", err)
	}

	format := metadata.GetFormat()
	info := model.ProbeInfo{
		Path:     path,
		Duration: ParseSeconds(format.GetDuration()),
		Size:     parseInt(format.GetSize()),
		BitRate:  parseInt(format.GetBitRate()),
	}
	if info.Size == 0 {
		if st, err := os.Stat(path); err == nil {
			info.Size = st.Size()
		}
	}
	return info, nil
}

// ParseSeconds converts ffprobe's fractional seconds, e.g. "213.456000",
// to a duration. Unparseable input yields zero.
func ParseSeconds(s string) time.Duration {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 {
		return 0
	}
	return time.Duration(f * float64(time.Second))
}

func parseInt(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

var messageMatcher = regexp.MustCompile(`(?s)message: ({.*})`)

// ParseError pares an ffmpeg failure down to its message.
//
// The error returned by the transcoder carries ffmpeg's whole build
// banner; only the JSON "message" part is useful to the operator.
func ParseError(err error) error {
	groups := messageMatcher.FindStringSubmatch(err.Error())
	if len(groups) < 2 {
		return err
	}

	var out struct {
		Error struct {
			String string `json:"string"`
		} `json:"error"`
	}
	if jsonErr := json.Unmarshal([]byte(groups[1]), &out); jsonErr != nil || out.Error.String == "" {
		return errors.New(groups[1])
	}
	return errors.New(out.Error.String)
}
