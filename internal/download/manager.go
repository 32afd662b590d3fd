package download

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/handiism/ytmp3/internal/audio"
	"github.com/handiism/ytmp3/internal/config"
	ythttp "github.com/handiism/ytmp3/internal/http"
	ioutils "github.com/handiism/ytmp3/internal/io"
	"github.com/handiism/ytmp3/internal/itunes"
	"github.com/handiism/ytmp3/internal/metadata"
	"github.com/handiism/ytmp3/internal/model"
	"github.com/handiism/ytmp3/internal/prompt"
	"github.com/handiism/ytmp3/internal/timeutil"
	"github.com/handiism/ytmp3/internal/transcode"
	"github.com/handiism/ytmp3/internal/youtube"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess

	// LevelProgress carries transfer or transcode progress rather than a message.
	LevelProgress
)

// ProgressEvent represents a pipeline progress update.
type ProgressEvent struct {
	Stage   Stage
	Level   ProgressLevel
	Message string

	// Set for LevelProgress events of the download stage.
	Bytes int64
	Total int64
	Rate  float64
	ETA   time.Duration

	// Percent is in [0, 100], or -1 when unknown.
	Percent float64
}

// VideoSource fetches video metadata and streams.
type VideoSource interface {
	Fetch(ctx context.Context, url string) (*youtube.Video, error)
	Stream(ctx context.Context, video *youtube.Video, itag int) (io.ReadCloser, int64, error)
}

// Transcoder converts the downloaded video and probes the result.
type Transcoder interface {
	Convert(ctx context.Context, input, output string, bitrateKbps int, onProgress func(percent float64)) error
	Probe(path string) (model.ProbeInfo, error)
}

// Resolver derives song metadata from a video title.
type Resolver interface {
	Resolve(ctx context.Context, videoTitle string) metadata.Resolution
}

// Tagger writes song metadata into an MP3 file.
type Tagger interface {
	SaveTags(path string, song model.SongMetadata, artwork []byte) error
}

// Fetcher downloads small resources such as cover art.
type Fetcher interface {
	DownloadBytes(ctx context.Context, url string) ([]byte, error)
}

// StageRunner executes a single stage. It lets a terminal UI take over
// the screen while a long stage runs.
type StageRunner interface {
	RunStage(ctx context.Context, stage Stage, run func(ctx context.Context) error) error
}

type inlineRunner struct{}

func (inlineRunner) RunStage(ctx context.Context, _ Stage, run func(ctx context.Context) error) error {
	return run(ctx)
}

// Options control a single run.
type Options struct {
	// Output overrides the final file name. It may include a directory.
	Output string

	LowQuality   bool
	VideoOnly    bool
	Intermediate bool
	KeepVideo    bool

	// Bitrate overrides the output bitrate in kbps; zero keeps the source bitrate.
	Bitrate int

	EmbedArtwork   bool
	ArtworkMaxSize int

	Playlist    string
	M3UExtended bool

	// ProgressInterval throttles LevelProgress events of the download stage.
	ProgressInterval time.Duration
}

// OptionsFromSettings copies the run options held in settings.
func OptionsFromSettings(s *config.Settings) Options {
	return Options{
		LowQuality:       s.LowQuality,
		Intermediate:     s.Intermediate,
		KeepVideo:        s.KeepVideo,
		Bitrate:          s.Bitrate,
		EmbedArtwork:     s.EmbedArtwork,
		ArtworkMaxSize:   s.ArtworkMaxSize,
		Playlist:         s.Playlist,
		M3UExtended:      s.M3UExtended,
		ProgressInterval: 100 * time.Millisecond,
	}
}

// Dependencies are the collaborators of a Manager.
type Dependencies struct {
	Videos     VideoSource
	Transcoder Transcoder
	Resolver   Resolver
	Confirmer  prompt.Confirmer
	Tagger     Tagger
	Fetcher    Fetcher

	// Runner is optional; stages run inline without one.
	Runner StageRunner
}

// Result is the outcome of a successful run.
type Result struct {
	// Path is the final file.
	Path string

	Video  model.VideoMetadata
	Song   model.SongMetadata
	Source metadata.Source
	Probe  model.ProbeInfo

	// Elapsed runs from the start of the fetch to the end of the
	// transcode, or to the end of the download in video mode.
	Elapsed    time.Duration
	Downloaded int64
	Bitrate    int
	VideoOnly  bool
	Warnings   []string
}

// Manager runs the fetch, download, transcode and tag stages of one job.
type Manager struct {
	opts    Options
	deps    Dependencies
	artwork *ioutils.ArtworkProcessor

	onProgress func(ProgressEvent)
	now        func() float64
}

// New creates a Manager from explicit collaborators.
func New(deps Dependencies, opts Options, onProgress func(ProgressEvent)) *Manager {
	if deps.Runner == nil {
		deps.Runner = inlineRunner{}
	}
	return &Manager{
		opts:       opts,
		deps:       deps,
		artwork:    ioutils.NewArtworkProcessor(opts.ArtworkMaxSize),
		onProgress: onProgress,
		now:        timeutil.NowSeconds,
	}
}

// NewManager creates a Manager wired to YouTube, ffmpeg, the iTunes
// Search API and ID3 tagging, as configured by settings.
func NewManager(settings *config.Settings, opts Options, confirmer prompt.Confirmer, runner StageRunner, onProgress func(ProgressEvent)) *Manager {
	httpClient := ythttp.NewClient(settings.Timeout())

	m := New(Dependencies{
		Videos:     youtube.NewClient(httpClient.StdClient()),
		Transcoder: transcode.New(settings.ToTranscodeConfig()),
		Confirmer:  confirmer,
		Tagger:     audio.NewTagger(settings.ToTagConfig()),
		Fetcher:    httpClient,
		Runner:     runner,
	}, opts, onProgress)

	var lookup metadata.Lookup
	if settings.LookupEnabled {
		lookup = itunes.NewClient(httpClient, settings.ToLookupConfig())
	}
	m.deps.Resolver = metadata.NewResolver(lookup, settings.Separators, m.debugf)
	return m
}

// job carries the state handed from one stage to the next.
type job struct {
	url     string
	started float64

	video  *youtube.Video
	meta   model.VideoMetadata
	policy youtube.Policy

	// payload is owned by the download stage until the transcode
	// stage writes it out and releases it.
	payload    *bytes.Buffer
	downloaded int64

	videoPath string
	audioPath string
	bitrate   int
	elapsed   time.Duration

	resolution metadata.Resolution
	song       model.SongMetadata
	finalPath  string
	probe      model.ProbeInfo
	warnings   []string
}

type stageFunc struct {
	stage Stage
	run   func(ctx context.Context, j *job) error
}

func (m *Manager) stages() []stageFunc {
	if m.opts.VideoOnly {
		return []stageFunc{
			{StageFetch, m.fetch},
			{StageDownload, m.download},
			{StageTag, m.saveVideo},
		}
	}
	return []stageFunc{
		{StageFetch, m.fetch},
		{StageDownload, m.download},
		{StageTranscode, m.transcode},
		{StageTag, m.finalize},
	}
}

// Run executes every stage for the video at url in order. The first
// failing stage aborts the run with a *StageError.
func (m *Manager) Run(ctx context.Context, url string) (*Result, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("%w: missing video URL", ErrUsage)
	}

	j := &job{url: strings.TrimSpace(url), started: m.now()}
	defer m.cleanup(j)

	for _, s := range m.stages() {
		if err := ctx.Err(); err != nil {
			return nil, &StageError{Stage: s.stage, Err: err}
		}
		m.progress(ProgressEvent{Stage: s.stage, Level: LevelVerbose, Message: fmt.Sprintf("Stage: %s", s.stage)})

		run := s.run
		err := m.deps.Runner.RunStage(ctx, s.stage, func(ctx context.Context) error {
			return run(ctx, j)
		})
		if err != nil {
			return nil, &StageError{Stage: s.stage, Err: err}
		}
	}

	m.progress(ProgressEvent{Stage: StageDone, Level: LevelSuccess, Message: fmt.Sprintf("Saved %s", j.finalPath)})
	return &Result{
		Path:       j.finalPath,
		Video:      j.meta,
		Song:       j.song,
		Source:     j.resolution.Source,
		Probe:      j.probe,
		Elapsed:    j.elapsed,
		Downloaded: j.downloaded,
		Bitrate:    j.bitrate,
		VideoOnly:  m.opts.VideoOnly,
		Warnings:   j.warnings,
	}, nil
}

func (m *Manager) fetch(ctx context.Context, j *job) error {
	m.progress(ProgressEvent{Stage: StageFetch, Level: LevelInfo, Message: fmt.Sprintf("Fetching video info: %s", j.url)})

	video, err := m.deps.Videos.Fetch(ctx, j.url)
	if err != nil {
		return err
	}

	j.policy = youtube.PolicyHighestBitrate
	if m.opts.LowQuality {
		j.policy = youtube.PolicySmallest
	}
	format, err := youtube.Select(video.Formats, j.policy, m.opts.VideoOnly)
	if err != nil {
		return err
	}

	j.video = video
	j.meta = video.Metadata(format)
	m.progress(ProgressEvent{Stage: StageFetch, Level: LevelVerbose, Message: fmt.Sprintf("Selected %s (%s)", format, j.policy)})
	m.progress(ProgressEvent{Stage: StageFetch, Level: LevelInfo, Message: fmt.Sprintf("Found video: %s", j.meta.Title)})
	return nil
}

func (m *Manager) download(ctx context.Context, j *job) error {
	stream, size, err := m.deps.Videos.Stream(ctx, j.video, j.meta.Format.Itag)
	if err != nil {
		return err
	}
	defer stream.Close()

	if size <= 0 {
		size = j.meta.Format.ContentLength.OrElse(0)
	}

	buf, err := ythttp.ReadAll(ctx, stream, size, m.opts.ProgressInterval, func(p ythttp.Progress) {
		m.progress(ProgressEvent{
			Stage:   StageDownload,
			Level:   LevelProgress,
			Bytes:   p.Written,
			Total:   p.Total,
			Rate:    p.Rate,
			ETA:     p.ETA,
			Percent: p.Percent(),
		})
	})
	if err != nil {
		return err
	}
	if buf.Len() == 0 {
		return errors.New("stream delivered no data")
	}

	j.payload = buf
	j.downloaded = int64(buf.Len())
	m.progress(ProgressEvent{Stage: StageDownload, Level: LevelVerbose, Message: fmt.Sprintf("Downloaded %d bytes", j.downloaded)})
	return nil
}

func (m *Manager) transcode(ctx context.Context, j *job) error {
	ext := ".video"
	if j.meta.Format.Container != "" {
		ext = "." + j.meta.Format.Container
	}

	j.videoPath = ioutils.TempPath(m.opts.Intermediate, ext)
	if err := ioutils.WriteFile(ctx, j.videoPath, j.payload.Bytes()); err != nil {
		return fmt.Errorf("failed to write intermediate video: %w", err)
	}
	j.payload = nil

	j.bitrate = m.opts.Bitrate
	if j.bitrate <= 0 {
		j.bitrate = j.meta.Format.AudioBitrate.OrElse(0)
	}
	j.bitrate = transcode.ClampBitrate(j.bitrate)

	j.audioPath = ioutils.TempPath(m.opts.Intermediate, ".mp3")
	m.progress(ProgressEvent{Stage: StageTranscode, Level: LevelVerbose, Message: fmt.Sprintf("Transcoding %s to %s at %dk", j.videoPath, j.audioPath, j.bitrate)})

	err := m.deps.Transcoder.Convert(ctx, j.videoPath, j.audioPath, j.bitrate, func(percent float64) {
		m.progress(ProgressEvent{Stage: StageTranscode, Level: LevelProgress, Percent: percent})
	})
	if err != nil {
		return err
	}

	if m.opts.KeepVideo {
		m.progress(ProgressEvent{Stage: StageTranscode, Level: LevelInfo, Message: fmt.Sprintf("Kept video: %s", j.videoPath)})
	} else if err := ioutils.RemoveQuietly(j.videoPath); err != nil {
		m.warn(j, StageTranscode, fmt.Sprintf("Error removing intermediate video: %v", err))
	} else {
		j.videoPath = ""
	}

	j.elapsed = m.since(j.started)
	return nil
}

func (m *Manager) finalize(ctx context.Context, j *job) error {
	j.resolution = m.deps.Resolver.Resolve(ctx, j.meta.Title)
	m.progress(ProgressEvent{Stage: StageTag, Level: LevelVerbose, Message: fmt.Sprintf("Metadata source: %s", j.resolution.Source)})

	song, err := m.deps.Confirmer.Confirm(j.resolution.Song)
	if err != nil {
		return err
	}
	j.song = song

	var artwork []byte
	if m.opts.EmbedArtwork {
		artwork = m.fetchArtwork(ctx, j)
	}

	if err := m.deps.Tagger.SaveTags(j.audioPath, j.song, artwork); err != nil {
		m.warn(j, StageTag, fmt.Sprintf("Error tagging %s: %v", j.meta.Title, err))
	}

	dir, base := filepath.Split(m.opts.Output)
	j.finalPath = filepath.Join(dir, model.OutputFileName(j.song, base))
	if err := ioutils.EnsureDir(dir); err != nil {
		return err
	}
	if err := ioutils.CopyFile(ctx, j.audioPath, j.finalPath); err != nil {
		return fmt.Errorf("failed to copy to %s: %w", j.finalPath, err)
	}
	if err := ioutils.RemoveQuietly(j.audioPath); err != nil {
		m.warn(j, StageTag, fmt.Sprintf("Error removing intermediate audio: %v", err))
	} else {
		j.audioPath = ""
	}

	probe, err := m.deps.Transcoder.Probe(j.finalPath)
	if err != nil {
		return fmt.Errorf("failed to read back %s: %w", j.finalPath, err)
	}
	j.probe = probe

	if m.opts.Playlist != "" {
		m.appendPlaylist(ctx, j)
	}
	return nil
}

// fetchArtwork returns the cover to embed, or nil. The lookup artwork
// is preferred over the video thumbnail.
func (m *Manager) fetchArtwork(ctx context.Context, j *job) []byte {
	url := j.song.ArtworkURL.OrElse(j.meta.ThumbnailURL)
	if url == "" || m.deps.Fetcher == nil {
		return nil
	}

	data, err := m.deps.Fetcher.DownloadBytes(ctx, url)
	if err != nil {
		m.warn(j, StageTag, fmt.Sprintf("Error downloading artwork: %v", err))
		return nil
	}
	cover, err := m.artwork.Prepare(ctx, data)
	if err != nil {
		m.warn(j, StageTag, fmt.Sprintf("Error preparing artwork: %v", err))
		return nil
	}
	m.progress(ProgressEvent{Stage: StageTag, Level: LevelVerbose, Message: fmt.Sprintf("Downloaded artwork from %s", url)})
	return cover
}

func (m *Manager) appendPlaylist(ctx context.Context, j *job) {
	format, err := audio.FormatFromPath(m.opts.Playlist)
	if err != nil {
		m.warn(j, StageTag, fmt.Sprintf("Error creating playlist: %v", err))
		return
	}

	creator := audio.NewPlaylistCreator(format, m.opts.M3UExtended)
	entry := audio.PlaylistEntry{
		Path:     j.finalPath,
		Title:    j.song.Title.OrElse(j.meta.Title),
		Artist:   j.song.Artist.OrElse(""),
		Duration: j.probe.Duration,
	}
	if err := creator.Append(ctx, m.opts.Playlist, entry); err != nil {
		m.warn(j, StageTag, fmt.Sprintf("Error updating playlist: %v", err))
		return
	}
	m.progress(ProgressEvent{Stage: StageTag, Level: LevelSuccess, Message: fmt.Sprintf("Added to playlist %s", m.opts.Playlist)})
}

// saveVideo writes the downloaded payload as the final file in video mode.
func (m *Manager) saveVideo(ctx context.Context, j *job) error {
	j.elapsed = m.since(j.started)

	dir, base := filepath.Split(m.opts.Output)
	j.finalPath = filepath.Join(dir, VideoFileName(j.meta, base))
	if err := ioutils.EnsureDir(dir); err != nil {
		return err
	}
	if err := ioutils.WriteFile(ctx, j.finalPath, j.payload.Bytes()); err != nil {
		return fmt.Errorf("failed to write %s: %w", j.finalPath, err)
	}
	j.payload = nil

	j.song = model.SongMetadata{Title: model.OptionalString(j.meta.Title)}
	j.probe = model.ProbeInfo{Path: j.finalPath, Duration: j.meta.Duration, Size: j.downloaded}
	return nil
}

// since returns the time passed on the manager clock after start.
func (m *Manager) since(start float64) time.Duration {
	return time.Duration((m.now() - start) * float64(time.Second))
}

// VideoFileName derives "{title}.{container}" for video mode, or uses
// override with the container extension enforced.
func VideoFileName(meta model.VideoMetadata, override string) string {
	ext := "." + meta.Format.Container
	if meta.Format.Container == "" {
		ext = ".mp4"
	}

	name := strings.TrimSpace(override)
	if name == "" {
		name = meta.Title
	}
	if strings.HasSuffix(strings.ToLower(name), ext) {
		name = name[:len(name)-len(ext)]
	}
	name = ioutils.SanitizeFileName(name)
	if name == "" {
		name = "video"
	}
	return ioutils.EnsureSuffix(name, ext)
}

// cleanup removes intermediates left behind by a failed stage. A video
// the caller asked to keep stays.
func (m *Manager) cleanup(j *job) {
	if j.audioPath != "" {
		_ = ioutils.RemoveQuietly(j.audioPath)
	}
	if j.videoPath != "" && !m.opts.KeepVideo {
		_ = ioutils.RemoveQuietly(j.videoPath)
	}
}

func (m *Manager) warn(j *job, stage Stage, msg string) {
	j.warnings = append(j.warnings, msg)
	m.progress(ProgressEvent{Stage: stage, Level: LevelWarning, Message: msg})
}

func (m *Manager) debugf(format string, args ...any) {
	m.progress(ProgressEvent{Stage: StageTag, Level: LevelVerbose, Message: fmt.Sprintf(format, args...)})
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
