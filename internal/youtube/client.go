package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"

	"github.com/handiism/ytmp3/internal/model"
)

// ErrUnavailable marks videos that exist but cannot be retrieved,
// e.g. private, age-restricted or login-only ones.
var ErrUnavailable = errors.New("video unavailable")

// ErrInvalidURL marks input that does not name a video.
var ErrInvalidURL = errors.New("invalid video URL or ID")

// muxedAudioKbps holds the audio bitrate of YouTube's combined
// audio+video itags, which report only a total bitrate.
var muxedAudioKbps = map[int]int{
	17: 24,
	18: 96,
	22: 192,
	36: 48,
	43: 128,
}

// Video is a fetched video together with its normalised formats.
type Video struct {
	ID           string
	Title        string
	Author       string
	Duration     time.Duration
	ThumbnailURL string
	Formats      []model.StreamFormat

	raw *youtube.Video
}

// DisplayTitle returns the trimmed title, or the video ID when the
// title is blank.
func (v *Video) DisplayTitle() string {
	if t := strings.TrimSpace(v.Title); t != "" {
		return t
	}
	return v.ID
}

// Metadata correlates the video with the chosen format.
func (v *Video) Metadata(format model.StreamFormat) model.VideoMetadata {
	return model.VideoMetadata{
		ID:           v.ID,
		Title:        v.DisplayTitle(),
		Author:       v.Author,
		Duration:     v.Duration,
		ThumbnailURL: v.ThumbnailURL,
		Format:       format,
	}
}

// Client retrieves video metadata and streams from YouTube.
type Client struct {
	yt *youtube.Client
}

// NewClient creates a Client issuing requests through httpClient.
// A nil httpClient selects http.DefaultClient.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{yt: &youtube.Client{HTTPClient: httpClient}}
}

// Fetch retrieves the metadata and the available formats of url.
//
// url can be a watch URL, a short youtu.be URL or a bare video ID.
// Errors are wrapped with ErrUnavailable or ErrInvalidURL when the
// cause is known.
func (c *Client) Fetch(ctx context.Context, url string) (*Video, error) {
	v, err := c.yt.GetVideoContext(ctx, url)
	if err != nil {
		return nil, classify(err)
	}

	video := &Video{
		ID:       v.ID,
		Title:    v.Title,
		Author:   v.Author,
		Duration: v.Duration,
		Formats:  make([]model.StreamFormat, 0, len(v.Formats)),
		raw:      v,
	}
	if thumb := bestThumbnail(v.Thumbnails); thumb != "" {
		video.ThumbnailURL = thumb
	}
	for i := range v.Formats {
		video.Formats = append(video.Formats, normalize(&v.Formats[i]))
	}
	return video, nil
}

// Stream opens the byte stream of the format with the given itag.
// It returns the stream and its declared size, zero if unknown.
func (c *Client) Stream(ctx context.Context, video *Video, itag int) (io.ReadCloser, int64, error) {
	if video == nil || video.raw == nil {
		return nil, 0, fmt.Errorf("video was not fetched by this client")
	}
	formats := video.raw.Formats.Itag(itag)
	if len(formats) == 0 {
		return nil, 0, fmt.Errorf("format itag=%d not offered for %s", itag, video.ID)
	}

	stream, size, err := c.yt.GetStreamContext(ctx, video.raw, &formats[0])
	if err != nil {
		return nil, 0, classify(err)
	}
	return stream, size, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, youtube.ErrLoginRequired),
		errors.Is(err, youtube.ErrVideoPrivate),
		errors.Is(err, youtube.ErrNotPlayableInEmbed):
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	case errors.Is(err, youtube.ErrInvalidCharactersInVideoID),
		errors.Is(err, youtube.ErrVideoIDMinLength):
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	var statusErr *youtube.ErrPlayabiltyStatus
	if errors.As(err, &statusErr) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}

func normalize(f *youtube.Format) model.StreamFormat {
	hasVideo := f.Width > 0 || f.Height > 0 || strings.HasPrefix(f.MimeType, "video/")
	hasAudio := f.AudioChannels > 0 || strings.HasPrefix(f.MimeType, "audio/")

	return model.StreamFormat{
		Itag:          f.ItagNo,
		AudioBitrate:  audioBitrate(f, hasAudio, hasVideo),
		ContentLength: model.OptionalPositive(f.ContentLength),
		Container:     container(f.MimeType),
		MimeType:      f.MimeType,
		HasVideo:      hasVideo,
		HasAudio:      hasAudio,
	}
}

// audioBitrate derives the audio bitrate in kbps. Muxed formats only
// report the combined bitrate, so they are looked up by itag.
func audioBitrate(f *youtube.Format, hasAudio, hasVideo bool) model.Optional[int] {
	if !hasAudio {
		return model.None[int]()
	}
	if hasVideo {
		if kbps, ok := muxedAudioKbps[f.ItagNo]; ok {
			return model.Some(kbps)
		}
		return model.None[int]()
	}

	bps := f.AverageBitrate
	if bps <= 0 {
		bps = f.Bitrate
	}
	return model.OptionalPositive(bps / 1000)
}

// container extracts "webm" from `audio/webm; codecs="opus"`.
func container(mimeType string) string {
	typ, _, _ := strings.Cut(mimeType, ";")
	_, sub, ok := strings.Cut(strings.TrimSpace(typ), "/")
	if !ok || sub == "" {
		return "bin"
	}
	return sub
}

func bestThumbnail(thumbs youtube.Thumbnails) string {
	var (
		url  string
		area uint
	)
	for _, t := range thumbs {
		if a := t.Width * t.Height; url == "" || a > area {
			url, area = t.URL, a
		}
	}
	return url
}
