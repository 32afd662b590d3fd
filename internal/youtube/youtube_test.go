package youtube

import (
	"errors"
	"fmt"
	"testing"

	"github.com/kkdai/youtube/v2"

	"github.com/handiism/ytmp3/internal/model"
)

func audioFormat(itag, kbps int, size int64) model.StreamFormat {
	f := model.StreamFormat{Itag: itag, HasAudio: true, Container: "webm"}
	if kbps > 0 {
		f.AudioBitrate = model.Some(kbps)
	}
	if size > 0 {
		f.ContentLength = model.Some(size)
	}
	return f
}

func TestSelectHighestBitrate(t *testing.T) {
	tests := []struct {
		name     string
		formats  []model.StreamFormat
		wantItag int
		wantNil  bool
	}{
		{"empty", nil, 0, true},
		{"no bitrate", []model.StreamFormat{audioFormat(1, 0, 10), audioFormat(2, 0, 20)}, 0, true},
		{"global maximum", []model.StreamFormat{audioFormat(1, 48, 0), audioFormat(2, 160, 0), audioFormat(3, 128, 0)}, 2, false},
		{"ties keep first", []model.StreamFormat{audioFormat(1, 128, 0), audioFormat(2, 128, 0)}, 1, false},
		{"skips absent", []model.StreamFormat{audioFormat(1, 0, 0), audioFormat(2, 64, 0)}, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectHighestBitrate(tt.formats)
			if tt.wantNil {
				if got != nil {
					t.Errorf("SelectHighestBitrate() = %v, want nil", got)
				}
				return
			}
			if got == nil || got.Itag != tt.wantItag {
				t.Errorf("SelectHighestBitrate() = %v, want itag %d", got, tt.wantItag)
			}
		})
	}
}

func TestSelectSmallest(t *testing.T) {
	tests := []struct {
		name     string
		formats  []model.StreamFormat
		wantItag int
		wantNil  bool
	}{
		{"empty", nil, 0, true},
		{"no content length", []model.StreamFormat{audioFormat(1, 128, 0), audioFormat(2, 160, 0)}, 0, true},
		{"no bitrate", []model.StreamFormat{audioFormat(1, 0, 100), audioFormat(2, 0, 200)}, 0, true},
		{"minimum among qualifying", []model.StreamFormat{audioFormat(1, 160, 5000), audioFormat(2, 48, 1000), audioFormat(3, 128, 3000)}, 2, false},
		// A format without a bitrate is skipped, not treated as the smallest.
		{"skips unqualified", []model.StreamFormat{audioFormat(1, 0, 10), audioFormat(2, 128, 0), audioFormat(3, 64, 900)}, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectSmallest(tt.formats)
			if tt.wantNil {
				if got != nil {
					t.Errorf("SelectSmallest() = %v, want nil", got)
				}
				return
			}
			if got == nil || got.Itag != tt.wantItag {
				t.Errorf("SelectSmallest() = %v, want itag %d", got, tt.wantItag)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	muxed := audioFormat(18, 96, 8000)
	muxed.HasVideo = true
	videoOnly := model.StreamFormat{Itag: 137, HasVideo: true, ContentLength: model.Some(int64(50))}

	formats := []model.StreamFormat{
		videoOnly,
		audioFormat(251, 160, 4000),
		audioFormat(250, 64, 1500),
		muxed,
	}

	got, err := Select(formats, PolicyHighestBitrate, false)
	if err != nil || got.Itag != 251 {
		t.Errorf("highest = %v, %v; want itag 251", got, err)
	}

	// Low quality picks the smaller stream even though a higher bitrate,
	// larger one exists.
	got, err = Select(formats, PolicySmallest, false)
	if err != nil || got.Itag != 250 {
		t.Errorf("smallest = %v, %v; want itag 250", got, err)
	}

	got, err = Select(formats, PolicyHighestBitrate, true)
	if err != nil || got.Itag != 18 {
		t.Errorf("muxed = %v, %v; want itag 18", got, err)
	}

	if kbps, _ := got.AudioBitrate.Get(); kbps <= 0 {
		t.Errorf("selected format has no audio bitrate")
	}

	_, err = Select([]model.StreamFormat{videoOnly}, PolicyHighestBitrate, false)
	if !errors.Is(err, ErrNoAudioFormat) {
		t.Errorf("video only: err = %v, want ErrNoAudioFormat", err)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		format    youtube.Format
		wantKbps  int
		wantVideo bool
		wantAudio bool
		container string
	}{
		{
			name:      "opus audio",
			format:    youtube.Format{ItagNo: 251, MimeType: `audio/webm; codecs="opus"`, AverageBitrate: 135000, Bitrate: 160000, AudioChannels: 2, ContentLength: 3_000_000},
			wantKbps:  135,
			wantAudio: true,
			container: "webm",
		},
		{
			name:      "aac without average",
			format:    youtube.Format{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, Bitrate: 130000, AudioChannels: 2},
			wantKbps:  130,
			wantAudio: true,
			container: "mp4",
		},
		{
			name:      "muxed from itag table",
			format:    youtube.Format{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, Bitrate: 500000, AudioChannels: 2, Width: 640, Height: 360},
			wantKbps:  96,
			wantVideo: true,
			wantAudio: true,
			container: "mp4",
		},
		{
			name:      "video only",
			format:    youtube.Format{ItagNo: 137, MimeType: `video/mp4; codecs="avc1.640028"`, Bitrate: 4000000, Width: 1920, Height: 1080},
			wantVideo: true,
			container: "mp4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize(&tt.format)
			kbps, _ := got.AudioBitrate.Get()
			if kbps != tt.wantKbps {
				t.Errorf("AudioBitrate = %d, want %d", kbps, tt.wantKbps)
			}
			if got.HasVideo != tt.wantVideo || got.HasAudio != tt.wantAudio {
				t.Errorf("HasVideo/HasAudio = %v/%v, want %v/%v", got.HasVideo, got.HasAudio, tt.wantVideo, tt.wantAudio)
			}
			if got.Container != tt.container {
				t.Errorf("Container = %q, want %q", got.Container, tt.container)
			}
			if got.Itag != tt.format.ItagNo {
				t.Errorf("Itag = %d, want %d", got.Itag, tt.format.ItagNo)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	if err := classify(fmt.Errorf("get: %w", youtube.ErrVideoPrivate)); !errors.Is(err, ErrUnavailable) {
		t.Errorf("private video: %v", err)
	}
	if err := classify(youtube.ErrVideoIDMinLength); !errors.Is(err, ErrInvalidURL) {
		t.Errorf("short ID: %v", err)
	}
	other := errors.New("connection reset")
	if err := classify(other); err != other {
		t.Errorf("unknown errors should pass through, got %v", err)
	}
}

func TestVideo_DisplayTitle(t *testing.T) {
	if got := (&Video{ID: "abc", Title: "  Song  "}).DisplayTitle(); got != "Song" {
		t.Errorf("DisplayTitle() = %q", got)
	}
	if got := (&Video{ID: "abc", Title: " "}).DisplayTitle(); got != "abc" {
		t.Errorf("blank title DisplayTitle() = %q, want ID", got)
	}
}
