package youtube

import (
	"errors"

	"github.com/handiism/ytmp3/internal/model"
)

// ErrNoAudioFormat is returned when no format of a video qualifies
// under the requested policy.
var ErrNoAudioFormat = errors.New("no format with an audio track qualifies")

// Policy chooses between the available formats of a video.
type Policy int

const (
	// PolicyHighestBitrate picks the format with the best audio.
	PolicyHighestBitrate Policy = iota
	// PolicySmallest picks the smallest download that still carries audio.
	PolicySmallest
)

func (p Policy) String() string {
	switch p {
	case PolicySmallest:
		return "smallest"
	default:
		return "highest-bitrate"
	}
}

// SelectHighestBitrate returns the format with the strictly greatest
// audio bitrate. Ties keep the first one encountered. It returns nil if
// no format has a positive audio bitrate.
func SelectHighestBitrate(formats []model.StreamFormat) *model.StreamFormat {
	var (
		best     *model.StreamFormat
		bestKbps int
	)
	for i := range formats {
		kbps, ok := formats[i].AudioBitrate.Get()
		if !ok || kbps <= 0 {
			continue
		}
		if best == nil || kbps > bestKbps {
			best = &formats[i]
			bestKbps = kbps
		}
	}
	return best
}

// SelectSmallest returns the format with the smallest content length
// among those that declare both an audio bitrate and a content length.
// Formats missing either are skipped, never treated as zero. It returns
// nil if no format qualifies.
func SelectSmallest(formats []model.StreamFormat) *model.StreamFormat {
	var (
		best     *model.StreamFormat
		bestSize int64
	)
	for i := range formats {
		kbps, ok := formats[i].AudioBitrate.Get()
		if !ok || kbps <= 0 {
			continue
		}
		size, ok := formats[i].ContentLength.Get()
		if !ok {
			continue
		}
		if best == nil || size < bestSize {
			best = &formats[i]
			bestSize = size
		}
	}
	return best
}

// Candidates filters formats down to the ones worth downloading.
// With muxed set only formats carrying both audio and video remain,
// otherwise every format with an audio track does.
func Candidates(formats []model.StreamFormat, muxed bool) []model.StreamFormat {
	out := make([]model.StreamFormat, 0, len(formats))
	for _, f := range formats {
		if !f.HasAudio {
			continue
		}
		if muxed && !f.HasVideo {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Select applies policy to the candidates of formats.
//
// The returned format always has an audio bitrate above zero.
//
// Example:
//
//	f, err := youtube.Select(video.Formats, youtube.PolicySmallest, false)
//	if errors.Is(err, youtube.ErrNoAudioFormat) {
//	    // nothing to extract audio from
//	}
func Select(formats []model.StreamFormat, policy Policy, muxed bool) (model.StreamFormat, error) {
	candidates := Candidates(formats, muxed)

	var picked *model.StreamFormat
	switch policy {
	case PolicySmallest:
		picked = SelectSmallest(candidates)
	default:
		picked = SelectHighestBitrate(candidates)
	}
	if picked == nil {
		return model.StreamFormat{}, ErrNoAudioFormat
	}
	return *picked, nil
}
