package metadata

import (
	"context"
	"strings"

	"github.com/handiism/ytmp3/internal/itunes"
	"github.com/handiism/ytmp3/internal/model"
)

// Source records which strategy produced the resolved metadata.
type Source string

const (
	SourceLookupRaw    Source = "lookup-raw"
	SourceLookupParsed Source = "lookup-parsed"
	SourceParsed       Source = "parsed"
	SourceTitleOnly    Source = "title-only"
)

// Lookup searches a song metadata service.
type Lookup interface {
	Search(ctx context.Context, term string) (itunes.LookupResult, error)
}

// Resolution is the best-guess metadata for a video.
type Resolution struct {
	Song   model.SongMetadata
	Source Source

	// Parsed holds the title parser outcome when it ran.
	Parsed TitleResult
}

// Resolver composes the song lookup and the title parser.
//
// The strategies run in order until one succeeds:
//  1. look the raw video title up
//  2. parse "Artist - Title" out of the video title
//  3. look "{artist} {title}" up
//
// The last successful lookup supplies the fields. Without one the
// parsed artist and title are carried forward, and failing that only
// the video title survives. Lookup errors and misses fall through.
type Resolver struct {
	lookup     Lookup
	separators []string
	debugf     func(format string, args ...any)
}

// NewResolver creates a Resolver. A nil lookup disables the lookup
// strategies. debugf receives the trace of each attempt and may be nil.
func NewResolver(lookup Lookup, separators []string, debugf func(format string, args ...any)) *Resolver {
	if debugf == nil {
		debugf = func(string, ...any) {}
	}
	return &Resolver{lookup: lookup, separators: separators, debugf: debugf}
}

// Resolve returns the best metadata that can be derived for videoTitle.
// It never fails; an empty Resolution still carries the video title.
func (r *Resolver) Resolve(ctx context.Context, videoTitle string) Resolution {
	videoTitle = strings.TrimSpace(videoTitle)
	res := Resolution{
		Song:   model.SongMetadata{Title: model.OptionalString(videoTitle)},
		Source: SourceTitleOnly,
	}

	if song, ok := r.search(ctx, videoTitle); ok {
		res.Song = res.Song.Merge(song)
		res.Source = SourceLookupRaw
		return res
	}

	res.Parsed = ParseTitle(videoTitle, r.separators)
	if !res.Parsed.OK {
		r.debugf("title %q does not follow the artist/title convention", videoTitle)
		return res
	}
	r.debugf("parsed artist %q, title %q", res.Parsed.Artist, res.Parsed.Title)

	res.Song = res.Song.Merge(model.SongMetadata{
		Title:  model.Some(res.Parsed.Title),
		Artist: model.Some(res.Parsed.Artist),
	})
	res.Source = SourceParsed

	if song, ok := r.search(ctx, res.Parsed.Artist+" "+res.Parsed.Title); ok {
		res.Song = res.Song.Merge(song)
		res.Source = SourceLookupParsed
	}
	return res
}

func (r *Resolver) search(ctx context.Context, term string) (model.SongMetadata, bool) {
	if r.lookup == nil || term == "" {
		return model.SongMetadata{}, false
	}

	found, err := r.lookup.Search(ctx, term)
	switch {
	case err != nil:
		r.debugf("lookup %q failed: %v", term, err)
		return model.SongMetadata{}, false
	case !found.Found:
		r.debugf("lookup %q: no matching song", term)
		return model.SongMetadata{}, false
	}

	r.debugf("lookup %q matched %q by %q (similarity %.2f)",
		term, found.Song.Title.OrElse(""), found.Song.Artist.OrElse(""), found.Similarity)
	return found.Song, true
}
