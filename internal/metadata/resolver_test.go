package metadata

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/ytmp3/internal/itunes"
	"github.com/handiism/ytmp3/internal/model"
)

type fakeLookup struct {
	answers map[string]itunes.LookupResult
	errs    map[string]error
	terms   []string
}

func (f *fakeLookup) Search(_ context.Context, term string) (itunes.LookupResult, error) {
	f.terms = append(f.terms, term)
	if err := f.errs[term]; err != nil {
		return itunes.LookupResult{}, err
	}
	return f.answers[term], nil
}

func found(title, artist, album string) itunes.LookupResult {
	return itunes.LookupResult{
		Found: true,
		Song: model.SongMetadata{
			Title:  model.Some(title),
			Artist: model.Some(artist),
			Album:  model.Some(album),
			Year:   model.Some("1969"),
		},
	}
}

func TestResolve_RawLookup(t *testing.T) {
	lookup := &fakeLookup{answers: map[string]itunes.LookupResult{
		"The Beatles - Come Together": found("Come Together", "The Beatles", "Abbey Road"),
	}}

	res := NewResolver(lookup, nil, t.Logf).Resolve(context.Background(), "The Beatles - Come Together")

	assert.Equal(t, SourceLookupRaw, res.Source)
	assert.Equal(t, "Abbey Road", res.Song.Album.OrElse(""))
	assert.Equal(t, []string{"The Beatles - Come Together"}, lookup.terms)
}

func TestResolve_ParsedLookup(t *testing.T) {
	lookup := &fakeLookup{answers: map[string]itunes.LookupResult{
		"The Beatles Come Together": found("Come Together", "The Beatles", "Abbey Road"),
	}}

	res := NewResolver(lookup, []string{"-"}, t.Logf).Resolve(context.Background(), "The Beatles - Come Together (Official Video)")

	assert.Equal(t, SourceLookupParsed, res.Source)
	assert.Equal(t, "Come Together", res.Song.Title.OrElse(""))
	assert.Equal(t, "Abbey Road", res.Song.Album.OrElse(""))
	require.Len(t, lookup.terms, 2)
	assert.Equal(t, "The Beatles Come Together", lookup.terms[1])
}

func TestResolve_ParsedOnly(t *testing.T) {
	lookup := &fakeLookup{errs: map[string]error{
		"Artist - Song": errors.New("network down"),
	}}

	res := NewResolver(lookup, []string{"-"}, t.Logf).Resolve(context.Background(), "Artist - Song")

	assert.Equal(t, SourceParsed, res.Source)
	assert.Equal(t, "Song", res.Song.Title.OrElse(""))
	assert.Equal(t, "Artist", res.Song.Artist.OrElse(""))
	assert.False(t, res.Song.Album.IsSet())
	assert.True(t, res.Parsed.OK)
}

func TestResolve_TitleOnly(t *testing.T) {
	lookup := &fakeLookup{}

	res := NewResolver(lookup, []string{"-"}, nil).Resolve(context.Background(), "  Untitled Jam  ")

	assert.Equal(t, SourceTitleOnly, res.Source)
	assert.Equal(t, "Untitled Jam", res.Song.Title.OrElse(""))
	assert.False(t, res.Song.Artist.IsSet())
	assert.Len(t, lookup.terms, 1, "no second lookup without a parsed title")
}

func TestResolve_NoLookup(t *testing.T) {
	res := NewResolver(nil, nil, nil).Resolve(context.Background(), "Artist — Song")

	assert.Equal(t, SourceParsed, res.Source)
	assert.Equal(t, "Artist", res.Song.Artist.OrElse(""))
}
