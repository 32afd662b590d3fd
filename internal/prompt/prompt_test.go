package prompt

import (
	"errors"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/ytmp3/internal/model"
)

// scripted answers prompts in order and records what it was asked.
type scripted struct {
	answers  []string
	messages []string
	defaults []string
	err      error
}

func (s *scripted) ask(p survey.Prompt, response any, opts ...survey.AskOpt) error {
	in := p.(*survey.Input)
	s.messages = append(s.messages, in.Message)
	s.defaults = append(s.defaults, in.Default)
	if s.err != nil {
		return s.err
	}

	answer := ""
	if len(s.answers) > 0 {
		answer, s.answers = s.answers[0], s.answers[1:]
	}
	// survey substitutes the default for an empty line.
	if answer == "" {
		answer = in.Default
	}
	*(response.(*string)) = answer
	return nil
}

func TestSurveyConfirmer_Confirm(t *testing.T) {
	s := &scripted{answers: []string{"", "Someone Else", "", "Jazz", ""}}
	c := &SurveyConfirmer{ask: s.ask}

	got, err := c.Confirm(model.SongMetadata{
		Title:  model.Some("Song"),
		Artist: model.Some("Artist"),
		Year:   model.Some("2001"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Title:", "Artist:", "Album:", "Genre:", "Year:"}, s.messages)
	assert.Equal(t, []string{"Song", "Artist", model.DefaultAlbum, "", "2001"}, s.defaults)

	assert.Equal(t, "Song", got.Title.OrElse(""))
	assert.Equal(t, "Someone Else", got.Artist.OrElse(""))
	assert.Equal(t, model.DefaultAlbum, got.Album.OrElse(""))
	assert.Equal(t, "Jazz", got.Genre.OrElse(""))
	assert.Equal(t, "2001", got.Year.OrElse(""))
}

func TestSurveyConfirmer_BlankOptionalStaysUnset(t *testing.T) {
	s := &scripted{answers: []string{"T", "A", "", "", ""}}
	c := &SurveyConfirmer{ask: s.ask}

	got, err := c.Confirm(model.SongMetadata{})
	require.NoError(t, err)
	assert.False(t, got.Genre.IsSet())
	assert.False(t, got.Year.IsSet())
}

func TestSurveyConfirmer_Interrupted(t *testing.T) {
	s := &scripted{err: terminal.InterruptErr}
	c := &SurveyConfirmer{ask: s.ask}

	_, err := c.Confirm(model.SongMetadata{Title: model.Some("x")})
	assert.True(t, errors.Is(err, ErrInterrupted))
	assert.Len(t, s.messages, 1)
}

func TestAutoConfirmer(t *testing.T) {
	got, err := AutoConfirmer{}.Confirm(model.SongMetadata{Title: model.Some(" Song "), Artist: model.Some("")})
	require.NoError(t, err)
	assert.Equal(t, "Song", got.Title.OrElse(""))
	assert.False(t, got.Artist.IsSet())
	assert.Equal(t, model.DefaultAlbum, got.Album.OrElse(""))

	_, err = AutoConfirmer{}.Confirm(model.SongMetadata{})
	assert.Error(t, err)
}
