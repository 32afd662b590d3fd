// Package prompt asks the operator to confirm the metadata written
// into the output file.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/handiism/ytmp3/internal/model"
)

// ErrInterrupted is returned when the operator aborts a prompt with Ctrl-C.
var ErrInterrupted = terminal.InterruptErr

// Confirmer settles the final song metadata. Implementations may block
// for operator input.
type Confirmer interface {
	Confirm(song model.SongMetadata) (model.SongMetadata, error)
}

// question describes one confirmed field.
type question struct {
	name     string
	label    string
	required bool
	field    func(*model.SongMetadata) *model.Optional[string]
}

var questions = []question{
	{model.FieldTitle, "Title", true, func(s *model.SongMetadata) *model.Optional[string] { return &s.Title }},
	{model.FieldArtist, "Artist", true, func(s *model.SongMetadata) *model.Optional[string] { return &s.Artist }},
	{model.FieldAlbum, "Album", false, func(s *model.SongMetadata) *model.Optional[string] { return &s.Album }},
	{model.FieldGenre, "Genre", false, func(s *model.SongMetadata) *model.Optional[string] { return &s.Genre }},
	{model.FieldYear, "Year", false, func(s *model.SongMetadata) *model.Optional[string] { return &s.Year }},
}

// defaultFor returns the pre-filled answer for q.
func defaultFor(q question, song *model.SongMetadata) string {
	v := strings.TrimSpace(q.field(song).OrElse(""))
	if v == "" && q.name == model.FieldAlbum {
		return model.DefaultAlbum
	}
	return v
}

// askFunc matches survey.AskOne.
type askFunc func(p survey.Prompt, response any, opts ...survey.AskOpt) error

// SurveyConfirmer asks for each field on the terminal.
//
// Every question is pre-filled with the current best guess; pressing
// enter keeps it. Title and artist are required, so an empty answer
// without a default is asked again.
type SurveyConfirmer struct {
	ask  askFunc
	opts []survey.AskOpt
}

// NewSurveyConfirmer creates a confirmer reading from in and drawing to out.
func NewSurveyConfirmer(in terminal.FileReader, out terminal.FileWriter, errOut io.Writer) *SurveyConfirmer {
	return &SurveyConfirmer{
		ask:  survey.AskOne,
		opts: []survey.AskOpt{survey.WithStdio(in, out, errOut)},
	}
}

// Confirm asks the five questions in order and returns the answers.
func (c *SurveyConfirmer) Confirm(song model.SongMetadata) (model.SongMetadata, error) {
	for _, q := range questions {
		def := defaultFor(q, &song)

		opts := append([]survey.AskOpt{}, c.opts...)
		if q.required {
			opts = append(opts, survey.WithValidator(survey.Required))
		}

		var answer string
		p := &survey.Input{Message: q.label + ":", Default: def}
		if err := c.ask(p, &answer, opts...); err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				return song, ErrInterrupted
			}
			return song, fmt.Errorf("ask %s: %w", q.name, err)
		}

		*q.field(&song) = choose(answer, def)
	}
	return song, nil
}

// choose prefers a typed answer over the default.
func choose(answer, def string) model.Optional[string] {
	if v := strings.TrimSpace(answer); v != "" {
		return model.Some(v)
	}
	return model.OptionalString(def)
}

// AutoConfirmer accepts every default without asking. It is used with
// --yes and when stdin is not a terminal.
type AutoConfirmer struct{}

// Confirm fills in the default album and returns song otherwise unchanged.
// It fails when no title is known, since nothing could be asked instead.
func (AutoConfirmer) Confirm(song model.SongMetadata) (model.SongMetadata, error) {
	for _, q := range questions {
		*q.field(&song) = model.OptionalString(defaultFor(q, &song))
	}
	if !song.Title.IsSet() {
		return song, errors.New("no title known and prompting is disabled")
	}
	return song, nil
}
