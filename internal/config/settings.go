package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/mitchellh/go-homedir"

	"github.com/handiism/ytmp3/internal/audio"
	"github.com/handiism/ytmp3/internal/itunes"
	"github.com/handiism/ytmp3/internal/transcode"
)

// DefaultPath is where settings are read from when no path is given.
const DefaultPath = "~/.config/ytmp3/config.json"

// Settings holds all configuration options.
//
// Values come from DefaultSettings, then the settings file, then
// YTMP3_* environment variables. Command-line flags are applied last
// by the caller.
type Settings struct {
	// Title parsing
	Separators []string `json:"separators" yaml:"separators" env:"YTMP3_SEPARATORS" env-separator:"," validate:"min=1,dive,required"`

	// Format selection and transcoding
	LowQuality     bool   `json:"low_quality" yaml:"low_quality" env:"YTMP3_LOW_QUALITY"`
	Bitrate        int    `json:"bitrate" yaml:"bitrate" env:"YTMP3_BITRATE" validate:"omitempty,min=32,max=320"` // 0 keeps the source bitrate
	FfmpegBinPath  string `json:"ffmpeg_binary" yaml:"ffmpeg_binary" env:"YTMP3_FFMPEG_BINARY"`
	FfprobeBinPath string `json:"ffprobe_binary" yaml:"ffprobe_binary" env:"YTMP3_FFPROBE_BINARY"`

	// Intermediate files
	Intermediate bool `json:"intermediate" yaml:"intermediate" env:"YTMP3_INTERMEDIATE"`
	KeepVideo    bool `json:"keep_video" yaml:"keep_video" env:"YTMP3_KEEP_VIDEO"`

	// Song lookup
	LookupEnabled  bool   `json:"lookup_enabled" yaml:"lookup_enabled" env:"YTMP3_LOOKUP"`
	LookupEndpoint string `json:"lookup_endpoint" yaml:"lookup_endpoint" env:"YTMP3_LOOKUP_ENDPOINT" validate:"required,url"`
	LookupCountry  string `json:"lookup_country" yaml:"lookup_country" env:"YTMP3_LOOKUP_COUNTRY" validate:"len=2,alpha"`
	LookupLimit    int    `json:"lookup_limit" yaml:"lookup_limit" env:"YTMP3_LOOKUP_LIMIT" validate:"min=1,max=200"`
	HTTPTimeout    int    `json:"http_timeout_seconds" yaml:"http_timeout_seconds" env:"YTMP3_HTTP_TIMEOUT" validate:"min=1"`

	// Cover art settings
	EmbedArtwork   bool `json:"embed_artwork" yaml:"embed_artwork" env:"YTMP3_ARTWORK"`
	ArtworkMaxSize int  `json:"artwork_max_size" yaml:"artwork_max_size" env:"YTMP3_ARTWORK_MAX_SIZE" validate:"min=100,max=3000"`

	// Playlist settings
	Playlist    string `json:"playlist" yaml:"playlist" env:"YTMP3_PLAYLIST"`
	M3UExtended bool   `json:"m3u_extended" yaml:"m3u_extended" env:"YTMP3_M3U_EXTENDED"`

	// Tag settings
	ModifyTags bool `json:"modify_tags" yaml:"modify_tags" env:"YTMP3_MODIFY_TAGS"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	lookup := itunes.DefaultConfig()
	return &Settings{
		Separators: []string{"-", "—"},

		FfmpegBinPath:  "ffmpeg",
		FfprobeBinPath: "ffprobe",

		LookupEnabled:  true,
		LookupEndpoint: lookup.Endpoint,
		LookupCountry:  lookup.Country,
		LookupLimit:    lookup.Limit,
		HTTPTimeout:    30,

		EmbedArtwork:   true,
		ArtworkMaxSize: lookup.ArtworkSize,

		M3UExtended: true,

		ModifyTags: true,
	}
}

// ResolvePath expands a leading ~ in path. An empty path resolves DefaultPath.
func ResolvePath(path string) (string, error) {
	if path == "" {
		path = DefaultPath
	}
	return homedir.Expand(path)
}

// Load reads settings from a JSON or YAML file, chosen by extension,
// and applies environment overrides.
//
// A missing file is not an error: defaults plus environment are used.
// The result is validated.
func Load(path string) (*Settings, error) {
	resolved, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}

	settings := DefaultSettings()
	if _, statErr := os.Stat(resolved); statErr == nil {
		if err := cleanenv.ReadConfig(resolved, settings); err != nil {
			return nil, fmt.Errorf("failed to load configuration from %s: %w", resolved, err)
		}
	} else if os.IsNotExist(statErr) {
		if err := cleanenv.ReadEnv(settings); err != nil {
			return nil, fmt.Errorf("failed to read environment configuration: %w", err)
		}
	} else {
		return nil, statErr
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	resolved, err := ResolvePath(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(resolved, data, 0644)
}

var validate = validator.New()

// Validate checks every setting against its constraints.
func (s *Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return &ValidationError{Problems: msgs}
}

// ValidationError lists every setting that failed validation.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min", "max":
		return fmt.Sprintf("%s must be %s %s (got %v)", fe.Field(), map[string]string{"min": "at least", "max": "at most"}[fe.Tag()], fe.Param(), fe.Value())
	case "required":
		return fmt.Sprintf("%s must not be empty", fe.Field())
	case "url":
		return fmt.Sprintf("%s must be a URL (got %q)", fe.Field(), fe.Value())
	case "len":
		return fmt.Sprintf("%s must be %s characters long", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag())
	}
}

// Timeout returns the HTTP timeout as a duration.
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.HTTPTimeout) * time.Second
}

// ToLookupConfig converts settings to the song lookup configuration.
func (s *Settings) ToLookupConfig() itunes.Config {
	return itunes.Config{
		Endpoint:    s.LookupEndpoint,
		Country:     s.LookupCountry,
		Limit:       s.LookupLimit,
		ArtworkSize: s.ArtworkMaxSize,
	}
}

// ToTranscodeConfig converts settings to the ffmpeg configuration.
func (s *Settings) ToTranscodeConfig() transcode.Config {
	return transcode.Config{
		FfmpegBinPath:  s.FfmpegBinPath,
		FfprobeBinPath: s.FfprobeBinPath,
	}
}

// ToTagConfig converts settings to the tagging configuration.
func (s *Settings) ToTagConfig() *audio.TagConfig {
	cfg := audio.DefaultTagConfig()
	cfg.ModifyTags = s.ModifyTags
	return cfg
}
