package download

import (
	"context"
	"errors"
	"fmt"

	"github.com/handiism/ytmp3/internal/config"
	"github.com/handiism/ytmp3/internal/prompt"
	"github.com/handiism/ytmp3/internal/youtube"
)

// Stage identifies one step of the pipeline.
type Stage int

const (
	StageFetch Stage = iota
	StageDownload
	StageTranscode
	StageTag
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageFetch:
		return "fetch"
	case StageDownload:
		return "download"
	case StageTranscode:
		return "transcode"
	case StageTag:
		return "tag"
	case StageDone:
		return "done"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// ErrUsage reports invalid invocation, such as a missing URL.
var ErrUsage = errors.New("usage error")

// StageError is a fatal failure of a stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Process exit codes. They are stable for scripts.
const (
	ExitOK          = 0
	ExitRuntime     = 1
	ExitUsage       = 2
	ExitFetch       = 3
	ExitDownload    = 4
	ExitTranscode   = 5
	ExitFinalize    = 6
	ExitInterrupted = 130
)

// ExitCode maps err to the exit code of its failure class.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, prompt.ErrInterrupted) {
		return ExitInterrupted
	}

	var verr *config.ValidationError
	if errors.Is(err, ErrUsage) || errors.Is(err, youtube.ErrNoAudioFormat) || errors.As(err, &verr) {
		return ExitUsage
	}

	var serr *StageError
	if errors.As(err, &serr) {
		switch serr.Stage {
		case StageFetch:
			return ExitFetch
		case StageDownload:
			return ExitDownload
		case StageTranscode:
			return ExitTranscode
		case StageTag:
			return ExitFinalize
		}
	}
	return ExitRuntime
}
