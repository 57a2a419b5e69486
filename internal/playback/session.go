package playback

import (
	"log/slog"

	"lectern/internal/logging"
	"lectern/internal/worksheet"
)

// Mode selects how narration is presented.
type Mode int

const (
	ModeText Mode = iota
	ModePresentation
)

func (m Mode) String() string {
	if m == ModePresentation {
		return "presentation"
	}
	return "text"
}

// TranscriptEntry is one narration step that has been shown to the user.
// The transcript is append-only within a region activation.
type TranscriptEntry struct {
	RegionID  string
	StepIndex int
	Text      string
}

// Session is the per-page region interaction state machine. It owns which
// region is active, which narration step is shown, and the view mode, and it
// drives the synchronizer so the audio/video pair always reflects the latest
// user action.
//
// A session is single-goroutine, matching the cooperative UI event loop it
// models. Every action that changes what should be audible bumps the
// generation, which supersedes in-flight loads and scheduled fallbacks.
type Session struct {
	worksheetID string
	sync        *Synchronizer
	logger      *slog.Logger

	gen        uint64
	active     bool
	region     worksheet.Region
	stepIndex  int
	mode       Mode
	transcript []TranscriptEntry
}

// NewSession creates an idle session for one worksheet page view.
func NewSession(worksheetID string, sync *Synchronizer, logger *slog.Logger) *Session {
	return &Session{
		worksheetID: worksheetID,
		sync:        sync,
		logger:      logging.NewComponentLogger(logger, "session"),
	}
}

// Click activates a region at step zero in text mode. Clicking the region
// that is already active restarts its narration from the beginning; this is
// deliberate and not idempotent.
func (s *Session) Click(region worksheet.Region) {
	s.gen++
	s.sync.Stop(s.gen)

	s.active = true
	s.region = region
	s.stepIndex = 0
	s.mode = ModeText
	s.transcript = s.transcript[:0]
	s.appendTranscript()

	s.logger.Debug("region activated",
		logging.String(logging.FieldWorksheetID, s.worksheetID),
		logging.String(logging.FieldRegion, region.Name),
		logging.Uint64("generation", s.gen))
	s.startCurrentStep()
}

// AdvanceStep moves to the next narration step. At the last step it is a
// no-op: state and transcript stay unchanged.
func (s *Session) AdvanceStep() {
	if !s.active || s.stepIndex >= len(s.region.Steps)-1 {
		return
	}
	s.stepIndex++
	s.appendTranscript()
	s.gen++
	s.startCurrentStep()
}

// ToggleMode flips between text and presentation without touching the step
// index. Entering presentation stops audio immediately; returning to text
// replays the current step's audio from its start.
func (s *Session) ToggleMode() {
	if !s.active {
		return
	}
	if s.mode == ModeText {
		s.mode = ModePresentation
		s.gen++
		s.sync.Suspend(s.gen)
		return
	}
	s.mode = ModeText
	s.gen++
	s.startCurrentStep()
}

// NavigateAway tears the session down: audio and video are stopped and zeroed
// synchronously before any new page load may begin, and the transcript is
// released.
func (s *Session) NavigateAway() {
	s.gen++
	s.sync.Stop(s.gen)
	s.active = false
	s.region = worksheet.Region{}
	s.stepIndex = 0
	s.mode = ModeText
	s.transcript = nil
}

func (s *Session) startCurrentStep() {
	if s.stepIndex >= len(s.region.Steps) {
		return
	}
	s.sync.StartNarration(s.gen, s.region.AudioClip(s.worksheetID, s.stepIndex))
}

func (s *Session) appendTranscript() {
	if s.stepIndex >= len(s.region.Steps) {
		return
	}
	s.transcript = append(s.transcript, TranscriptEntry{
		RegionID:  s.region.ID,
		StepIndex: s.stepIndex,
		Text:      s.region.Steps[s.stepIndex],
	})
}

// Active reports whether a region is currently activated.
func (s *Session) Active() bool { return s.active }

// ActiveRegion returns the activated region, if any.
func (s *Session) ActiveRegion() (worksheet.Region, bool) {
	return s.region, s.active
}

// StepIndex returns the 0-based index of the narration step on display.
func (s *Session) StepIndex() int { return s.stepIndex }

// Mode returns the current presentation mode.
func (s *Session) Mode() Mode { return s.mode }

// Transcript returns the steps shown so far, oldest first. The returned slice
// is a copy.
func (s *Session) Transcript() []TranscriptEntry {
	out := make([]TranscriptEntry, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Generation exposes the current supersession token so hosts can route media
// events back to the synchronizer.
func (s *Session) Generation() uint64 { return s.gen }

// Synchronizer returns the media synchronizer owned by this session.
func (s *Session) Synchronizer() *Synchronizer { return s.sync }
