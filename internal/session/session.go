// Package session holds the single-session pipeline state: which file is
// selected, how far through transcribe → summarize it has progressed, and
// which user actions are currently allowed. The state machine is pure —
// network calls and rendering live elsewhere; callers feed results back in
// through the Apply/Fail methods.
package session

// Stage is the discrete phase of the pipeline. It drives which actions are
// enabled in the UI.
type Stage int

const (
	StageIdle Stage = iota
	StageFileSelected
	StageTranscribing
	StageTranscribed
	StageSummarizing
	StageSummarized
	StageError
)

// String returns the stage name for status display and logging.
func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageFileSelected:
		return "file selected"
	case StageTranscribing:
		return "transcribing"
	case StageTranscribed:
		return "transcribed"
	case StageSummarizing:
		return "summarizing"
	case StageSummarized:
		return "summarized"
	case StageError:
		return "error"
	default:
		return "unknown"
	}
}

// Busy reports whether a remote call is outstanding.
func (s Stage) Busy() bool {
	return s == StageTranscribing || s == StageSummarizing
}

// Category describes the kind of audio being processed. It is sent verbatim
// to the summarization service.
type Category string

const (
	CategoryMeeting   Category = "meeting"
	CategoryLecture   Category = "lecture"
	CategoryInterview Category = "interview"
	CategoryOther     Category = "other"
)

// Categories returns the selectable categories in display order.
func Categories() []Category {
	return []Category{CategoryMeeting, CategoryLecture, CategoryInterview, CategoryOther}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryMeeting, CategoryLecture, CategoryInterview, CategoryOther:
		return true
	}
	return false
}

// FileRef identifies a candidate audio file by metadata only. The file
// contents are never read until an upload is issued.
type FileRef struct {
	Name      string
	Path      string
	MIMEType  string
	SizeBytes int64
}

// State is the session's complete mutable state. A State is only ever
// mutated from the program's single update loop, so no locking is needed.
//
// Each outstanding remote call is tagged with an ID at the moment it is
// issued. A response is applied only while its ID is still the pending one;
// anything else — a response for a file the user has since replaced, or one
// arriving after a reset — is discarded without touching state.
type State struct {
	Stage      Stage
	File       *FileRef
	Category   Category
	Transcript string
	Summary    string
	Notes      []string

	pendingTranscription string
	pendingSummarization string
}

// New returns the initial session state.
func New() State {
	return State{Stage: StageIdle, Category: CategoryMeeting}
}

// SelectFile installs a validated file as the session's subject. Any prior
// transcript, summary and notes are cleared, and responses to calls issued
// for the previous file will no longer match their pending IDs.
func (s *State) SelectFile(f FileRef) {
	s.File = &f
	s.Transcript = ""
	s.Summary = ""
	s.Notes = nil
	s.pendingTranscription = ""
	s.pendingSummarization = ""
	s.Stage = StageFileSelected
}

// ClearSelection drops the current selection, returning to the initial
// state. Used after a file fails validation.
func (s *State) ClearSelection() {
	cat := s.Category
	*s = New()
	s.Category = cat
}

// Reset reinitializes the session from scratch. It succeeds unconditionally,
// including while a remote call is in flight; the eventual response will be
// discarded by the pending-ID check.
func (s *State) Reset() {
	*s = New()
}

// CanTranscribe reports whether a transcription may be started now.
func (s *State) CanTranscribe() bool {
	return s.Stage == StageFileSelected && s.File != nil
}

// CanSummarize reports whether a summarization may be started now.
// Re-summarizing an already summarized transcript (for example with a
// different category) is allowed.
func (s *State) CanSummarize() bool {
	return (s.Stage == StageTranscribed || s.Stage == StageSummarized) && s.Transcript != ""
}

// BeginTranscription marks a transcription call as outstanding under the
// given ID. Returns false, without side effects, if the guard does not hold.
func (s *State) BeginTranscription(id string) bool {
	if !s.CanTranscribe() || id == "" {
		return false
	}
	s.pendingTranscription = id
	s.Stage = StageTranscribing
	return true
}

// ApplyTranscription stores a successful transcription result. The result
// is honored only while the matching call is still the pending one.
func (s *State) ApplyTranscription(id, text string) bool {
	if s.Stage != StageTranscribing || id == "" || id != s.pendingTranscription {
		return false
	}
	s.pendingTranscription = ""
	s.Transcript = text
	s.Stage = StageTranscribed
	return true
}

// FailTranscription records a failed transcription call, returning to the
// last stable pre-call state so the user can retry without re-picking the
// file. Stale failures are discarded like stale successes.
func (s *State) FailTranscription(id string) bool {
	if s.Stage != StageTranscribing || id == "" || id != s.pendingTranscription {
		return false
	}
	s.pendingTranscription = ""
	s.Stage = StageFileSelected
	return true
}

// BeginSummarization marks a summarization call as outstanding under the
// given ID.
func (s *State) BeginSummarization(id string) bool {
	if !s.CanSummarize() || id == "" {
		return false
	}
	s.pendingSummarization = id
	s.Stage = StageSummarizing
	return true
}

// ApplySummarization stores a successful summarization result.
func (s *State) ApplySummarization(id, summary string, notes []string) bool {
	if s.Stage != StageSummarizing || id == "" || id != s.pendingSummarization {
		return false
	}
	s.pendingSummarization = ""
	s.Summary = summary
	s.Notes = notes
	s.Stage = StageSummarized
	return true
}

// FailSummarization records a failed summarization call. The transcript is
// kept so the user can retry; any partial summary state is cleared.
func (s *State) FailSummarization(id string) bool {
	if s.Stage != StageSummarizing || id == "" || id != s.pendingSummarization {
		return false
	}
	s.pendingSummarization = ""
	s.Summary = ""
	s.Notes = nil
	s.Stage = StageTranscribed
	return true
}

// SetCategory updates the selected category. Unknown values are ignored.
// The category only takes effect for summarizations issued afterwards; an
// in-flight call keeps the category it was issued with.
func (s *State) SetCategory(c Category) {
	if c.Valid() {
		s.Category = c
	}
}

// CycleCategory advances to the next category in display order.
func (s *State) CycleCategory() {
	cats := Categories()
	for i, c := range cats {
		if c == s.Category {
			s.Category = cats[(i+1)%len(cats)]
			return
		}
	}
	s.Category = cats[0]
}
