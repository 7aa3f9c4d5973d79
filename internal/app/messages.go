package app

import "github.com/voxnote/voxnote/internal/session"

// FilesLoadedMsg carries a fresh scan of the audio directory.
type FilesLoadedMsg struct {
	Entries []session.FileRef
}

// FilesErrorMsg is sent when scanning the audio directory fails.
type FilesErrorMsg struct {
	Err error
}

// FileChangedMsg signals that the audio directory changed and should be
// rescanned.
type FileChangedMsg struct{}

// WatchClosedMsg is sent when the directory watcher shuts down.
type WatchClosedMsg struct{}

// TranscriptionDoneMsg carries a successful transcription. ID identifies
// the call it answers; the controller discards it if the session has moved
// on since the call was issued.
type TranscriptionDoneMsg struct {
	ID   string
	Text string
}

// TranscriptionFailedMsg carries a failed transcription.
type TranscriptionFailedMsg struct {
	ID  string
	Err error
}

// SummarizationDoneMsg carries a successful summarization.
type SummarizationDoneMsg struct {
	ID      string
	Summary string
	Notes   []string
}

// SummarizationFailedMsg carries a failed summarization.
type SummarizationFailedMsg struct {
	ID  string
	Err error
}

// NotificationExpiredMsg retires the notification with the given seq. A
// stale seq (the slot has been replaced since the timer was armed) is
// ignored.
type NotificationExpiredMsg struct {
	Seq int
}
