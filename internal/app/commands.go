package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/voxnote/voxnote/internal/api"
	"github.com/voxnote/voxnote/internal/files"
	"github.com/voxnote/voxnote/internal/session"
)

// scanFilesCmd lists the audio directory.
func scanFilesCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		entries, err := files.Scan(dir)
		if err != nil {
			return FilesErrorMsg{Err: err}
		}
		return FilesLoadedMsg{Entries: entries}
	}
}

// watchChangesCmd waits for the next directory change signal. The handler
// re-issues this command after each signal, forming a read loop.
func watchChangesCmd(w *files.Watcher) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-w.Changes(); !ok {
			return WatchClosedMsg{}
		}
		return FileChangedMsg{}
	}
}

// transcribeCmd uploads the file for transcription. The result carries the
// call ID so a response for an abandoned call can be discarded.
func transcribeCmd(client *api.Client, id string, f session.FileRef) tea.Cmd {
	return func() tea.Msg {
		text, err := client.Transcribe(context.Background(), f)
		if err != nil {
			return TranscriptionFailedMsg{ID: id, Err: err}
		}
		return TranscriptionDoneMsg{ID: id, Text: text}
	}
}

// summarizeCmd sends the transcript and the category captured at issue time.
func summarizeCmd(client *api.Client, id, text string, category session.Category) tea.Cmd {
	return func() tea.Msg {
		result, err := client.Summarize(context.Background(), text, category)
		if err != nil {
			return SummarizationFailedMsg{ID: id, Err: err}
		}
		return SummarizationDoneMsg{ID: id, Summary: result.Summary, Notes: result.Notes}
	}
}

// expireNotificationCmd fires after the visible duration to retire the
// notification with the given seq.
func expireNotificationCmd(ttl time.Duration, seq int) tea.Cmd {
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return NotificationExpiredMsg{Seq: seq}
	})
}
