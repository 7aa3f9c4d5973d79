package app

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/voxnote/voxnote/internal/api"
	"github.com/voxnote/voxnote/internal/config"
	"github.com/voxnote/voxnote/internal/files"
	"github.com/voxnote/voxnote/internal/notify"
	"github.com/voxnote/voxnote/internal/session"
	"github.com/voxnote/voxnote/internal/validate"

	tea "github.com/charmbracelet/bubbletea"
)

// Model is the root bubbletea model. It owns the session state machine and
// is the only place session state is ever mutated: every UI event and every
// network completion flows through Update on the program's single loop.
type Model struct {
	cfg     *config.Config
	log     zerolog.Logger
	client  *api.Client
	check   validate.Validator
	watcher *files.Watcher

	session session.State
	center  *notify.Center

	// File picker
	entries []session.FileRef
	cursor  int
	filesOK bool

	// UI state
	width  int
	height int
}

// New creates the root model.
func New(cfg *config.Config, client *api.Client, watcher *files.Watcher, log zerolog.Logger) Model {
	return Model{
		cfg:     cfg,
		log:     log.With().Str("component", "app").Logger(),
		client:  client,
		watcher: watcher,
		check: validate.Validator{
			Allowed: cfg.Upload.AllowedTypes,
			MaxSize: cfg.MaxFileSize,
		},
		session: session.New(),
		center:  notify.NewCenter(cfg.NotifyDuration),
	}
}

// Init scans the audio directory and starts the watch loop.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{scanFilesCmd(m.cfg.Audio.Dir)}
	if m.watcher != nil {
		cmds = append(cmds, watchChangesCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case FilesLoadedMsg:
		m.entries = msg.Entries
		m.filesOK = true
		if m.cursor >= len(m.entries) {
			m.cursor = max(0, len(m.entries)-1)
		}
		return m, nil

	case FilesErrorMsg:
		m.log.Error().Err(msg.Err).Msg("scanning audio directory")
		m.filesOK = false
		return m.notify(msg.Err.Error(), notify.Error)

	case FileChangedMsg:
		return m, tea.Batch(scanFilesCmd(m.cfg.Audio.Dir), watchChangesCmd(m.watcher))

	case WatchClosedMsg:
		return m, nil

	case TranscriptionDoneMsg:
		if !m.session.ApplyTranscription(msg.ID, msg.Text) {
			m.log.Debug().Str("call_id", msg.ID).Msg("discarding stale transcription result")
			return m, nil
		}
		m.log.Info().Str("call_id", msg.ID).Msg("transcript stored")
		return m.notify("Transcription complete. Press s to summarize.", notify.Success)

	case TranscriptionFailedMsg:
		if !m.session.FailTranscription(msg.ID) {
			m.log.Debug().Str("call_id", msg.ID).Msg("discarding stale transcription failure")
			return m, nil
		}
		return m.notify(api.Message(msg.Err), notify.Error)

	case SummarizationDoneMsg:
		if !m.session.ApplySummarization(msg.ID, msg.Summary, msg.Notes) {
			m.log.Debug().Str("call_id", msg.ID).Msg("discarding stale summarization result")
			return m, nil
		}
		m.log.Info().Str("call_id", msg.ID).Int("notes", len(msg.Notes)).Msg("summary stored")
		return m.notify("Summary and notes ready.", notify.Success)

	case SummarizationFailedMsg:
		if !m.session.FailSummarization(msg.ID) {
			m.log.Debug().Str("call_id", msg.ID).Msg("discarding stale summarization failure")
			return m, nil
		}
		return m.notify(api.Message(msg.Err), notify.Error)

	case NotificationExpiredMsg:
		m.center.Expire(msg.Seq)
		return m, nil
	}

	return m, nil
}

// notify posts a transient notification and schedules its expiry.
func (m Model) notify(text string, sev notify.Severity) (tea.Model, tea.Cmd) {
	n := m.center.Post(text, sev)
	return m, expireNotificationCmd(m.center.TTL(), n.Seq)
}

// handleKey processes key presses. Action keys are gated by the session
// state machine; a key whose guard does not hold is a no-op.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyQuitUpper, KeyCtrlC:
		if m.watcher != nil {
			m.watcher.Close()
		}
		return m, tea.Quit

	case KeyJ, KeyDown:
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
		return m, nil

	case KeyK, KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case KeyEnter:
		return m.selectFile()

	case KeyCategory:
		m.session.CycleCategory()
		return m, nil

	case KeyTranscribe:
		return m.startTranscription()

	case KeySummarize:
		return m.startSummarization()

	case KeyReset:
		// Reset always succeeds, even mid-call; the in-flight response
		// becomes stale and will be dropped when it lands.
		m.session.Reset()
		m.log.Info().Msg("session reset")
		return m, nil
	}

	return m, nil
}

// selectFile validates the file under the cursor and installs it as the
// session's subject. A rejected file clears the selection and shows why.
func (m Model) selectFile() (tea.Model, tea.Cmd) {
	if m.cursor >= len(m.entries) {
		return m, nil
	}
	f := m.entries[m.cursor]

	if err := m.check.Validate(f); err != nil {
		m.log.Warn().Str("file", f.Name).Err(err).Msg("file rejected")
		m.session.ClearSelection()
		return m.notify(err.Error(), notify.Error)
	}

	m.session.SelectFile(f)
	m.log.Info().Str("file", f.Name).Str("type", f.MIMEType).Msg("file selected")
	return m, nil
}

func (m Model) startTranscription() (tea.Model, tea.Cmd) {
	if !m.session.CanTranscribe() {
		return m, nil
	}
	id := uuid.NewString()
	f := *m.session.File
	m.session.BeginTranscription(id)
	m.log.Info().Str("call_id", id).Str("file", f.Name).Msg("transcription started")
	return m, transcribeCmd(m.client, id, f)
}

func (m Model) startSummarization() (tea.Model, tea.Cmd) {
	if !m.session.CanSummarize() {
		return m, nil
	}
	id := uuid.NewString()
	// Capture transcript and category now; changing the category later must
	// not affect this call.
	text := m.session.Transcript
	category := m.session.Category
	m.session.BeginSummarization(id)
	m.log.Info().Str("call_id", id).Str("category", string(category)).Msg("summarization started")
	return m, summarizeCmd(m.client, id, text, category)
}
