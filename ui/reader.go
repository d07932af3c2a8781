// Package ui implements the terminal reader: audio playback with
// karaoke-style word highlighting driven by the timing document.
package ui

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dgnsrekt/readaloud/timing"
	"github.com/dgnsrekt/readaloud/timing/sync"
)

// Player is the playback surface the reader drives. audio.Player satisfies
// it; tests substitute a fake clock.
type Player interface {
	Play() error
	Pause() error
	Seek(seconds float64) error
	Position() float64
	AtEnd() bool
	Close() error
}

const tickInterval = 200 * time.Millisecond

type tickMsg time.Time

type clearFlashMsg struct{}

// Reader is the bubbletea model for the reading session.
type Reader struct {
	title  string
	doc    *timing.Document
	player Player

	keys     keyMap
	help     help.Model
	progress progress.Model

	state    sync.DisplayState
	paused   bool
	finished bool
	flash    string

	width  int
	height int
}

// NewReader creates a reader for a timing document and a loaded player.
func NewReader(title string, doc *timing.Document, player Player) *Reader {
	return &Reader{
		title:    title,
		doc:      doc,
		player:   player,
		keys:     defaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithGradient("#1C8760", "#89F0CB")),
		state:    sync.Resolve(doc, 0, 1.0),
		width:    80,
	}
}

// Init starts playback and the resolver tick.
func (r *Reader) Init() tea.Cmd {
	if err := r.player.Play(); err != nil {
		r.paused = true
		r.flash = fmt.Sprintf("playback error: %v", err)
	}
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (r *Reader) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height
		r.help.Width = msg.Width
		r.progress.Width = min(msg.Width-4, 60)
		return r, nil

	case tickMsg:
		r.state = sync.Resolve(r.doc, r.player.Position(), 1.0)
		if !r.paused && r.player.AtEnd() {
			r.finished = true
			r.paused = true
		}
		return r, tick()

	case clearFlashMsg:
		r.flash = ""
		return r, nil

	case tea.KeyMsg:
		return r.handleKey(msg)
	}

	return r, nil
}

func (r *Reader) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, r.keys.Quit):
		_ = r.player.Close()
		return r, tea.Quit

	case key.Matches(msg, r.keys.PlayPause):
		if r.paused {
			if r.finished {
				_ = r.player.Seek(0)
				r.finished = false
			}
			_ = r.player.Play()
			r.paused = false
		} else {
			_ = r.player.Pause()
			r.paused = true
		}
		return r, nil

	case key.Matches(msg, r.keys.PrevSentence):
		return r, r.seekSentence(-1)

	case key.Matches(msg, r.keys.NextSentence):
		return r, r.seekSentence(+1)

	case key.Matches(msg, r.keys.Restart):
		_ = r.player.Seek(0)
		r.finished = false
		r.state = sync.Resolve(r.doc, 0, 1.0)
		return r, nil

	case key.Matches(msg, r.keys.Copy):
		if r.state.CurrentSentence != nil {
			if err := clipboard.WriteAll(r.state.CurrentSentence.Text); err != nil {
				r.flash = "copy failed"
			} else {
				r.flash = "sentence copied"
			}
			return r, flashTimeout()
		}
		return r, nil

	case key.Matches(msg, r.keys.Help):
		r.help.ShowAll = !r.help.ShowAll
		return r, nil
	}

	return r, nil
}

func flashTimeout() tea.Cmd {
	return tea.Tick(1500*time.Millisecond, func(time.Time) tea.Msg {
		return clearFlashMsg{}
	})
}

// seekSentence jumps playback by whole sentences. Going back from partway
// through a sentence restarts it first, like music players do.
func (r *Reader) seekSentence(delta int) tea.Cmd {
	idx := r.state.CurrentSentenceIndex
	if idx < 0 {
		return nil
	}

	target := idx + delta
	if delta < 0 && r.state.SentenceProgress > 0.15 {
		target = idx
	}

	t := sync.SentenceToTime(r.doc, target, 0)
	_ = r.player.Seek(t)
	r.finished = false
	r.state = sync.Resolve(r.doc, t, 1.0)
	return nil
}

// View implements tea.Model.
func (r *Reader) View() string {
	width := r.width
	textWidth := min(width-2, 76)

	var b []string

	b = append(b, titleStyle.Render(runewidth.Truncate(r.title, width-1, "…")))
	b = append(b, "")

	if r.state.CurrentSentenceIndex < 0 {
		b = append(b, contextSentenceStyle.Render("no timing data"))
	} else {
		if prev := renderContext(r.state.PreviousSentence, textWidth); prev != "" {
			b = append(b, prev)
		}
		b = append(b, renderSentence(r.state.CurrentSentence, r.state.CurrentTime, textWidth))
		if next := renderContext(r.state.NextSentence, textWidth); next != "" {
			b = append(b, next)
		}
	}

	b = append(b, "")
	b = append(b, r.progress.ViewAs(clampUnit(r.state.TotalProgress)))
	b = append(b, r.statusLine())
	b = append(b, r.help.View(r.keys))

	return lipgloss.JoinVertical(lipgloss.Left, b...) + "\n"
}

func (r *Reader) statusLine() string {
	status := fmt.Sprintf(" %s / %s · sentence %d/%d ",
		formatClock(r.state.CurrentTime),
		formatClock(r.doc.AudioDuration),
		r.state.CurrentSentenceIndex+1,
		len(r.doc.Sentences))

	line := statusBarStyle.Render(status)
	switch {
	case r.flash != "":
		line += " " + flashStyle.Render(r.flash)
	case r.finished:
		line += " " + pausedStyle.Render("finished")
	case r.paused:
		line += " " + pausedStyle.Render("paused")
	}
	return line
}

func formatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	d := time.Duration(seconds * float64(time.Second))
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
