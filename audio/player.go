package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// ErrNotLoaded is returned for playback operations before Load.
var ErrNotLoaded = errors.New("audio: no audio loaded")

// Player plays a single PCM buffer with pause, resume, and seek. Positions
// are reported in seconds to match the timing document's clock.
type Player struct {
	format Format

	mu      sync.Mutex
	ctx     *oto.Context
	player  *oto.Player
	reader  *bytes.Reader
	pcm     []byte
	playing bool
}

// NewPlayer initializes the audio device for the given format.
func NewPlayer(f Format) (*Player, error) {
	options := &oto.NewContextOptions{
		SampleRate:   f.SampleRate,
		ChannelCount: f.Channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(options)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio context: %w", err)
	}

	select {
	case <-ready:
	case <-time.After(10 * time.Second):
		return nil, errors.New("audio: device initialization timed out")
	}

	return &Player{format: f, ctx: ctx}, nil
}

// Load replaces the current audio with a new PCM buffer and rewinds.
func (p *Player) Load(pcm []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closePlayerLocked()
	p.pcm = pcm
	p.reader = bytes.NewReader(pcm)
	p.player = p.ctx.NewPlayer(p.reader)
	p.playing = false
}

// Play starts or resumes playback.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.player == nil {
		return ErrNotLoaded
	}
	p.player.Play()
	p.playing = true
	return nil
}

// Pause suspends playback, keeping the position.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.player == nil {
		return ErrNotLoaded
	}
	p.player.Pause()
	p.playing = false
	return nil
}

// IsPlaying reports whether audio is audibly progressing.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.player != nil && p.player.IsPlaying()
}

// Position returns the playback position in seconds.
func (p *Player) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.player == nil || p.reader == nil {
		return 0
	}

	// Bytes handed to the device minus what still sits in its buffer.
	consumed, _ := p.reader.Seek(0, io.SeekCurrent)
	buffered := int64(p.player.BufferedSize())
	pos := consumed - buffered
	if pos < 0 {
		pos = 0
	}
	return float64(pos) / float64(p.format.BytesPerSecond())
}

// Duration returns the loaded audio's length in seconds.
func (p *Player) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return float64(len(p.pcm)) / float64(p.format.BytesPerSecond())
}

// Seek jumps to an absolute position in seconds, clamped to the audio.
func (p *Player) Seek(seconds float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.player == nil {
		return ErrNotLoaded
	}

	offset := int64(seconds * float64(p.format.BytesPerSecond()))
	// Sample-align so a 16-bit frame is never split.
	frame := int64(p.format.Channels * p.format.BitDepth / 8)
	offset -= offset % frame

	if offset < 0 {
		offset = 0
	}
	if max := int64(len(p.pcm)); offset > max {
		offset = max
	}

	if _, err := p.player.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}
	return nil
}

// AtEnd reports whether playback has consumed the whole buffer.
func (p *Player) AtEnd() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.player == nil || p.reader == nil {
		return false
	}
	return p.reader.Len() == 0 && p.player.BufferedSize() == 0
}

// Close releases the player. The audio context itself is process-wide and is
// left for the runtime to reclaim, as oto does not expose a close.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closePlayerLocked()
	return nil
}

func (p *Player) closePlayerLocked() {
	if p.player != nil {
		_ = p.player.Close()
		p.player = nil
	}
	p.playing = false
}
