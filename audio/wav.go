// Package audio handles WAV encoding and playback of synthesized PCM.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Format describes raw PCM produced by a TTS engine.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// DefaultFormat matches the engines' output: 22050 Hz mono 16-bit.
var DefaultFormat = Format{SampleRate: 22050, Channels: 1, BitDepth: 16}

// ErrInvalidWAV is returned for malformed or unsupported WAV data.
var ErrInvalidWAV = errors.New("audio: invalid WAV data")

// BytesPerSecond returns the PCM data rate for the format.
func (f Format) BytesPerSecond() int {
	return f.SampleRate * f.Channels * f.BitDepth / 8
}

// EncodeWAV wraps raw PCM in a canonical 44-byte RIFF/WAVE header.
func EncodeWAV(pcm []byte, f Format) []byte {
	dataLen := len(pcm)
	blockAlign := f.Channels * f.BitDepth / 8

	out := make([]byte, 44+dataLen)
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+dataLen))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(out[22:24], uint16(f.Channels))
	binary.LittleEndian.PutUint32(out[24:28], uint32(f.SampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(f.BytesPerSecond()))
	binary.LittleEndian.PutUint16(out[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:36], uint16(f.BitDepth))

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(dataLen))
	copy(out[44:], pcm)

	return out
}

// DecodeWAV extracts the PCM payload and format from WAV data. Only
// uncompressed PCM is supported; extra chunks before data are skipped.
func DecodeWAV(wav []byte) ([]byte, Format, error) {
	var f Format

	if len(wav) < 12 || string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, f, fmt.Errorf("%w: missing RIFF/WAVE header", ErrInvalidWAV)
	}

	var pcm []byte
	sawFmt := false
	offset := 12
	for offset+8 <= len(wav) {
		chunkID := string(wav[offset : offset+4])
		chunkLen := int(binary.LittleEndian.Uint32(wav[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkLen > len(wav) {
			return nil, f, fmt.Errorf("%w: truncated %q chunk", ErrInvalidWAV, chunkID)
		}

		switch chunkID {
		case "fmt ":
			if chunkLen < 16 {
				return nil, f, fmt.Errorf("%w: short fmt chunk", ErrInvalidWAV)
			}
			if audioFormat := binary.LittleEndian.Uint16(wav[body : body+2]); audioFormat != 1 {
				return nil, f, fmt.Errorf("%w: unsupported audio format %d", ErrInvalidWAV, audioFormat)
			}
			f.Channels = int(binary.LittleEndian.Uint16(wav[body+2 : body+4]))
			f.SampleRate = int(binary.LittleEndian.Uint32(wav[body+4 : body+8]))
			f.BitDepth = int(binary.LittleEndian.Uint16(wav[body+14 : body+16]))
			sawFmt = true
		case "data":
			pcm = wav[body : body+chunkLen]
		}

		// Chunks are word-aligned.
		offset = body + chunkLen + chunkLen%2
	}

	if !sawFmt || pcm == nil {
		return nil, f, fmt.Errorf("%w: missing fmt or data chunk", ErrInvalidWAV)
	}
	return pcm, f, nil
}

// Duration computes the playback length in seconds of a WAV file from its
// data chunk size and format.
func Duration(wav []byte) (float64, error) {
	pcm, f, err := DecodeWAV(wav)
	if err != nil {
		return 0, err
	}
	bps := f.BytesPerSecond()
	if bps == 0 {
		return 0, fmt.Errorf("%w: zero data rate", ErrInvalidWAV)
	}
	return float64(len(pcm)) / float64(bps), nil
}

// ConcatPCM joins raw PCM chunks into a single buffer.
func ConcatPCM(chunks [][]byte) []byte {
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	out := make([]byte, 0, total)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}
