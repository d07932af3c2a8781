// Package timing builds word-level timing documents for karaoke-style
// highlighting. It maps a transcription engine's timestamped words onto the
// original source sentences, fills gaps by interpolation, and offers a
// words-per-minute fallback when no transcription is available.
package timing
