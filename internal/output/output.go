// Package output defines the styled text sink that commands write to.
package output

import (
	"strings"
	"sync"
)

// Style tags a piece of output so the front-end can color it.
type Style int

const (
	Plain Style = iota
	Prompt
	Error
	Success
	Info
	Directory
)

var styleNames = [...]string{
	Plain:     "output",
	Prompt:    "prompt",
	Error:     "error",
	Success:   "success",
	Info:      "info",
	Directory: "directory",
}

func (s Style) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return "output"
	}
	return styleNames[s]
}

// Writer receives styled text. Text carries its own newlines.
type Writer interface {
	Write(style Style, text string)
}

// WriterFunc adapts a function to a Writer.
type WriterFunc func(style Style, text string)

// Write calls f.
func (f WriterFunc) Write(style Style, text string) {
	f(style, text)
}

// Chunk is a single styled write recorded by a Buffer.
type Chunk struct {
	Style Style
	Text  string
}

// Buffer records every write. It is safe for concurrent use.
type Buffer struct {
	mu     sync.Mutex
	chunks []Chunk
}

// Write implements Writer.
func (b *Buffer) Write(style Style, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chunks = append(b.chunks, Chunk{Style: style, Text: text})
}

// Chunks returns a copy of the recorded writes.
func (b *Buffer) Chunks() []Chunk {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Chunk(nil), b.chunks...)
}

// String returns all recorded text concatenated, without styles.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var sb strings.Builder
	for _, c := range b.chunks {
		sb.WriteString(c.Text)
	}
	return sb.String()
}

// Styled returns the concatenated text of the writes with the given style.
func (b *Buffer) Styled(style Style) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var sb strings.Builder
	for _, c := range b.chunks {
		if c.Style == style {
			sb.WriteString(c.Text)
		}
	}
	return sb.String()
}

// Reset discards everything recorded so far.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chunks = nil
}
