package tuitest

import (
	"bytes"
	"io"
)

// terminalQueries maps the queries a TUI sends at startup (cursor position,
// foreground and background colour) to the answers a dark xterm would give.
// Without answers the program waits for them before drawing.
var terminalQueries = []struct {
	query, reply string
}{
	{"\x1b[6n", "\x1b[1;1R"},
	{"\x1b]10;?\x07", "\x1b]10;rgb:cccc/cccc/cccc\x07"},
	{"\x1b]10;?\x1b\\", "\x1b]10;rgb:cccc/cccc/cccc\x1b\\"},
	{"\x1b]11;?\x07", "\x1b]11;rgb:0000/0000/0000\x07"},
	{"\x1b]11;?\x1b\\", "\x1b]11;rgb:0000/0000/0000\x1b\\"},
}

type terminalResponder struct {
	w    io.Writer
	tail []byte
}

func newTerminalResponder(w io.Writer) *terminalResponder {
	return &terminalResponder{w: w, tail: make([]byte, 0, 128)}
}

// Process scans output for queries, including ones split across reads.
func (tr *terminalResponder) Process(chunk []byte) {
	tr.tail = append(tr.tail, chunk...)
	for tr.answerNext() {
	}
	if len(tr.tail) > 256 {
		tr.tail = tr.tail[len(tr.tail)-64:]
	}
}

// answerNext replies to the earliest pending query and drops everything up to
// its end.
func (tr *terminalResponder) answerNext() bool {
	first, end := -1, 0
	var reply string
	for _, q := range terminalQueries {
		idx := bytes.Index(tr.tail, []byte(q.query))
		if idx >= 0 && (first < 0 || idx < first) {
			first, end, reply = idx, idx+len(q.query), q.reply
		}
	}
	if first < 0 {
		return false
	}
	tr.tail = tr.tail[end:]
	_, _ = io.WriteString(tr.w, reply)
	return true
}
