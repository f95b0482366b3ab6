package tuitest

import "testing"

func TestParseFramesSplitsOnClear(t *testing.T) {
	raw := []byte("\x1b[2J\x1b[HBE Notes   \r\n\x1b[1mPrograms\x1b[0m\r\n\r\n\x1b[2J\x1b[H\x1b]11;?\x07Keys\r\n")
	frames := parseFrames(raw)
	if len(frames) != 2 {
		t.Fatalf("frames = %d, want 2: %#v", len(frames), frames)
	}
	if frames[0].Plain != "BE Notes\nPrograms" {
		t.Fatalf("first frame = %q", frames[0].Plain)
	}
	if got := frames[1].Lines(); len(got) != 1 || got[0] != "Keys" {
		t.Fatalf("second frame lines = %q", got)
	}
	rec := &Recording{Frames: frames}
	if rec.Text() != "BE Notes\nPrograms\nKeys" {
		t.Fatalf("text = %q", rec.Text())
	}
	if last, ok := rec.FinalFrame(); !ok || last.Index != 1 {
		t.Fatalf("final frame = %#v", last)
	}
}

func TestResponderAnswersCursorQuery(t *testing.T) {
	var out fakeWriter
	tr := newTerminalResponder(&out)
	tr.Process([]byte("abc\x1b[6"))
	tr.Process([]byte("n"))
	if string(out) != "\x1b[1;1R" {
		t.Fatalf("response = %q", string(out))
	}
}

type fakeWriter []byte

func (w *fakeWriter) Write(p []byte) (int, error) {
	*w = append(*w, p...)
	return len(p), nil
}
