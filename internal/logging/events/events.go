// Package events names the trace entries the application emits.
package events

import "github.com/csheth/benotes/internal/logging"

type AppTracer struct{}

type NavTracer struct{}

type PanelTracer struct{}

type UploadTracer struct{}

type PreviewTracer struct{}

var (
	App     = AppTracer{}
	Nav     = NavTracer{}
	Panel   = PanelTracer{}
	Upload  = UploadTracer{}
	Preview = PreviewTracer{}
)

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (NavTracer) Program(key string) {
	logging.Trace("nav.program", map[string]interface{}{"program": key})
}

func (NavTracer) Semester(program string, semester, rows int) {
	logging.Trace("nav.semester", map[string]interface{}{"program": program, "semester": semester, "rows": rows})
}

func (NavTracer) Back() {
	logging.Trace("nav.back", nil)
}

func (PanelTracer) Toggle(key string, state string) {
	logging.Trace("panel.toggle", map[string]interface{}{"key": key, "state": state})
}

func (PanelTracer) Fetch(generation int, key, subject string) {
	logging.Trace("panel.fetch", map[string]interface{}{"generation": generation, "key": key, "subject": subject})
}

func (PanelTracer) Result(generation int, key string, records int, err error) {
	payload := map[string]interface{}{"generation": generation, "key": key, "records": records}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("panel.result", payload)
}

func (PanelTracer) Stale(generation int, key string) {
	logging.Trace("panel.stale", map[string]interface{}{"generation": generation, "key": key})
}

func (UploadTracer) Submit(program string, semester int, subject, kind string) {
	logging.Trace("upload.submit", map[string]interface{}{"program": program, "semester": semester, "subject": subject, "type": kind})
}

func (UploadTracer) Result(requestID string, err error) {
	payload := map[string]interface{}{"request": requestID}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("upload.result", payload)
}

func (PreviewTracer) Open(link string) {
	logging.Trace("preview.open", map[string]interface{}{"link": link})
}

func (PreviewTracer) Copy(link string, err error) {
	payload := map[string]interface{}{"link": link}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("preview.copy", payload)
}
