// Package upload submits new resources to the catalog service as a multipart
// form. At most one submission runs at a time per Coordinator.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/csheth/benotes/internal/catalog"
	"github.com/csheth/benotes/internal/resources"
)

const uploadPath = "/upload"

var (
	// ErrInFlight is returned when Submit is called while another submission
	// has not finished.
	ErrInFlight = errors.New("upload already in progress")
	// ErrInvalidFields is returned before any request is made.
	ErrInvalidFields = errors.New("invalid upload")
)

// User-facing notices for failed submissions.
const (
	NetworkMessage = "Could not connect to server."
	ServerMessage  = "Server Error. Please try again."
)

// ErrorKind separates connection failures from rejected submissions.
type ErrorKind int

const (
	KindNetwork ErrorKind = iota
	KindServer
)

// Error is returned for every failed submission that reached the transport.
type Error struct {
	Kind   ErrorKind
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Kind == KindServer {
		return fmt.Sprintf("upload: server error: status %d", e.Status)
	}
	return fmt.Sprintf("upload: network error: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message is the generic notice shown to the user for this failure.
func (e *Error) Message() string {
	if e.Kind == KindServer {
		return ServerMessage
	}
	return NetworkMessage
}

// Fields are the text parts of a submission.
type Fields struct {
	Program  string
	Semester int
	Subject  string
	Type     resources.Type
	Uploader string
}

// Validate checks the fields are complete and within range.
func (f Fields) Validate() error {
	switch {
	case strings.TrimSpace(f.Program) == "":
		return fmt.Errorf("%w: program is required", ErrInvalidFields)
	case f.Semester < 1 || f.Semester > catalog.SemesterCount:
		return fmt.Errorf("%w: semester must be between 1 and %d", ErrInvalidFields, catalog.SemesterCount)
	case strings.TrimSpace(f.Subject) == "":
		return fmt.Errorf("%w: subject is required", ErrInvalidFields)
	case !resources.Known(string(f.Type)):
		return fmt.Errorf("%w: unknown resource type %q", ErrInvalidFields, f.Type)
	}
	return nil
}

// File is the optional attachment. Exactly one of Path or Reader is used;
// Reader wins when both are set.
type File struct {
	Name   string
	Path   string
	Reader io.Reader
}

func (f *File) open() (string, io.ReadCloser, error) {
	if f.Reader != nil {
		name := f.Name
		if name == "" {
			name = "upload"
		}
		return name, io.NopCloser(f.Reader), nil
	}
	if f.Path == "" {
		return "", nil, fmt.Errorf("%w: file has no path", ErrInvalidFields)
	}
	fh, err := os.Open(f.Path)
	if err != nil {
		return "", nil, fmt.Errorf("open attachment: %w", err)
	}
	name := f.Name
	if name == "" {
		name = filepath.Base(f.Path)
	}
	return name, fh, nil
}

// Ack is the outcome of an accepted submission.
type Ack struct {
	Status    int
	RequestID string
}

// Coordinator posts submissions and tracks whether one is running.
type Coordinator struct {
	baseURL string
	client  *http.Client
	busy    atomic.Bool
}

// NewCoordinator builds a coordinator rooted at baseURL.
func NewCoordinator(baseURL string, httpClient *http.Client) *Coordinator {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Coordinator{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

// URL is the submission endpoint.
func (c *Coordinator) URL() string {
	return c.baseURL + uploadPath
}

// Busy reports whether a submission is running.
func (c *Coordinator) Busy() bool {
	return c.busy.Load()
}

// Submit validates fields and posts them with the optional file. The busy
// flag is held for the whole call and released whatever the outcome.
func (c *Coordinator) Submit(ctx context.Context, fields Fields, file *File) (Ack, error) {
	if err := fields.Validate(); err != nil {
		return Ack{}, err
	}
	if !c.busy.CompareAndSwap(false, true) {
		return Ack{}, ErrInFlight
	}
	defer c.busy.Store(false)

	requestID := uuid.NewString()
	body, contentType, err := encode(fields, file)
	if err != nil {
		return Ack{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(), body)
	if err != nil {
		body.Close()
		return Ack{}, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Request-ID", requestID)

	log.Printf("[upload] %s: %s semester %d %q (%s)", requestID, fields.Program, fields.Semester, fields.Subject, fields.Type)
	resp, err := c.client.Do(req)
	if err != nil {
		return Ack{}, &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Ack{}, &Error{
			Kind:   KindServer,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s (%s)", resp.Status, strings.TrimSpace(string(detail))),
		}
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	return Ack{Status: resp.StatusCode, RequestID: requestID}, nil
}

// encode streams the multipart body through a pipe so large files are never
// held in memory.
func encode(fields Fields, file *File) (io.ReadCloser, string, error) {
	var (
		name string
		src  io.ReadCloser
	)
	if file != nil {
		var err error
		name, src, err = file.open()
		if err != nil {
			return nil, "", err
		}
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		if src != nil {
			defer src.Close()
		}
		pw.CloseWithError(writeParts(mw, fields, name, src))
	}()
	return pr, mw.FormDataContentType(), nil
}

func writeParts(mw *multipart.Writer, fields Fields, name string, src io.Reader) error {
	parts := [][2]string{
		{"faculty", fields.Program},
		{"semester", strconv.Itoa(fields.Semester)},
		{"subject", fields.Subject},
		{"type", string(fields.Type)},
		{"uploader", fields.Uploader},
	}
	for _, p := range parts {
		if err := mw.WriteField(p[0], p[1]); err != nil {
			return err
		}
	}
	if src != nil {
		w, err := mw.CreateFormFile("file", name)
		if err != nil {
			return err
		}
		if _, err := io.Copy(w, src); err != nil {
			return err
		}
	}
	return mw.Close()
}
