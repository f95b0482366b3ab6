package tui

import (
	"github.com/csheth/benotes/internal/browse"
	"github.com/csheth/benotes/internal/preview"
	"github.com/csheth/benotes/internal/resources"
	"github.com/csheth/benotes/internal/upload"
)

type stage int

const (
	stagePrograms stage = iota
	stageSubjects
	stageUpload
	stageUploadDone
	stagePreview
)

func (s stage) String() string {
	switch s {
	case stagePrograms:
		return "programs"
	case stageSubjects:
		return "subjects"
	case stageUpload:
		return "upload"
	case stageUploadDone:
		return "upload-done"
	case stagePreview:
		return "preview"
	default:
		return "unknown"
	}
}

type itemKind int

const (
	itemSubject itemKind = iota
	itemGroup
	itemResource
	itemText
)

// listItem is one rendered line of the subject view. Only subjects, groups and
// resources take the cursor.
type listItem struct {
	kind itemKind
	id   string
	// position addresses subject rows, whose ids collide when names sanitize alike.
	position int
	label    string
	depth    int
	record   resources.Record
	style    textStyle
}

type textStyle int

const (
	textPlain textStyle = iota
	textCategory
	textHelper
	textError
	textLoading
)

func (i listItem) selectable() bool {
	return i.kind != itemText
}

type resourcesResultMsg struct {
	req  browse.FetchRequest
	plan resources.Plan
	err  error
}

type uploadResultMsg struct {
	ack upload.Ack
	err error
}

type previewResultMsg struct {
	link string
	doc  preview.Document
	err  error
}

type clipboardResultMsg struct {
	link string
	err  error
}
