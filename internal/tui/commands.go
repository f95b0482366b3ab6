package tui

import (
	"context"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/benotes/internal/browse"
	"github.com/csheth/benotes/internal/upload"
)

// fetchResourcesJob captures the request by value so a later navigation cannot
// change which panel the result is routed to.
func fetchResourcesJob(fetcher Fetcher, req browse.FetchRequest) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		plan, err := fetcher.Fetch(ctx, req.Query)
		return resourcesResultMsg{req: req, plan: plan, err: err}, err
	}
}

func submitUploadJob(uploader Uploader, fields upload.Fields, file *upload.File) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		ack, err := uploader.Submit(ctx, fields, file)
		return uploadResultMsg{ack: ack, err: err}, err
	}
}

func loadPreviewJob(loader PreviewLoader, link string) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		doc, err := loader.Load(ctx, link)
		return previewResultMsg{link: link, doc: doc, err: err}, err
	}
}

var writeClipboard = clipboard.WriteAll

func copyLinkCmd(link string) tea.Cmd {
	return func() tea.Msg {
		return clipboardResultMsg{link: link, err: writeClipboard(link)}
	}
}
