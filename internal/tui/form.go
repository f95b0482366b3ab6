package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/csheth/benotes/internal/catalog"
	"github.com/csheth/benotes/internal/resources"
	"github.com/csheth/benotes/internal/upload"
)

// uploadDraft holds the values bound to the upload form fields.
type uploadDraft struct {
	Program  string
	Semester int
	Subject  string
	Type     string
	Uploader string
	FilePath string
}

func newUploadDraft(sel catalogSelection) *uploadDraft {
	return &uploadDraft{
		Program:  sel.program,
		Semester: sel.semester,
		Type:     string(resources.Notes),
	}
}

type catalogSelection struct {
	program  string
	semester int
}

func (d *uploadDraft) fields() upload.Fields {
	return upload.Fields{
		Program:  d.Program,
		Semester: d.Semester,
		Subject:  d.Subject,
		Type:     resources.Type(d.Type),
		Uploader: strings.TrimSpace(d.Uploader),
	}
}

func (d *uploadDraft) file() *upload.File {
	path := strings.TrimSpace(d.FilePath)
	if path == "" {
		return nil
	}
	return &upload.File{Path: path}
}

func newUploadForm(c *catalog.Catalog, d *uploadDraft, width int) *huh.Form {
	programs := make([]huh.Option[string], 0, len(c.Programs()))
	for _, p := range c.Programs() {
		programs = append(programs, huh.NewOption(p.Name, p.Key))
	}
	types := make([]huh.Option[string], 0, len(resources.Types))
	for _, t := range resources.Types {
		types = append(types, huh.NewOption(string(t), string(t)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("program").
				Title("Program").
				Options(programs...).
				Value(&d.Program).
				Validate(required("select a program")),
			huh.NewSelect[int]().
				Key("semester").
				Title("Semester").
				OptionsFunc(func() []huh.Option[int] {
					return semesterOptions(c, d.Program)
				}, &d.Program).
				Value(&d.Semester).
				Validate(func(v int) error {
					if v < 1 || v > catalog.SemesterCount {
						return errors.New("select a semester")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Key("subject").
				Title("Subject").
				OptionsFunc(func() []huh.Option[string] {
					return subjectOptions(c, d.Program, d.Semester)
				}, []interface{}{&d.Program, &d.Semester}).
				Value(&d.Subject).
				Validate(required("select a subject")),
			huh.NewSelect[string]().
				Key("type").
				Title("Resource type").
				Options(types...).
				Value(&d.Type),
			huh.NewInput().
				Key("uploader").
				Title("Your name").
				Placeholder("optional").
				Value(&d.Uploader),
			huh.NewInput().
				Key("file").
				Title("File").
				Placeholder("path to the file (optional)").
				Value(&d.FilePath).
				Validate(validateFilePath),
		),
	).WithShowHelp(true).WithTheme(huh.ThemeCharm())
	if width > 0 {
		form = form.WithWidth(width)
	}
	return form
}

// semesterOptions is empty until a program is chosen.
func semesterOptions(c *catalog.Catalog, program string) []huh.Option[int] {
	if !c.Has(program) {
		return nil
	}
	opts := make([]huh.Option[int], 0, catalog.SemesterCount)
	for i := 1; i <= catalog.SemesterCount; i++ {
		opts = append(opts, huh.NewOption(fmt.Sprintf("Semester %d", i), i))
	}
	return opts
}

func subjectOptions(c *catalog.Catalog, program string, semester int) []huh.Option[string] {
	p, ok := c.Program(program)
	if !ok {
		return nil
	}
	entries, _ := p.Entries(semester)
	var opts []huh.Option[string]
	for _, o := range catalog.SubjectOptions(entries) {
		opts = append(opts, huh.NewOption(o.Label, o.Value))
	}
	return opts
}

func required(message string) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return errors.New(message)
		}
		return nil
	}
}

func validateFilePath(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return errors.New("file not found")
	}
	if info.IsDir() {
		return errors.New("path is a directory")
	}
	return nil
}
