// Package browse is the headless navigation state machine: which program and
// semester are selected, which subject rows exist, and which of their resource
// panels have been loaded. The terminal UI drives it and renders its output.
package browse

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/csheth/benotes/internal/catalog"
	"github.com/csheth/benotes/internal/resources"
)

// NoSubjectsMessage replaces the subject list when a semester has none.
const NoSubjectsMessage = "No subjects listed."

var (
	ErrUnknownProgram = errors.New("unknown program")
	ErrNoProgram      = errors.New("no program selected")
	ErrSemesterRange  = fmt.Errorf("semester must be between 1 and %d", catalog.SemesterCount)
	ErrUnknownRow     = errors.New("unknown row")
)

// View is the screen the navigator is on.
type View int

const (
	ViewPrograms View = iota
	ViewSubjects
)

// Selection is the current program and semester. Semester 0 means none, and a
// semester is only meaningful while a program is set.
type Selection struct {
	Program  string
	Semester int
}

// RowKind distinguishes subject rows from elective group rows.
type RowKind int

const (
	RowSubject RowKind = iota
	RowElective
)

// Row is one entry of the rendered subject list. Subject rows carry the
// container key of their panel as ID, which colliding subjects share, and a
// Position that is unique among the subject rows of the list. Elective rows
// carry their children.
type Row struct {
	Kind     RowKind
	ID       string
	Position int
	Label    string
	Subject  string
	Children []Row
}

// SemesterButton is one entry of the semester picker.
type SemesterButton struct {
	Number int
	Label  string
	Active bool
}

// FetchRequest describes a fetch the caller must dispatch. It captures the
// selection at the moment the row was expanded.
type FetchRequest struct {
	Generation int
	Key        string
	Query      resources.Query
}

// Navigator owns the selection, the semester highlight, the row list and the
// panel registry. All mutation goes through its methods.
type Navigator struct {
	catalog    *catalog.Catalog
	selection  Selection
	view       View
	rows       []Row
	listed     bool
	collisions []catalog.Collision
	groupsOpen map[string]bool
	panels     *Registry
	scrollTop  bool
}

// NewNavigator starts on the program picker.
func NewNavigator(c *catalog.Catalog) *Navigator {
	return &Navigator{
		catalog:    c,
		view:       ViewPrograms,
		groupsOpen: map[string]bool{},
		panels:     NewRegistry(),
	}
}

// Selection returns the current selection.
func (n *Navigator) Selection() Selection { return n.selection }

// View returns the current screen.
func (n *Navigator) View() View { return n.view }

// Panels exposes the panel registry of the current rows.
func (n *Navigator) Panels() *Registry { return n.panels }

// Program returns the selected program.
func (n *Navigator) Program() (catalog.Program, bool) {
	if n.selection.Program == "" {
		return catalog.Program{}, false
	}
	return n.catalog.Program(n.selection.Program)
}

// SelectProgram switches to the subject view of key and opens semester 1.
func (n *Navigator) SelectProgram(key string) error {
	if !n.catalog.Has(key) {
		return fmt.Errorf("%w: %q", ErrUnknownProgram, key)
	}
	n.selection = Selection{Program: key}
	n.view = ViewSubjects
	n.scrollTop = true
	return n.SelectSemester(1)
}

// GoBack returns to the program picker. The program stays selected until the
// next SelectProgram overwrites it.
func (n *Navigator) GoBack() {
	n.view = ViewPrograms
	n.selection.Semester = 0
	n.clearRows()
	n.scrollTop = true
}

// SelectSemester marks sem as the single active semester and rebuilds the rows.
// Called from the program picker it reopens the last selected program.
func (n *Navigator) SelectSemester(sem int) error {
	if n.selection.Program == "" {
		return ErrNoProgram
	}
	if sem < 1 || sem > catalog.SemesterCount {
		return fmt.Errorf("%w (got %d)", ErrSemesterRange, sem)
	}
	program, ok := n.Program()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProgram, n.selection.Program)
	}
	n.selection.Semester = sem
	n.view = ViewSubjects
	n.clearRows()
	entries, listed := program.Entries(sem)
	n.listed = listed && len(entries) > 0
	n.rows = buildRows(entries)
	n.collisions = catalog.Collisions(entries)
	for _, c := range n.collisions {
		log.Printf("[browse] %s semester %d: subjects %s share panel %s", program.Key, sem, strings.Join(c.Subjects, ", "), c.Key)
	}
	return nil
}

func (n *Navigator) clearRows() {
	n.rows = nil
	n.listed = false
	n.collisions = nil
	n.groupsOpen = map[string]bool{}
	n.panels.Reset()
}

// ActiveSemester returns the highlighted semester, 0 when none.
func (n *Navigator) ActiveSemester() int {
	if n.view != ViewSubjects {
		return 0
	}
	return n.selection.Semester
}

// SemesterButtons lists the semester picker with exactly one active entry.
func (n *Navigator) SemesterButtons() []SemesterButton {
	active := n.ActiveSemester()
	buttons := make([]SemesterButton, 0, catalog.SemesterCount)
	for i := 1; i <= catalog.SemesterCount; i++ {
		buttons = append(buttons, SemesterButton{
			Number: i,
			Label:  fmt.Sprintf("Semester %d", i),
			Active: i == active,
		})
	}
	return buttons
}

// Rows returns the subject list of the active semester.
func (n *Navigator) Rows() []Row {
	out := make([]Row, len(n.rows))
	copy(out, n.rows)
	return out
}

// EmptyMessage is non-empty when the active semester has no subject list.
func (n *Navigator) EmptyMessage() string {
	if n.view != ViewSubjects || n.listed {
		return ""
	}
	return NoSubjectsMessage
}

// Collisions reports subjects of the active semester that share a panel.
func (n *Navigator) Collisions() []catalog.Collision {
	return n.collisions
}

// ConsumeScrollTop reports whether the view should jump to the top, once.
func (n *Navigator) ConsumeScrollTop() bool {
	v := n.scrollTop
	n.scrollTop = false
	return v
}

// GroupOpen reports whether an elective group row is expanded.
func (n *Navigator) GroupOpen(id string) bool {
	return n.groupsOpen[id]
}

// ToggleGroup expands or collapses an elective group. Groups never fetch.
func (n *Navigator) ToggleGroup(id string) (bool, error) {
	if _, ok := n.findRow(id, RowElective); !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownRow, id)
	}
	n.groupsOpen[id] = !n.groupsOpen[id]
	return n.groupsOpen[id], nil
}

// ToggleSubject expands or collapses the panel of the subject row at
// position. When the panel needs loading the returned request must be
// dispatched exactly once, and it asks for that row's own subject even when
// the panel is shared with a colliding row.
func (n *Navigator) ToggleSubject(position int) (*FetchRequest, error) {
	row, ok := n.subjectAt(position)
	if !ok {
		return nil, fmt.Errorf("%w: subject %d", ErrUnknownRow, position)
	}
	_, fetch := n.panels.Toggle(row.ID, row.Subject)
	if !fetch {
		return nil, nil
	}
	return &FetchRequest{
		Generation: n.panels.Generation(),
		Key:        row.ID,
		Query: resources.Query{
			Program:  n.selection.Program,
			Semester: n.selection.Semester,
			Subject:  row.Subject,
		},
	}, nil
}

// Resolve stores the outcome of a dispatched fetch. Results for rows that have
// since been re-rendered are dropped and false is returned.
func (n *Navigator) Resolve(req FetchRequest, plan resources.Plan, err error) bool {
	return n.panels.Resolve(req.Generation, req.Key, plan, err)
}

// Panel returns the panel of a subject row.
func (n *Navigator) Panel(id string) (Panel, bool) {
	return n.panels.Panel(id)
}

func (n *Navigator) findRow(id string, kind RowKind) (Row, bool) {
	for _, row := range n.rows {
		if row.Kind == kind && row.ID == id {
			return row, true
		}
		for _, child := range row.Children {
			if child.Kind == kind && child.ID == id {
				return child, true
			}
		}
	}
	return Row{}, false
}

func (n *Navigator) subjectAt(position int) (Row, bool) {
	for _, row := range n.rows {
		if row.Kind == RowSubject && row.Position == position {
			return row, true
		}
		for _, child := range row.Children {
			if child.Position == position {
				return child, true
			}
		}
	}
	return Row{}, false
}

func buildRows(entries []catalog.Entry) []Row {
	rows := make([]Row, 0, len(entries))
	position := 0
	subjectRow := func(name string) Row {
		row := Row{
			Kind:     RowSubject,
			ID:       catalog.ContainerKey(name),
			Position: position,
			Label:    name,
			Subject:  name,
		}
		position++
		return row
	}
	for idx, entry := range entries {
		if !entry.Elective {
			rows = append(rows, subjectRow(entry.Name))
			continue
		}
		group := Row{
			Kind:  RowElective,
			ID:    fmt.Sprintf("elective-%d", idx),
			Label: entry.Name,
		}
		for _, name := range entry.Subjects {
			group.Children = append(group.Children, subjectRow(name))
		}
		rows = append(rows, group)
	}
	return rows
}
