package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const fixtureYAML = `
programs:
  - key: computer
    name: Computer Engineering
    icon: fa-laptop-code
    semesters:
      1:
        - Programming in C
        - Engineering Physics
      7:
        - Simulation and Modelling
        - type: elective
          name: Elective I
          subjects:
            - Web Technology
            - Data Mining
  - key: civil
    name: Civil Engineering
    icon: fa-hard-hat
    semesters:
      2:
        - Surveying I
`

func TestParsePreservesProgramAndEntryOrder(t *testing.T) {
	cat, err := Parse([]byte(fixtureYAML))
	require.NoError(t, err)

	programs := cat.Programs()
	require.Len(t, programs, 2)
	require.Equal(t, "computer", programs[0].Key)
	require.Equal(t, "civil", programs[1].Key)

	p, ok := cat.Program("computer")
	require.True(t, ok)
	require.Equal(t, "fa-laptop-code", p.Icon)

	entries, ok := p.Entries(7)
	require.True(t, ok)
	require.Equal(t, []Entry{
		Plain("Simulation and Modelling"),
		ElectiveGroup("Elective I", "Web Technology", "Data Mining"),
	}, entries)
}

func TestEntriesReportsMissingSemester(t *testing.T) {
	cat, err := Parse([]byte(fixtureYAML))
	require.NoError(t, err)

	p, _ := cat.Program("civil")
	entries, ok := p.Entries(1)
	require.False(t, ok)
	require.Empty(t, entries)
	require.Equal(t, []int{2}, p.ListedSemesters())
}

func TestParseRejectsInvalidCatalogs(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want error
	}{
		{
			name: "duplicate key",
			yaml: "programs:\n  - key: a\n  - key: a\n",
			want: ErrDuplicateProgram,
		},
		{
			name: "semester out of range",
			yaml: "programs:\n  - key: a\n    semesters:\n      9: [X]\n",
			want: ErrInvalidSemester,
		},
		{
			name: "blank subject",
			yaml: "programs:\n  - key: a\n    semesters:\n      1: [\"  \"]\n",
			want: ErrEmptySubject,
		},
		{
			name: "blank elective alternative",
			yaml: "programs:\n  - key: a\n    semesters:\n      1:\n        - name: E\n          subjects: [\"\"]\n",
			want: ErrEmptySubject,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			require.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestParseRejectsUnknownEntryType(t *testing.T) {
	_, err := Parse([]byte("programs:\n  - key: a\n    semesters:\n      1:\n        - type: lab\n          name: X\n"))
	require.ErrorContains(t, err, "unsupported entry type")
}

func TestDefaultCatalogLoads(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)
	require.NotEmpty(t, cat.Programs())
	for _, p := range cat.Programs() {
		require.NotEmpty(t, p.Name, p.Key)
		for _, sem := range p.ListedSemesters() {
			entries, _ := p.Entries(sem)
			require.Empty(t, Collisions(entries), "%s semester %d", p.Key, sem)
		}
	}
}

func TestLoadFromFileAndEmptyPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixtureYAML), 0o644))

	cat, err := Load(path)
	require.NoError(t, err)
	require.True(t, cat.Has("civil"))

	def, err := Load("")
	require.NoError(t, err)
	require.True(t, def.Has("computer"))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
