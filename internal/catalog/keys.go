package catalog

import "strings"

const containerPrefix = "res-"

// ContainerKey derives the panel identifier for a subject by dropping every
// character outside [A-Za-z0-9]. Distinct names can map to the same key; see
// Collisions.
func ContainerKey(name string) string {
	var b strings.Builder
	b.Grow(len(containerPrefix) + len(name))
	b.WriteString(containerPrefix)
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Collision lists subject names that share one container key.
type Collision struct {
	Key      string
	Subjects []string
}

// Collisions reports every container key claimed by more than one distinct
// subject name within entries, in first-seen order. Elective group names are
// not panels and are ignored.
func Collisions(entries []Entry) []Collision {
	owners := map[string][]string{}
	var order []string
	for _, name := range SubjectNames(entries) {
		key := ContainerKey(name)
		names, seen := owners[key]
		if !seen {
			order = append(order, key)
		}
		if !containsString(names, name) {
			owners[key] = append(names, name)
		}
	}
	var out []Collision
	for _, key := range order {
		if names := owners[key]; len(names) > 1 {
			out = append(out, Collision{Key: key, Subjects: names})
		}
	}
	return out
}

// SubjectNames flattens entries into the subject names a user can open, with
// elective alternatives in place of their group.
func SubjectNames(entries []Entry) []string {
	var names []string
	for _, entry := range entries {
		if entry.Elective {
			names = append(names, entry.Subjects...)
			continue
		}
		names = append(names, entry.Name)
	}
	return names
}

// Option is a selectable subject for the upload form.
type Option struct {
	Label string
	Value string
}

// SubjectOptions lists the subjects of a semester for the upload form. Elective
// alternatives are labelled with an "(Elective)" suffix; the value is always
// the bare subject name the server classifies by.
func SubjectOptions(entries []Entry) []Option {
	var out []Option
	for _, entry := range entries {
		if !entry.Elective {
			out = append(out, Option{Label: entry.Name, Value: entry.Name})
			continue
		}
		for _, name := range entry.Subjects {
			out = append(out, Option{Label: name + " (Elective)", Value: name})
		}
	}
	return out
}

func containsString(haystack []string, needle string) bool {
	for _, existing := range haystack {
		if existing == needle {
			return true
		}
	}
	return false
}
