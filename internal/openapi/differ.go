// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package openapi

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/mahabubx7/terry/pkg/types"
)

// DiffType represents the type of change detected.
type DiffType string

const (
	// DiffTypeAdded indicates a new item was added.
	DiffTypeAdded DiffType = "added"

	// DiffTypeRemoved indicates an item was removed.
	DiffTypeRemoved DiffType = "removed"

	// DiffTypeModified indicates an item was modified.
	DiffTypeModified DiffType = "modified"
)

// PathChange represents a change to an operation.
type PathChange struct {
	Type   DiffType
	Path   string
	Method string
}

// SchemaChange represents a change to a component schema.
type SchemaChange struct {
	Type DiffType
	Name string
}

// DiffResult contains the differences between two OpenAPI documents.
// Changes are sorted by path and method, schemas by name.
type DiffResult struct {
	PathChanges   []PathChange
	SchemaChanges []SchemaChange

	// HasBreakingChanges is set when an operation or schema was removed.
	HasBreakingChanges bool

	// Summary provides a human-readable summary of changes.
	Summary string
}

// IsEmpty returns true if there are no differences.
func (d *DiffResult) IsEmpty() bool {
	return len(d.PathChanges) == 0 && len(d.SchemaChanges) == 0
}

// Diff compares two OpenAPI documents. Either may be nil.
func Diff(a, b *types.OpenAPI) *DiffResult {
	result := &DiffResult{
		PathChanges:   diffPaths(pathsOf(a), pathsOf(b)),
		SchemaChanges: diffSchemas(schemasOf(a), schemasOf(b)),
	}

	for _, c := range result.PathChanges {
		result.HasBreakingChanges = result.HasBreakingChanges || c.Type == DiffTypeRemoved
	}
	for _, c := range result.SchemaChanges {
		result.HasBreakingChanges = result.HasBreakingChanges || c.Type == DiffTypeRemoved
	}

	result.Summary = Summarize(result)
	return result
}

func pathsOf(doc *types.OpenAPI) map[string]types.PathItem {
	if doc == nil {
		return nil
	}
	return doc.Paths
}

func schemasOf(doc *types.OpenAPI) map[string]*types.Schema {
	if doc == nil || doc.Components == nil {
		return nil
	}
	return doc.Components.Schemas
}

func diffPaths(a, b map[string]types.PathItem) []PathChange {
	var changes []PathChange

	paths := make(map[string]bool)
	for p := range a {
		paths[p] = true
	}
	for p := range b {
		paths[p] = true
	}

	for _, path := range sortedKeys(paths) {
		aOps := a[path].Operations()
		bOps := b[path].Operations()

		methods := make(map[string]bool)
		for m := range aOps {
			methods[m] = true
		}
		for m := range bOps {
			methods[m] = true
		}

		for _, method := range sortedKeys(methods) {
			aOp, inA := aOps[method]
			bOp, inB := bOps[method]
			switch {
			case !inA:
				changes = append(changes, PathChange{Type: DiffTypeAdded, Path: path, Method: method})
			case !inB:
				changes = append(changes, PathChange{Type: DiffTypeRemoved, Path: path, Method: method})
			case !sameJSON(aOp, bOp):
				changes = append(changes, PathChange{Type: DiffTypeModified, Path: path, Method: method})
			}
		}
	}

	return changes
}

func diffSchemas(a, b map[string]*types.Schema) []SchemaChange {
	var changes []SchemaChange

	names := make(map[string]bool)
	for n := range a {
		names[n] = true
	}
	for n := range b {
		names[n] = true
	}

	for _, name := range sortedKeys(names) {
		aSchema, inA := a[name]
		bSchema, inB := b[name]
		switch {
		case !inA:
			changes = append(changes, SchemaChange{Type: DiffTypeAdded, Name: name})
		case !inB:
			changes = append(changes, SchemaChange{Type: DiffTypeRemoved, Name: name})
		case !sameJSON(aSchema, bSchema):
			changes = append(changes, SchemaChange{Type: DiffTypeModified, Name: name})
		}
	}

	return changes
}

// sameJSON compares two values by their JSON encoding, so documents read
// from YAML and JSON compare equal.
func sameJSON(a, b any) bool {
	aj, aerr := json.Marshal(a)
	bj, berr := json.Marshal(b)
	if aerr != nil || berr != nil {
		return false
	}
	var av, bv any
	if json.Unmarshal(aj, &av) != nil || json.Unmarshal(bj, &bv) != nil {
		return false
	}
	return string(mustJSON(av)) == string(mustJSON(bv))
}

func mustJSON(v any) []byte {
	data, _ := json.Marshal(v)
	return data
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Summarize creates a human-readable summary of changes.
func Summarize(result *DiffResult) string {
	if result.IsEmpty() {
		return "No changes detected"
	}

	counts := make(map[string]int)
	for _, c := range result.PathChanges {
		counts["path(s) "+string(c.Type)]++
	}
	for _, c := range result.SchemaChanges {
		counts["schema(s) "+string(c.Type)]++
	}

	var parts []string
	for _, kind := range []string{"path(s)", "schema(s)"} {
		for _, t := range []DiffType{DiffTypeAdded, DiffTypeRemoved, DiffTypeModified} {
			if n := counts[kind+" "+string(t)]; n > 0 {
				parts = append(parts, fmt.Sprintf("%d %s %s", n, kind, t))
			}
		}
	}

	summary := strings.Join(parts, ", ")
	if result.HasBreakingChanges {
		summary += " [BREAKING CHANGES DETECTED]"
	}
	return summary
}

// FormatDiff returns a formatted string representation of the diff.
func FormatDiff(result *DiffResult) string {
	if result.IsEmpty() {
		return "No differences found."
	}

	var sb strings.Builder

	sb.WriteString("=== OpenAPI Diff ===\n\n")
	sb.WriteString(result.Summary)
	sb.WriteString("\n\n")

	if len(result.PathChanges) > 0 {
		sb.WriteString("--- Path Changes ---\n")
		for _, c := range result.PathChanges {
			fmt.Fprintf(&sb, "%s%s %s\n", symbol(c.Type), c.Method, c.Path)
		}
		sb.WriteString("\n")
	}

	if len(result.SchemaChanges) > 0 {
		sb.WriteString("--- Schema Changes ---\n")
		for _, c := range result.SchemaChanges {
			fmt.Fprintf(&sb, "%s%s\n", symbol(c.Type), c.Name)
		}
	}

	return sb.String()
}

func symbol(t DiffType) string {
	switch t {
	case DiffTypeAdded:
		return "+ "
	case DiffTypeRemoved:
		return "- "
	case DiffTypeModified:
		return "~ "
	default:
		return "  "
	}
}
