// Package output renders commit metadata for the changegen CLI.
// This package is designed to have minimal dependencies to avoid import cycles.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/ariel-frischer/changegen/internal/metadata"
)

// Format selects how metadata is printed.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Formats lists the accepted output formats.
func Formats() []Format {
	return []Format{FormatText, FormatYAML, FormatJSON}
}

// ParseFormat validates s as an output format.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (valid: text, yaml, json)", s)
}

// Entry is one commit's metadata as shown by show and check.
type Entry struct {
	CommitID string
	Summary  string
	Metadata metadata.Metadata
}

// IsTerminal reports whether w is a terminal. Buffers and pipes are not.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// ShouldUsePlain reports whether output to w should skip colors and emoji.
// Plain is forced when requested, when NO_COLOR is set, or when w is not a terminal.
func ShouldUsePlain(w io.Writer, requested bool) bool {
	if requested || os.Getenv("NO_COLOR") != "" {
		return true
	}
	return !IsTerminal(w)
}

// Render writes e to w in format f.
func Render(w io.Writer, e Entry, f Format, plain bool) error {
	switch f {
	case FormatText:
		_, err := io.WriteString(w, FormatEntry(e, plain))
		return err
	case FormatYAML:
		_, err := io.WriteString(w, strings.TrimPrefix(metadata.Encode(e.Metadata), "\n"))
		return err
	case FormatJSON:
		return writeJSON(w, e)
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}

type jsonEntry struct {
	Commit  string `json:"commit,omitempty"`
	Summary string `json:"summary,omitempty"`
	metadata.Metadata
}

func writeJSON(w io.Writer, e Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonEntry{Commit: e.CommitID, Summary: e.Summary, Metadata: e.Metadata}); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// FormatEntry returns the human-readable text form of e:
//
//	✨ added  1a2b3c4  Add the thing
//	  pr:             https://...
//	  fixes:          https://...
//	  co-authored-by: Jane <jane@example.com>
func FormatEntry(e Entry, plain bool) string {
	kindFmt := color.New(color.FgCyan, color.Bold).SprintFunc()
	idFmt := color.New(color.FgYellow).SprintFunc()
	labelFmt := color.New(color.Faint).SprintFunc()
	if plain {
		kindFmt, idFmt, labelFmt = fmt.Sprint, fmt.Sprint, fmt.Sprint
	}

	m := e.Metadata
	var sb strings.Builder

	if !plain {
		sb.WriteString(m.Kind.Emoji())
		sb.WriteString(" ")
	}
	sb.WriteString(kindFmt(m.Kind.String()))
	if e.CommitID != "" {
		sb.WriteString("  ")
		sb.WriteString(idFmt(shortID(e.CommitID)))
	}
	if e.Summary != "" {
		sb.WriteString("  ")
		sb.WriteString(e.Summary)
	}
	sb.WriteString("\n")

	writeField := func(label, value string) {
		sb.WriteString("  ")
		sb.WriteString(labelFmt(fmt.Sprintf("%-16s", label+":")))
		sb.WriteString(value)
		sb.WriteString("\n")
	}

	if m.PR != nil {
		writeField("pr", m.PR.String())
	}
	for _, fix := range m.Fixes {
		writeField("fixes", fix.String())
	}
	if m.CoAuthoredBy != nil {
		writeField("co-authored-by", *m.CoAuthoredBy)
	}

	return sb.String()
}

// FormatKinds returns one line per change type with its description.
func FormatKinds(plain bool) string {
	nameFmt := color.New(color.FgCyan, color.Bold).SprintFunc()
	if plain {
		nameFmt = fmt.Sprint
	}

	width := 0
	for _, name := range metadata.KindNames() {
		width = max(width, len(name))
	}

	var sb strings.Builder
	for _, k := range metadata.Kinds() {
		if !plain {
			sb.WriteString(k.Emoji())
			sb.WriteString(" ")
		}
		sb.WriteString(nameFmt(fmt.Sprintf("%-*s", width, k.String())))
		sb.WriteString("  ")
		sb.WriteString(k.Description())
		sb.WriteString("\n")
	}
	return sb.String()
}

// CheckResult is the outcome of validating one commit.
type CheckResult struct {
	Revision string
	CommitID string
	Kind     metadata.Kind
	Err      error
}

// FormatCheckResult returns a one-line status for r.
func FormatCheckResult(r CheckResult, plain bool) string {
	okFmt := color.New(color.FgGreen, color.Bold).SprintFunc()
	failFmt := color.New(color.FgRed, color.Bold).SprintFunc()
	okMark, failMark := "✓", "✗"
	if plain {
		okFmt, failFmt = fmt.Sprint, fmt.Sprint
		okMark, failMark = "ok", "FAIL"
	}

	id := shortID(r.CommitID)
	if r.Err != nil {
		return fmt.Sprintf("%s %s %s: %v\n", failFmt(failMark), r.Revision, id, r.Err)
	}
	return fmt.Sprintf("%s %s %s: %s\n", okFmt(okMark), r.Revision, id, r.Kind)
}

func shortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}
