package sync

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffType represents the type of diff operation
type DiffType int

const (
	DiffEqual DiffType = iota
	DiffInsert
	DiffDelete
)

// DiffLine represents a single line in the diff
type DiffLine struct {
	Type    DiffType
	Content string
}

// Plan describes what Synchronize would do, without touching the filesystem
type Plan struct {
	AppName         string
	ExecTarget      string
	DesktopFilePath string
	Icon            string
	IsUpdate        bool
	Content         string
	Previous        string
	Diff            []DiffLine
}

// Changed reports whether the desktop entry would differ from the current file
func (p *Plan) Changed() bool {
	if !p.IsUpdate {
		return true
	}
	for _, l := range p.Diff {
		if l.Type != DiffEqual {
			return true
		}
	}
	return false
}

// Plan computes the desktop entry a registration would produce
func (s *Synchronizer) Plan(ctx context.Context, req Request) (*Plan, error) {
	t, err := s.resolve(req)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	icon := ""
	if req.IconPath != "" {
		if _, err := os.Stat(req.IconPath); err == nil {
			if t.iconsDirErr != nil {
				icon = req.IconPath
			} else {
				icon = filepath.Join(t.iconsDir, filepath.Base(req.IconPath))
			}
		}
	}

	entry := t.merge(icon)
	content := entry.String()

	return &Plan{
		AppName:         t.appName,
		ExecTarget:      t.execTarget,
		DesktopFilePath: t.desktopFilePath,
		Icon:            entry.Icon,
		IsUpdate:        t.previousExists,
		Content:         content,
		Previous:        t.previous,
		Diff:            DiffLines(t.previous, content),
	}, nil
}

// DiffLines computes a line diff between two texts
func DiffLines(oldText, newText string) []DiffLine {
	dmp := diffmatchpatch.New()

	chars1, chars2, lineArray := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(chars1, chars2, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var lines []DiffLine
	for _, d := range diffs {
		var typ DiffType
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			typ = DiffInsert
		case diffmatchpatch.DiffDelete:
			typ = DiffDelete
		default:
			typ = DiffEqual
		}

		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			if line == "" && d.Text == "" {
				continue
			}
			lines = append(lines, DiffLine{Type: typ, Content: line})
		}
	}

	return lines
}

// DiffStats counts inserted and deleted lines
func DiffStats(lines []DiffLine) (added, removed int) {
	for _, l := range lines {
		switch l.Type {
		case DiffInsert:
			added++
		case DiffDelete:
			removed++
		}
	}
	return added, removed
}
