package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"code-reviewer/src/model"
	"code-reviewer/src/util"
)

// WritePatch writes the diffs of applied fixes as one patch and returns
// how many diffs were written. Fixes that were not applied or have no
// parseable diff are skipped, so the patch matches the fixed text.
func WritePatch(w io.Writer, fixes []model.Fix) (int, error) {
	written := 0
	for _, fix := range fixes {
		if fix.Status != model.FixStatusApplied || strings.TrimSpace(fix.Diff) == "" {
			continue
		}
		files, _, err := gitdiff.Parse(strings.NewReader(fix.Diff))
		if err != nil {
			util.Warn("Skipping unparseable diff for %q: %v", fix.IssueDescription, err)
			continue
		}
		for _, f := range files {
			if _, err := io.WriteString(w, renderFile(f)); err != nil {
				return written, err
			}
		}
		if len(files) > 0 {
			written++
		}
	}
	return written, nil
}

// WritePatchFile writes the fix diffs to path, creating parent directories
func WritePatchFile(path string, fixes []model.Fix) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, werr := WritePatch(f, fixes)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return n, werr
	}

	util.Info("Patch with %d diffs written: %s", n, path)
	return n, nil
}

func renderFile(f *gitdiff.File) string {
	var b strings.Builder

	oldName, newName := "a/"+f.OldName, "b/"+f.NewName
	name := f.NewName
	if f.IsNew {
		oldName = "/dev/null"
	}
	if f.IsDelete {
		newName = "/dev/null"
		name = f.OldName
	}

	b.WriteString(fmt.Sprintf("diff --git a/%s b/%s\n", name, name))
	b.WriteString(fmt.Sprintf("--- %s\n", oldName))
	b.WriteString(fmt.Sprintf("+++ %s\n", newName))

	for _, frag := range f.TextFragments {
		b.WriteString(fmt.Sprintf("@@ -%d,%d +%d,%d @@", frag.OldPosition, frag.OldLines, frag.NewPosition, frag.NewLines))
		if frag.Comment != "" {
			b.WriteString(" " + frag.Comment)
		}
		b.WriteString("\n")

		for _, line := range frag.Lines {
			switch line.Op {
			case gitdiff.OpContext:
				b.WriteString(" " + line.Line)
			case gitdiff.OpDelete:
				b.WriteString("-" + line.Line)
			case gitdiff.OpAdd:
				b.WriteString("+" + line.Line)
			}
			if !strings.HasSuffix(line.Line, "\n") {
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}
