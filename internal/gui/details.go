package gui

import (
	"fmt"
	"log/slog"
	"strings"

	. "modernc.org/tk9.0"

	"github.com/thiagokokada/gitk-explorer/internal/debounce"
	"github.com/thiagokokada/gitk-explorer/internal/explorer"
	"github.com/thiagokokada/gitk-explorer/internal/git"
	"github.com/thiagokokada/gitk-explorer/internal/gui/tkutil"
)

func (a *Controller) showCommitDetails(row *treeRow, n *explorer.CommitNode) {
	header := git.FormatCommitHeader(n.Commit)
	a.setSelectedHash(n.Commit.Hash)
	a.setFileSections(nil)
	a.writeDetailText(header+"\nLoading diff...", false)
	a.scheduleDiffLoad(&pendingDiff{repoPath: row.RepoPath, commit: n.Commit, header: header})
}

func (a *Controller) scheduleDiffLoad(p *pendingDiff) {
	slog.Debug("scheduleDiffLoad", slog.String("hash", p.commit.Hash))
	deb := func() *debounce.Debouncer {
		a.state.diff.mu.Lock()
		defer a.state.diff.mu.Unlock()
		a.state.diff.pending = p
		return debounce.Ensure(&a.state.diff.debouncer, diffDebounceDelay, func() {
			a.flushDiffDebounce()
		})
	}()
	deb.Trigger()
}

func (a *Controller) flushDiffDebounce() {
	p := func() *pendingDiff {
		a.state.diff.mu.Lock()
		defer a.state.diff.mu.Unlock()
		pending := a.state.diff.pending
		a.state.diff.pending = nil
		return pending
	}()
	if p == nil {
		return
	}
	go a.populateDiff(p)
}

func (a *Controller) cancelPendingDiffLoad() {
	a.state.diff.mu.Lock()
	defer a.state.diff.mu.Unlock()
	if a.state.diff.debouncer != nil {
		a.state.diff.debouncer.Stop()
	}
	a.state.diff.pending = nil
}

func (a *Controller) populateDiff(p *pendingDiff) {
	hash := p.commit.Hash
	var diff string
	svc, err := a.git.Service(p.repoPath)
	if err == nil {
		diff, err = svc.CommitDiff(p.commit)
	}
	if err != nil {
		slog.Error("commit diff", slog.String("hash", hash), slog.Any("error", err))
		diff = fmt.Sprintf("Unable to compute diff: %v", err)
	}
	content := p.header + "\n" + diff
	content, sections := prepareDiffDisplay(content, diffFileSections(content, 1))
	highlight := len(sections) > 0
	PostEvent(func() {
		if a.currentSelection() != hash {
			return
		}
		a.writeDetailText(content, highlight)
		a.setFileSections(sections)
	}, false)
}

func (a *Controller) clearDetailText(msg string) {
	a.writeDetailText(msg, false)
	a.setFileSections(nil)
}

func (a *Controller) writeDetailText(content string, highlightDiff bool) {
	a.ui.diffDetail.Configure(State(NORMAL))
	a.ui.diffDetail.Delete("1.0", END)
	a.ui.diffDetail.Insert("1.0", content)
	if highlightDiff {
		a.highlightDiffLines(content)
	} else {
		a.ui.diffDetail.TagRemove("diffAdd", "1.0", END)
		a.ui.diffDetail.TagRemove("diffDel", "1.0", END)
		a.ui.diffDetail.TagRemove("diffHeader", "1.0", END)
	}
	if a.cfg.syntaxHighlight && highlightDiff {
		a.applySyntaxHighlight(content)
	} else {
		a.clearSyntaxHighlight()
	}
	a.ui.diffDetail.Configure(State("disabled"))
}

func (a *Controller) highlightDiffLines(content string) {
	a.ui.diffDetail.TagRemove("diffAdd", "1.0", END)
	a.ui.diffDetail.TagRemove("diffDel", "1.0", END)
	a.ui.diffDetail.TagRemove("diffHeader", "1.0", END)
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if len(line) == 0 {
			continue
		}
		tag := diffLineTag(line)
		if tag == "" {
			continue
		}
		lineNo := i + 1
		start := fmt.Sprintf("%d.0", lineNo)
		end := fmt.Sprintf("%d.0", lineNo+1)
		if lineNo == len(lines) {
			end = fmt.Sprintf("%d.end", lineNo)
		}
		a.ui.diffDetail.TagAdd(tag, start, end)
	}
}

func (a *Controller) copyDetailSelection(stripMarkers bool) {
	text, err := tkutil.Eval("%s get sel.first sel.last", a.ui.diffDetail)
	if err != nil || text == "" {
		return
	}
	if stripMarkers {
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			if len(line) > 0 && (line[0] == '+' || line[0] == '-') {
				lines[i] = line[1:]
			}
		}
		text = strings.Join(lines, "\n")
	}
	what := "selection"
	if stripMarkers {
		what = "selection without +/- markers"
	}
	a.copyToClipboard(text, what)
}

func (a *Controller) setFileSections(sections []fileSection) {
	// Keep a virtual "Commit" row so users can jump back to the header quickly.
	augmented := make([]fileSection, 0, len(sections)+1)
	augmented = append(augmented, fileSection{Path: "Commit", Line: 1})
	augmented = append(augmented, sections...)
	a.state.diff.fileSections = augmented
	a.ui.diffFileList.Configure(State("normal"))
	a.ui.diffFileList.Delete(0, END)
	for _, sec := range augmented {
		a.ui.diffFileList.Insert(END, sec.Path)
	}
	a.ui.diffFileList.SelectionClear(0, END)
	a.ui.diffFileList.Activate(0)
	a.syncFileSelectionToDiff()
}

func (a *Controller) onFileSelectionChanged() {
	if a.state.diff.suppressFileSelection || len(a.state.diff.fileSections) == 0 {
		return
	}
	selection := a.ui.diffFileList.Curselection()
	if len(selection) == 0 {
		return
	}
	idx := selection[0]
	if idx < 0 || idx >= len(a.state.diff.fileSections) {
		return
	}
	a.state.diff.skipNextSync = true
	a.scrollDiffToLine(a.state.diff.fileSections[idx].Line)
}

func (a *Controller) scrollDiffToLine(line int) {
	if line <= 0 {
		return
	}
	totalLines := tkutil.LineOfIndex(a.ui.diffDetail.Index(END)) - 1
	if totalLines <= 1 {
		a.ui.diffDetail.Yviewmoveto(0)
		return
	}
	fraction := float64(line-1) / float64(totalLines-1)
	a.ui.diffDetail.Yviewmoveto(min(max(fraction, 0), 1))
}

func (a *Controller) syncFileSelectionToDiff() {
	if len(a.state.diff.fileSections) == 0 || a.state.diff.skipNextSync {
		return
	}
	line := tkutil.LineOfIndex(a.ui.diffDetail.Index("@0,0"))
	if line <= 0 {
		return
	}
	a.setFileListSelection(fileSectionIndexForLine(a.state.diff.fileSections, line))
}

func (a *Controller) setFileListSelection(idx int) {
	if idx < 0 || idx >= len(a.state.diff.fileSections) {
		return
	}
	current := a.ui.diffFileList.Curselection()
	if len(current) > 0 && current[0] == idx {
		return
	}
	a.state.diff.suppressFileSelection = true
	a.ui.diffFileList.SelectionClear(0, END)
	a.ui.diffFileList.SelectionSet(idx)
	a.ui.diffFileList.Activate(idx)
	a.ui.diffFileList.See(idx)
	PostEvent(func() {
		a.state.diff.suppressFileSelection = false
	}, false)
}

func (a *Controller) onDiffScrolled() {
	if a.state.diff.skipNextSync {
		a.state.diff.skipNextSync = false
		return
	}
	a.syncFileSelectionToDiff()
}

func (a *Controller) setSelectedHash(hash string) {
	h := hash
	a.state.selection.Store(&h)
}

func (a *Controller) currentSelection() string {
	ptr := a.state.selection.Load()
	if ptr == nil {
		return ""
	}
	return *ptr
}
