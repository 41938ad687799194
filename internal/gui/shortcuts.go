package gui

import (
	"fmt"
	"log/slog"
	"strings"

	. "modernc.org/tk9.0"

	"github.com/thiagokokada/gitk-explorer/internal/gui/tkutil"
)

type shortcutBinding struct {
	sequences   []string
	display     string
	description string
	category    string
	handler     func()
}

func (a *Controller) bindShortcuts() {
	if a.ui.treeView == nil {
		return
	}
	for _, sc := range a.shortcutBindings() {
		if sc.handler == nil {
			continue
		}
		for _, seq := range sc.sequences {
			if seq == "" {
				continue
			}
			Bind(App, seq, Command(sc.handler))
		}
	}
}

func (a *Controller) shortcutBindings() []shortcutBinding {
	return []shortcutBinding{
		{
			category:    "Explorer",
			display:     "Enter / Double-click",
			description: "Expand a row or load the full history",
		},
		{
			category:    "Explorer",
			display:     "Ctrl+R",
			description: "Refresh the selected row",
			sequences:   []string{"<Control-KeyPress-r>"},
			handler:     a.refreshSelectedRow,
		},
		{
			category:    "Diff view",
			display:     "Ctrl/Cmd + Page Up",
			description: "Scroll diff up one page",
			sequences:   []string{"<Control-Prior>", "<Command-Prior>"},
			handler:     func() { a.scrollDetailPages(-1) },
		},
		{
			category:    "Diff view",
			display:     "Ctrl/Cmd + Page Down",
			description: "Scroll diff down one page",
			sequences:   []string{"<Control-Next>", "<Command-Next>"},
			handler:     func() { a.scrollDetailPages(1) },
		},
		{
			category:    "Diff view",
			display:     "U",
			description: "Scroll diff up 18 lines",
			sequences:   []string{"<KeyPress-u>", "<KeyPress-U>"},
			handler:     func() { a.scrollDetailLines(-18) },
		},
		{
			category:    "Diff view",
			display:     "D",
			description: "Scroll diff down 18 lines",
			sequences:   []string{"<KeyPress-d>", "<KeyPress-D>"},
			handler:     func() { a.scrollDetailLines(18) },
		},
		{
			category:    "Diff view",
			display:     "c",
			description: "Copy the selected diff text",
			sequences:   []string{"<KeyPress-c>"},
			handler:     func() { a.copyDetailSelection(false) },
		},
		{
			category:    "Diff view",
			display:     "C",
			description: "Copy the selected diff text without +/- markers",
			sequences:   []string{"<KeyPress-C>"},
			handler:     func() { a.copyDetailSelection(true) },
		},
		{
			category:    "General",
			display:     "F5",
			description: "Reload all repositories",
			sequences:   []string{"<F5>"},
			handler:     a.refresh,
		},
		{
			category:    "General",
			display:     "Ctrl+O",
			description: "Add a repository",
			sequences:   []string{"<Control-KeyPress-o>"},
			handler:     a.promptAddRepository,
		},
		{
			category:    "General",
			display:     "F1",
			description: "Show shortcut list",
			sequences:   []string{"<F1>"},
			handler:     a.showShortcutsDialog,
		},
		{
			category:    "General",
			display:     "Ctrl+Q",
			description: "Quit gitk-explorer",
			sequences:   []string{"<Control-KeyPress-q>"},
			handler:     func() { Destroy(App) },
		},
	}
}

func (a *Controller) refreshSelectedRow() {
	if row, ok := a.selectedRow(); ok {
		a.reloadRow(row)
	}
}

func (a *Controller) showShortcutsDialog() {
	if a.ui.shortcutsWindow != nil {
		Destroy(a.ui.shortcutsWindow.Window)
		a.ui.shortcutsWindow = nil
	}
	dialog := App.Toplevel()
	a.ui.shortcutsWindow = dialog
	dialog.Window.WmTitle("Keyboard Shortcuts")
	WmTransient(dialog.Window, App)
	WmAttributes(dialog.Window, "-topmost", 1)

	frame := dialog.TFrame(Padding("12p"))
	Grid(frame, Row(0), Column(0), Sticky(NEWS))
	GridColumnConfigure(frame.Window, 0, Weight(1))
	GridRowConfigure(frame.Window, 1, Weight(1))

	header := frame.TLabel(Txt("Keyboard Shortcuts"), Anchor(W))
	Grid(header, Row(0), Column(0), Sticky(W), Pady("0 8p"))

	text := frame.Text(Width(62), Height(18), Wrap(WORD), Exportselection(false))
	text.Insert("1.0", formatShortcutsHelpText(a.shortcutBindings()))
	text.Configure(State("disabled"))
	Grid(text, Row(1), Column(0), Sticky(NEWS))

	closeBtn := frame.TButton(Txt("Close"), Command(func() { Destroy(dialog.Window) }))
	Grid(closeBtn, Row(2), Column(0), Sticky(E), Pady("8p 0"))

	Bind(dialog.Window, "<Destroy>", Command(func() {
		if a.ui.shortcutsWindow == dialog {
			a.ui.shortcutsWindow = nil
		}
	}))
	dialog.Window.Center()
}

func (a *Controller) scrollDetailPages(delta int) {
	a.scrollDetail(delta, "pages")
}

func (a *Controller) scrollDetailLines(delta int) {
	a.scrollDetail(delta, "units")
}

func (a *Controller) scrollDetail(delta int, unit string) {
	if a.ui.diffDetail == nil || delta == 0 {
		return
	}
	if _, err := tkutil.Eval("%s yview scroll %d %s", a.ui.diffDetail, delta, unit); err != nil {
		slog.Error("detail scroll", slog.Any("error", err))
	}
}

// formatShortcutsHelpText groups bindings by category. Bindings missing a
// category, display or description are skipped.
func formatShortcutsHelpText(bindings []shortcutBinding) string {
	var b strings.Builder
	currentCategory := ""
	for _, sc := range bindings {
		if sc.category == "" || sc.display == "" || sc.description == "" {
			continue
		}
		if sc.category != currentCategory {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			currentCategory = sc.category
			b.WriteString(currentCategory)
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "  %s — %s\n", sc.display, sc.description)
	}
	return strings.TrimRight(b.String(), "\n")
}
