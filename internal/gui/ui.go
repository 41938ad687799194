package gui

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	. "modernc.org/tk9.0"

	"github.com/thiagokokada/gitk-explorer/internal/gui/tkutil"
)

func (a *Controller) buildUI() {
	GridColumnConfigure(App, 0, Weight(1))
	GridRowConfigure(App, 1, Weight(1))

	controls := App.TFrame(Padding("8p"))
	Grid(controls, Row(0), Column(0), Sticky(WE))
	GridColumnConfigure(controls.Window, 0, Weight(1))

	a.ui.repoLabel = controls.TLabel(Txt(a.repoLabelText()), Anchor(W))
	Grid(a.ui.repoLabel, Row(0), Column(0), Sticky(W))
	a.ui.reloadButton = controls.TButton(Txt("Reload"), Command(a.onReloadButton))
	Grid(a.ui.reloadButton, Row(0), Column(1), Sticky(E))

	pane := App.TPanedwindow(Orient(HORIZONTAL))
	Grid(pane, Row(1), Column(0), Sticky(NEWS), Padx("4p"), Pady("4p"))

	treeArea := pane.TFrame()
	detailArea := pane.TFrame()
	pane.Add(treeArea.Window)
	pane.Add(detailArea.Window)
	configurePane := func(pane *TPanedwindowWidget, window *Window, options string) {
		if _, err := tkutil.Eval("%s pane %s %s", pane, window, options); err != nil {
			slog.Debug("configure pane", slog.String("options", options), slog.Any("error", err))
		}
	}
	configurePane(pane, treeArea.Window, "-weight 2")
	configurePane(pane, detailArea.Window, "-weight 3")

	GridRowConfigure(treeArea.Window, 0, Weight(1))
	GridColumnConfigure(treeArea.Window, 0, Weight(1))

	treeScroll := treeArea.TScrollbar()
	a.ui.treeView = treeArea.TTreeview(
		Show("tree"),
		Selectmode("browse"),
		Height(24),
		Yscrollcommand(func(e *Event) { e.ScrollSet(treeScroll) }),
	)
	a.ui.treeView.Column("#0", Anchor(W), Width(380))
	a.ui.treeView.TagConfigure("error", Foreground(a.theme.palette.ErrorRow))
	a.ui.treeView.TagConfigure("message", Foreground(a.theme.palette.MessageRow))
	Grid(a.ui.treeView, Row(0), Column(0), Sticky(NEWS))
	Grid(treeScroll, Row(0), Column(1), Sticky(NS))
	treeScroll.Configure(Command(func(e *Event) { e.Yview(a.ui.treeView) }))

	Bind(a.ui.treeView, "<<TreeviewOpen>>", Command(a.onTreeOpen))
	Bind(a.ui.treeView, "<<TreeviewSelect>>", Command(a.onTreeSelectionChanged))
	Bind(a.ui.treeView, "<Double-1>", Command(a.onTreeActivate))
	Bind(a.ui.treeView, "<Return>", Command(a.onTreeActivate))
	a.bindTreeContextMenu()

	detailPane := detailArea.TPanedwindow(Orient(VERTICAL))
	GridRowConfigure(detailArea.Window, 0, Weight(1))
	GridColumnConfigure(detailArea.Window, 0, Weight(1))
	Grid(detailPane, Row(0), Column(0), Sticky(NEWS))

	textFrame := detailPane.TFrame()
	fileFrame := detailPane.TFrame()
	detailPane.Add(textFrame.Window)
	detailPane.Add(fileFrame.Window)
	configurePane(detailPane, textFrame.Window, "-weight 5")
	configurePane(detailPane, fileFrame.Window, "-weight 1")

	GridRowConfigure(textFrame.Window, 0, Weight(1))
	GridColumnConfigure(textFrame.Window, 0, Weight(1))
	GridRowConfigure(fileFrame.Window, 0, Weight(1))
	GridColumnConfigure(fileFrame.Window, 0, Weight(1))

	detailYScroll := textFrame.TScrollbar(Command(func(e *Event) { e.Yview(a.ui.diffDetail) }))
	detailXScroll := textFrame.TScrollbar(Orient(HORIZONTAL), Command(func(e *Event) { e.Xview(a.ui.diffDetail) }))
	a.ui.diffDetail = textFrame.Text(Wrap(NONE), Font(CourierFont(), 11), Exportselection(false), Tabs("1c"))
	a.ui.diffDetail.Configure(Yscrollcommand(func(e *Event) {
		e.ScrollSet(detailYScroll)
		a.onDiffScrolled()
	}))
	a.ui.diffDetail.Configure(Xscrollcommand(func(e *Event) { e.ScrollSet(detailXScroll) }))
	a.ui.diffDetail.TagConfigure("diffAdd", Background(a.theme.palette.DiffAdd))
	a.ui.diffDetail.TagConfigure("diffDel", Background(a.theme.palette.DiffDel))
	a.ui.diffDetail.TagConfigure("diffHeader", Background(a.theme.palette.DiffHeader))
	Grid(a.ui.diffDetail, Row(0), Column(0), Sticky(NEWS))
	Grid(detailYScroll, Row(0), Column(1), Sticky(NS))
	Grid(detailXScroll, Row(1), Column(0), Sticky(WE))
	a.ui.diffDetail.Configure(State("disabled"))

	fileScroll := fileFrame.TScrollbar()
	a.ui.diffFileList = fileFrame.Listbox(Exportselection(false), Height(6))
	a.ui.diffFileList.Configure(Yscrollcommand(func(e *Event) { e.ScrollSet(fileScroll) }))
	Grid(a.ui.diffFileList, Row(0), Column(0), Sticky(NEWS))
	Grid(fileScroll, Row(0), Column(1), Sticky(NS))
	fileScroll.Configure(Command(func(e *Event) { e.Yview(a.ui.diffFileList) }))
	Bind(a.ui.diffFileList, "<<ListboxSelect>>", Command(a.onFileSelectionChanged))

	a.ui.status = App.TLabel(Anchor(W), Relief(SUNKEN), Padding("4p"))
	Grid(a.ui.status, Row(2), Column(0), Sticky(WE))

	a.clearDetailText("Select a commit to view its details.")
	a.bindShortcuts()
}

func (a *Controller) repoLabelText() string {
	names := make([]string, 0, len(a.repos))
	for _, r := range a.repos {
		names = append(names, filepath.Base(r))
	}
	if len(names) == 1 {
		return fmt.Sprintf("Repository: %s", a.repos[0])
	}
	return fmt.Sprintf("Repositories: %s", strings.Join(names, ", "))
}

func (a *Controller) updateRepoLabel() {
	if a.ui.repoLabel == nil {
		return
	}
	a.ui.repoLabel.Configure(Txt(a.repoLabelText()))
}
