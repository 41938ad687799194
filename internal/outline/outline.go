// Package outline prints explorer nodes as an indented text tree.
package outline

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/thiagokokada/gitk-explorer/internal/explorer"
)

var (
	enumeratorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginRight(1)
	containerStyle  = lipgloss.NewStyle().Bold(true)
	messageStyle    = lipgloss.NewStyle().Faint(true).Italic(true)
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	aheadStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	behindStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	divergedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	commitStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

// Printer renders nodes down to Depth levels below the roots. Rows beyond
// Depth are not fetched.
type Printer struct {
	Depth int
}

func New(depth int) *Printer {
	return &Printer{Depth: depth}
}

// Fprint writes the outline of roots to w. Node failures are printed in
// place as "error: ..." rows; only write errors are returned.
func (p *Printer) Fprint(w io.Writer, roots ...explorer.Node) error {
	for _, root := range roots {
		out := p.build(root, p.Depth)
		var text string
		if t, ok := out.(*tree.Tree); ok {
			text = t.String()
		} else {
			text = fmt.Sprint(out)
		}
		if _, err := fmt.Fprintln(w, text); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) Render(roots ...explorer.Node) string {
	var sb strings.Builder
	_ = p.Fprint(&sb, roots...)
	return sb.String()
}

func (p *Printer) build(n explorer.Node, depth int) any {
	item, err := n.TreeItem()
	if err != nil {
		slog.Error("render node", slog.Any("error", err))
		return errorStyle.Render("error: " + err.Error())
	}
	label := styleFor(item).Render(item.Label)
	if item.CollapsibleState == explorer.CollapsibleNone || depth <= 0 {
		return label
	}
	sub := tree.Root(label).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(enumeratorStyle)
	children, err := n.Children()
	if err != nil {
		slog.Error("expand node", slog.String("label", item.Label), slog.Any("error", err))
		return sub.Child(errorStyle.Render("error: " + err.Error()))
	}
	for _, c := range children {
		sub.Child(p.build(c, depth-1))
	}
	return sub
}

func styleFor(item explorer.TreeItem) lipgloss.Style {
	switch {
	case item.ContextValue == explorer.ResourceMessage || item.ContextValue == explorer.ResourceShowAll:
		return messageStyle
	case item.ContextValue.IsCommit():
		return commitStyle
	case item.ContextValue.IsBranch():
		return branchStyle(item.IconPath)
	default:
		return containerStyle
	}
}

// branchStyle colours a branch the way its icon is coloured.
func branchStyle(icon *explorer.IconPath) lipgloss.Style {
	if icon == nil {
		return lipgloss.NewStyle()
	}
	switch {
	case strings.HasSuffix(icon.Dark, "-yellow.svg"):
		return divergedStyle
	case strings.HasSuffix(icon.Dark, "-green.svg"):
		return aheadStyle
	case strings.HasSuffix(icon.Dark, "-red.svg"):
		return behindStyle
	default:
		return lipgloss.NewStyle()
	}
}
