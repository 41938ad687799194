// Package tkutil wraps raw Tcl evaluation for the Tk calls the typed
// widget API does not cover.
package tkutil

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	evalext "modernc.org/tk9.0/extensions/eval"
)

func Eval(format string, a ...any) (string, error) {
	eval := fmt.Sprintf(format, a...)
	r, err := evalext.Eval(eval)
	if err != nil {
		return "", fmt.Errorf("tk eval=%s; err=%w", eval, err)
	}
	return r, nil
}

func EvalOrEmpty(format string, a ...any) string {
	out, err := Eval(format, a...)
	if err != nil {
		slog.Debug("tk eval or empty", slog.Any("error", err))
		return ""
	}
	return out
}

// TreeItemExists reports whether the treeview widget has an item id.
func TreeItemExists(tree fmt.Stringer, id string) bool {
	if id == "" {
		return false
	}
	return strings.TrimSpace(EvalOrEmpty("%s exists %s", tree, id)) == "1"
}

// TreeFocus returns the treeview's focus item, empty when none.
func TreeFocus(tree fmt.Stringer) string {
	return strings.TrimSpace(EvalOrEmpty("%s focus", tree))
}

// SetTreeItemOpen expands or collapses a treeview item.
func SetTreeItemOpen(tree fmt.Stringer, id string, open bool) error {
	flag := 0
	if open {
		flag = 1
	}
	_, err := Eval("%s item %s -open %d", tree, id, flag)
	return err
}

// Atoi parses Tk numeric output, which may come back as a float.
func Atoi(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		if f, ferr := strconv.ParseFloat(raw, 64); ferr == nil {
			return int(f)
		}
		return 0
	}
	return v
}

// LineOfIndex returns the line part of a Text index such as "12.4".
func LineOfIndex(index string) int {
	line, _, _ := strings.Cut(strings.TrimSpace(index), ".")
	return Atoi(line)
}
