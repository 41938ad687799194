package git

import (
	"fmt"
	"strings"
)

const summaryMaxLen = 80

// Summary returns the first line of the commit message, shortened to fit a
// single tree row.
func Summary(c *Commit) string {
	if c == nil {
		return ""
	}
	first, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	first = strings.TrimSpace(first)
	if len(first) > summaryMaxLen {
		first = first[:summaryMaxLen-3] + "..."
	}
	return first
}

func ShortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

func FormatCommitHeader(c *Commit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "commit %s\n", c.Hash)
	if len(c.ParentHashes) > 1 {
		short := make([]string, 0, len(c.ParentHashes))
		for _, p := range c.ParentHashes {
			short = append(short, ShortHash(p))
		}
		fmt.Fprintf(&b, "Merge: %s\n", strings.Join(short, " "))
	}
	appendSignatureLine(&b, "Author", c.Author)
	committer := c.Committer
	if committer.Name == "" && committer.Email == "" && committer.When.IsZero() {
		committer = c.Author
	}
	appendSignatureLine(&b, "Committer", committer)
	b.WriteString("\n")
	message := strings.TrimRight(c.Message, "\n")
	if message == "" {
		b.WriteString("    (no commit message)\n")
		return b.String()
	}
	for line := range strings.SplitSeq(message, "\n") {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		fmt.Fprintf(&b, "    %s\n", line)
	}
	return b.String()
}

func appendSignatureLine(b *strings.Builder, label string, sig Signature) {
	fmt.Fprintf(b, "%s: %s <%s>", label, sig.Name, sig.Email)
	if !sig.When.IsZero() {
		fmt.Fprintf(b, "  %s", sig.When.Format("2006-01-02 15:04:05 -0700"))
	}
	b.WriteByte('\n')
}
