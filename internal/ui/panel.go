package ui

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRegexp.ReplaceAllString(s, "") }

// maxPanelWidth caps the frame so a table row that slips past the
// title truncation cannot blow the box apart.
const maxPanelWidth = 120

// ProgressBar renders a Unicode progress bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// Panel draws a framed box using the current theme. Lines wider than
// maxPanelWidth are clipped on their visible width.
func Panel(lines []string) {
	t := Current()
	// clip, then compute visible width
	maxw := 0
	clipped := make([]string, len(lines))
	for i, ln := range lines {
		ln = clipVisible(ln, maxPanelWidth)
		clipped[i] = ln
		w := len(stripANSI(ln))
		if w > maxw {
			maxw = w
		}
	}
	pad := func(s string) string {
		vis := len(stripANSI(s))
		if vis < maxw {
			s = s + strings.Repeat(" ", maxw-vis)
		}
		return s
	}
	leftPad := " "
	fmt.Println(t.CornerTL + strings.Repeat(t.H, maxw+2) + t.CornerTR)
	for _, ln := range clipped {
		fmt.Println(t.V + leftPad + pad(ln) + " " + t.V)
	}
	fmt.Println(t.CornerBL + strings.Repeat(t.H, maxw+2) + t.CornerBR)
}

// clipVisible shortens s to limit visible runes, keeping color escapes
// intact and closing them after the ellipsis.
func clipVisible(s string, limit int) string {
	if limit < 2 || len(stripANSI(s)) <= limit {
		return s
	}
	var b strings.Builder
	vis := 0
	for i := 0; i < len(s); {
		if loc := ansiRegexp.FindStringIndex(s[i:]); loc != nil && loc[0] == 0 {
			b.WriteString(s[i : i+loc[1]])
			i += loc[1]
			continue
		}
		if vis == limit-1 {
			b.WriteString("…")
			if strings.Contains(s, "\x1b") {
				b.WriteString(reset)
			}
			return b.String()
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		b.WriteRune(r)
		vis++
		i += size
	}
	return b.String()
}
