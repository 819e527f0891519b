package ui

import "strings"

// Table renders column-aligned rows. Cells may carry ANSI color; widths
// are computed on the visible text. The second line is a rule under the
// header.
func Table(headers []string, rows [][]string) []string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(stripANSI(h))
	}
	for _, r := range rows {
		for i, cell := range r {
			if i >= len(widths) {
				break
			}
			if w := len(stripANSI(cell)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	fmtRow := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			pad := widths[i] - len(stripANSI(cell))
			if pad < 0 {
				pad = 0
			}
			parts[i] = cell + strings.Repeat(" ", pad)
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	rule := make([]string, len(headers))
	for i := range headers {
		rule[i] = strings.Repeat(Current().H, widths[i])
	}

	out := make([]string, 0, len(rows)+2)
	out = append(out, fmtRow(headers))
	out = append(out, fmtRow(rule))
	for _, r := range rows {
		out = append(out, fmtRow(r))
	}
	return out
}
