package ui

import (
	"strings"
	"testing"
)

func TestClipVisibleShortLinesUntouched(t *testing.T) {
	if got := clipVisible("hello", 10); got != "hello" {
		t.Errorf("got %q", got)
	}
	exact := strings.Repeat("x", maxPanelWidth)
	if got := clipVisible(exact, maxPanelWidth); got != exact {
		t.Errorf("line at the limit must not be clipped")
	}
}

func TestClipVisibleLongLine(t *testing.T) {
	long := strings.Repeat("x", 200)
	got := clipVisible(long, 20)
	if vis := len([]rune(stripANSI(got))); vis != 20 {
		t.Errorf("visible width: got %d, want 20 (%q)", vis, got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("missing ellipsis: %q", got)
	}
}

func TestClipVisibleKeepsEscapes(t *testing.T) {
	SetColorForcing(true, false)
	defer SetColorForcing(false, false)

	colored := C(fgRed, strings.Repeat("y", 50))
	got := clipVisible(colored, 10)
	if vis := len([]rune(stripANSI(got))); vis != 10 {
		t.Errorf("visible width: got %d, want 10", vis)
	}
	if !strings.HasPrefix(got, fgRed) {
		t.Errorf("leading escape dropped: %q", got)
	}
	if !strings.HasSuffix(got, reset) {
		t.Errorf("color left open after clip: %q", got)
	}
}
