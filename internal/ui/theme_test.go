package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"Dracula", "Nightfox", "Slate"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames() returned %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ThemeNames() = %v, want %v", names, want)
		}
	}
}

func TestNextTheme(t *testing.T) {
	tests := map[string]string{
		"Dracula":  "Nightfox",
		"Nightfox": "Slate",
		"Slate":    "Dracula",
		"Unknown":  "Dracula",
	}
	for current, want := range tests {
		if got := NextTheme(current); got != want {
			t.Fatalf("NextTheme(%s) = %q, want %s", current, got, want)
		}
	}
}

func TestGetTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%s).Name = %q", name, got)
		}
	}
	if got := GetTheme("Unknown").Name; got != "Dracula" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Dracula (fallback)", got)
	}
}

func TestStyles_BadgeColors(t *testing.T) {
	th := GetTheme("Dracula")
	styles := th.Styles()

	if got := styles.Badge("LOW").GetBackground(); got != lipgloss.Color(th.Danger) {
		t.Fatalf("Badge(LOW) background = %v, want %s", got, th.Danger)
	}
	if got := styles.Badge("OK").GetBackground(); got != lipgloss.Color(th.Success) {
		t.Fatalf("Badge(OK) background = %v, want %s", got, th.Success)
	}
	if got := styles.Badge("other").GetBackground(); got != lipgloss.Color(th.Muted) {
		t.Fatalf("Badge(other) background = %v, want muted %s", got, th.Muted)
	}
	if got := styles.Tone("OUT").GetForeground(); got != lipgloss.Color(th.Danger) {
		t.Fatalf("Tone(OUT) foreground = %v, want %s", got, th.Danger)
	}
	if got := styles.Tone("").GetForeground(); got != lipgloss.Color(th.Text) {
		t.Fatalf("Tone(empty) foreground = %v, want text %s", got, th.Text)
	}
}
