package ui

import (
	"log/slog"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/go-cmp/cmp"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"Dracula", "Slate", "Nightfox"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("ThemeNames() mismatch (-want +got):\n%s", diff)
	}

	names[0] = "changed"
	if got := ThemeNames()[0]; got != "Dracula" {
		t.Fatalf("ThemeNames() shares its backing array; first = %q", got)
	}
}

func TestNextTheme(t *testing.T) {
	cases := map[string]string{
		"Dracula":  "Slate",
		"Slate":    "Nightfox",
		"Nightfox": "Dracula",
		"Unknown":  "Dracula",
		"":         "Dracula",
	}
	for current, want := range cases {
		if got := NextTheme(current); got != want {
			t.Fatalf("NextTheme(%q) = %q, want %q", current, got, want)
		}
	}
}

func TestGetTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%q).Name = %q", name, got)
		}
	}
	if got := GetTheme("Solarized").Name; got != "Dracula" {
		t.Fatalf("GetTheme(unknown).Name = %q, want Dracula", got)
	}
}

func TestLevelStyle(t *testing.T) {
	th := GetTheme("Slate")
	styles := th.Styles()

	cases := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelError, th.Danger},
		{slog.LevelWarn, th.Warning},
		{slog.LevelInfo, th.Text},
		{slog.LevelDebug, th.Faint},
	}
	for _, tc := range cases {
		got := styles.LevelStyle(tc.level).GetForeground()
		if got != lipgloss.Color(tc.want) {
			t.Fatalf("LevelStyle(%v) foreground = %v, want %s", tc.level, got, tc.want)
		}
	}
}
