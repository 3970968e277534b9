package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string // empty means no file
		want    Prefs
		wantErr bool
	}{
		{name: "missing file", want: Prefs{Theme: defaultTheme}},
		{name: "theme only", content: "theme = \"Slate\"\n", want: Prefs{Theme: "Slate"}},
		{name: "blank theme", content: "theme = \"  \"\n", want: Prefs{Theme: defaultTheme}},
		{
			name:    "session trimmed",
			content: "theme = \"Nightfox\"\nusername = \" sam \"\nrole = \"admin\"\n",
			want:    Prefs{Theme: "Nightfox", Username: "sam", Role: "admin"},
		},
		{name: "invalid toml", content: "not valid toml {{{\n", want: Prefs{Theme: defaultTheme}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "prefs.toml")
			if tt.content != "" {
				if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
					t.Fatalf("WriteFile: %v", err)
				}
			}
			got, err := Load(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("Load = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestLoad_DefaultPathUsesHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "stockpile")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "prefs.toml"), []byte("theme = \"Slate\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Slate" {
		t.Fatalf("Theme = %q, want Slate", p.Theme)
	}
}

func TestSave_SessionLifecycle(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	path := filepath.Join(dir, "prefs.toml")

	if err := Save(path, Prefs{Theme: "Slate", Username: "sam", Role: "admin"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("prefs mode = %o, want 600", perm)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !loaded.SignedIn() || loaded.Username != "sam" {
		t.Fatalf("loaded = %#v, want sam signed in", loaded)
	}

	if err := Save(path, Prefs{Theme: loaded.Theme}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	loaded, err = Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.SignedIn() || loaded.Theme != "Slate" {
		t.Fatalf("after sign-out = %#v, want Slate and no session", loaded)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("prefs dir has %d entries, want only prefs.toml", len(entries))
	}
}
