package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/five82/stockpile/internal/inventory"
	"github.com/five82/stockpile/internal/remotetest"
)

func writeConfig(t *testing.T) (Options, string) {
	t.Helper()
	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "stockpile.log")
	cfg := "request_timeout_seconds = 2\nlog_path = \"" + logPath + "\"\nexport_dir = \"" + dir + "\"\n"
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return Options{ConfigPath: path, EnvFile: filepath.Join(dir, "missing.env")}, logPath
}

func TestDump_PrintsSnapshot(t *testing.T) {
	srv := remotetest.New()
	t.Cleanup(srv.Close)
	srv.SeedItem(inventory.Item{Name: "Bolt", Unit: "pcs", AlertQty: 10}, decimal.NewFromInt(12))

	opts, logPath := writeConfig(t)
	opts.APIURL = srv.APIURL()

	var out bytes.Buffer
	if err := Dump(context.Background(), opts, &out); err != nil {
		t.Fatalf("Dump returned error: %v", err)
	}
	if !strings.Contains(out.String(), "Bolt") || !strings.Contains(out.String(), srv.APIURL()) {
		t.Fatalf("Dump output missing item or url:\n%s", out.String())
	}
	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("log file not created: %v", err)
	}
}

func TestDump_UnreachableServer(t *testing.T) {
	srv := remotetest.New()
	url := srv.APIURL()
	srv.Close()

	opts, _ := writeConfig(t)
	opts.APIURL = url

	var out bytes.Buffer
	if err := Dump(context.Background(), opts, &out); err == nil {
		t.Fatalf("Dump returned nil error for a closed server")
	}
}

func TestSetup_OverridesPollInterval(t *testing.T) {
	opts, _ := writeConfig(t)
	opts.APIURL = "http://127.0.0.1:1/api"
	opts.PollEvery = 7

	rt, err := setup(opts)
	if err != nil {
		t.Fatalf("setup returned error: %v", err)
	}
	t.Cleanup(func() { _ = rt.logger.Sync() })
	if rt.cfg.PollInterval.Seconds() != 7 {
		t.Fatalf("PollInterval = %v, want 7s", rt.cfg.PollInterval)
	}
	if rt.cfg.APIURL != opts.APIURL {
		t.Fatalf("APIURL = %q, want override", rt.cfg.APIURL)
	}
}
