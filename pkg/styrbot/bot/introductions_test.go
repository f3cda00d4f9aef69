package bot

import (
	"path/filepath"
	"testing"
)

func TestIntroductionsPersistAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "introduced_channels.json")

	tr, err := OpenIntroductions(path, nil)
	if err != nil {
		t.Fatalf("OpenIntroductions: %v", err)
	}
	if tr.Has("chan-a") {
		t.Error("fresh tracker claims chan-a was introduced")
	}

	tr.Mark("chan-a")
	tr.Mark("chan-b")
	tr.Mark("chan-a") // idempotent

	if !tr.Has("chan-a") || !tr.Has("chan-b") {
		t.Error("marked channels not reported")
	}

	reloaded, err := OpenIntroductions(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !reloaded.Has("chan-a") || !reloaded.Has("chan-b") {
		t.Error("introduced channels lost across reload")
	}
	if reloaded.Has("chan-c") {
		t.Error("unknown channel reported as introduced")
	}
}
