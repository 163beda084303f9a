package browser

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"studiopush/internal/uploader"
)

func TestSelector(t *testing.T) {
	tests := []struct {
		name    string
		loc     uploader.Locator
		want    string
		wantErr bool
	}{
		{
			name: "byID",
			loc:  uploader.Locator{By: uploader.ByID, Value: "textbox"},
			want: `[id="textbox"]`,
		},
		{
			name: "byName",
			loc:  uploader.Locator{By: uploader.ByName, Value: "UNLISTED"},
			want: `[name="UNLISTED"]`,
		},
		{
			name: "byCSS",
			loc:  uploader.Locator{By: uploader.ByCSS, Value: `input[type="file"]`},
			want: `input[type="file"]`,
		},
		{
			name: "quotesEscaped",
			loc:  uploader.Locator{By: uploader.ByName, Value: `a"b`},
			want: `[name="a\"b"]`,
		},
		{
			name:    "emptyValue",
			loc:     uploader.Locator{By: uploader.ByID},
			wantErr: true,
		},
		{
			name:    "unknownStrategy",
			loc:     uploader.Locator{By: uploader.By(42), Value: "x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := selector(tt.loc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("selector() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("selector() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	opts := Options{}.withDefaults()

	if opts.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q, want default", opts.UserAgent)
	}
	if opts.WindowWidth != defaultWindowWidth || opts.WindowHeight != defaultWindowHeight {
		t.Errorf("window = %dx%d, want %dx%d", opts.WindowWidth, opts.WindowHeight, defaultWindowWidth, defaultWindowHeight)
	}
	if opts.Fingerprint.Platform != "Win32" {
		t.Errorf("Fingerprint.Platform = %q, want Win32", opts.Fingerprint.Platform)
	}

	custom := Options{UserAgent: "ua", WindowWidth: 800, WindowHeight: 600}.withDefaults()
	if custom.UserAgent != "ua" || custom.WindowWidth != 800 || custom.WindowHeight != 600 {
		t.Errorf("withDefaults() overwrote explicit values: %+v", custom)
	}
}

func TestAllocatorOptionsGrow(t *testing.T) {
	base := len(Options{}.withDefaults().allocatorOptions())
	full := len(Options{ProfileDir: "/tmp/profile", ExecPath: "/usr/bin/chromium"}.withDefaults().allocatorOptions())

	if full != base+2 {
		t.Errorf("allocatorOptions() with profile and exec path = %d options, want %d", full, base+2)
	}
}

func TestStealthScript(t *testing.T) {
	fp := DefaultFingerprint()
	script, err := stealthScript(fp)
	if err != nil {
		t.Fatalf("stealthScript() error = %v", err)
	}

	if strings.Contains(script, fingerprintPlaceholder) {
		t.Error("placeholder was not replaced")
	}

	data, _ := json.Marshal(fp)
	if !strings.Contains(script, string(data)) {
		t.Errorf("script does not embed fingerprint %s", data)
	}
	if !strings.Contains(script, "webdriver") {
		t.Error("script does not patch navigator.webdriver")
	}
}

func TestInputModifiers(t *testing.T) {
	got := inputModifiers([]uploader.Modifier{uploader.ModifierCtrl, uploader.ModifierMeta, uploader.Modifier(99)})
	if len(got) != 2 {
		t.Fatalf("inputModifiers() = %v, want 2 modifiers", got)
	}
}

func TestLaunchCancelledContext(t *testing.T) {
	profile := filepath.Join(t.TempDir(), "profile")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := NewLauncher(Options{ProfileDir: profile}).Launch(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Launch() error = %v, want %v", err, context.Canceled)
	}
	if s != nil {
		t.Error("Launch() returned a session for a cancelled context")
	}
	if _, err := os.Stat(profile); !os.IsNotExist(err) {
		t.Error("Launch() touched the profile directory for a cancelled context")
	}
}
