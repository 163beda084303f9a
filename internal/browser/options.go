// Package browser runs the upload dialog in a local Chrome through the
// DevTools protocol.
package browser

import (
	"github.com/chromedp/chromedp"
)

const (
	DefaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultWindowWidth  = 1280
	defaultWindowHeight = 900
)

// Fingerprint is what the stealth script reports to page scripts.
type Fingerprint struct {
	Languages   []string `json:"languages"`
	Vendor      string   `json:"vendor"`
	Platform    string   `json:"platform"`
	WebGLVendor string   `json:"webglVendor"`
	Renderer    string   `json:"renderer"`
}

func DefaultFingerprint() Fingerprint {
	return Fingerprint{
		Languages:   []string{"en-US", "en"},
		Vendor:      "Google Inc.",
		Platform:    "Win32",
		WebGLVendor: "Intel Inc.",
		Renderer:    "Intel Iris OpenGL Engine",
	}
}

// Options is the process-wide browser setup handed to every launch.
type Options struct {
	ProfileDir   string
	ExecPath     string
	Headless     bool
	UserAgent    string
	WindowWidth  int
	WindowHeight int
	Stealth      bool
	Fingerprint  Fingerprint
}

func (o Options) withDefaults() Options {
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.WindowWidth == 0 {
		o.WindowWidth = defaultWindowWidth
	}
	if o.WindowHeight == 0 {
		o.WindowHeight = defaultWindowHeight
	}
	if len(o.Fingerprint.Languages) == 0 {
		o.Fingerprint = DefaultFingerprint()
	}
	return o
}

func (o Options) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(o.UserAgent),
		chromedp.WindowSize(o.WindowWidth, o.WindowHeight),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("no-first-run", true),
	)

	if o.ProfileDir != "" {
		opts = append(opts, chromedp.UserDataDir(o.ProfileDir))
	}
	if o.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(o.ExecPath))
	}
	if len(o.Fingerprint.Languages) > 0 {
		opts = append(opts, chromedp.Flag("lang", o.Fingerprint.Languages[0]))
	}

	if o.Headless {
		opts = append(opts, chromedp.Headless)
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	return opts
}
