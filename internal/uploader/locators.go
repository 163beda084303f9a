package uploader

import (
	"runtime"
	"strings"

	"github.com/chromedp/chromedp/kb"
)

// Studio upload dialog markup.
var (
	fileInputLocator      = Locator{ByCSS, `input[type="file"]`}
	textboxLocator        = Locator{ByID, "textbox"}
	notMadeForKidsLocator = Locator{ByName, "VIDEO_MADE_FOR_KIDS_NOT_MFK"}
	radioLabelLocator     = Locator{ByID, "radioLabel"}
	advancedToggleLocator = Locator{ByID, "toggle-button"}
	tagsContainerLocator  = Locator{ByID, "tags-container"}
	tagsInputLocator      = Locator{ByID, "text-input"}
	nextButtonLocator     = Locator{ByID, "next-button"}
	videoURLContainer     = Locator{ByCSS, "span.video-url-fadeable"}
	videoURLLink          = Locator{ByCSS, "a.ytcp-video-info"}
	doneButtonLocator     = Locator{ByID, "done-button"}
	errorMessageLocator   = Locator{ByID, "error-message"}
)

const (
	// descriptionIndex picks the description box among the #textbox inputs;
	// the title box comes first.
	descriptionIndex = 1
	wizardPages      = 3
	hrefAttr         = "href"
	ariaDisabled     = "aria-disabled"
)

// commitLine is sent in place of "\n": the description box drops literal
// newlines but starts a new line on Enter.
const commitLine = kb.Enter

type chord struct {
	key  string
	mods []Modifier
}

var selectAllChords = map[string]chord{
	"darwin": {key: "a", mods: []Modifier{ModifierMeta}},
}

var defaultSelectAll = chord{key: "a", mods: []Modifier{ModifierCtrl}}

func selectAllFor(goos string) chord {
	if c, ok := selectAllChords[goos]; ok {
		return c
	}
	return defaultSelectAll
}

func hostSelectAll() chord {
	return selectAllFor(runtime.GOOS)
}

func encodeMultiline(s string) string {
	return strings.ReplaceAll(s, "\n", commitLine)
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// trailingSegment returns the last path segment of a watch link,
// e.g. "https://youtu.be/abc123" -> "abc123".
func trailingSegment(href string) string {
	i := strings.LastIndex(href, "/")
	return href[i+1:]
}
