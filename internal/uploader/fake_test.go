package uploader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type press struct {
	key  string
	mods []Modifier
}

type fakeElement struct {
	name      string
	attrs     map[string]string
	attrErr   error
	text      string
	clickErr  error
	children  map[Locator]*fakeElement
	childErr  error
	clicks    int
	sent      []string
	presses   []press
	attached  []string
	driverLog *[]string
}

func newFakeElement(name string) *fakeElement {
	return &fakeElement{
		name:     name,
		attrs:    make(map[string]string),
		children: make(map[Locator]*fakeElement),
	}
}

func (e *fakeElement) record(event string) {
	if e.driverLog != nil {
		*e.driverLog = append(*e.driverLog, e.name+":"+event)
	}
}

func (e *fakeElement) Click(_ context.Context) error {
	if e.clickErr != nil {
		return e.clickErr
	}
	e.clicks++
	e.record("click")
	return nil
}

func (e *fakeElement) SendKeys(_ context.Context, keys string) error {
	e.sent = append(e.sent, keys)
	e.record("keys")
	return nil
}

func (e *fakeElement) Press(_ context.Context, key string, mods ...Modifier) error {
	e.presses = append(e.presses, press{key: key, mods: mods})
	e.record("press")
	return nil
}

func (e *fakeElement) AttachFile(_ context.Context, path string) error {
	e.attached = append(e.attached, path)
	e.record("attach")
	return nil
}

func (e *fakeElement) Attribute(_ context.Context, name string) (string, error) {
	if e.attrErr != nil {
		return "", e.attrErr
	}
	return e.attrs[name], nil
}

func (e *fakeElement) Text(_ context.Context) (string, error) {
	return e.text, nil
}

func (e *fakeElement) FindElement(_ context.Context, loc Locator) (Element, error) {
	if e.childErr != nil {
		return nil, e.childErr
	}
	child, ok := e.children[loc]
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrElementNotFound, loc, e.name)
	}
	return child, nil
}

type fakeDriver struct {
	elements    map[Locator][]*fakeElement
	navigations []string
	navErr      error
	waits       []time.Duration
	quits       int
	log         []string
}

func (d *fakeDriver) Navigate(_ context.Context, url string) error {
	if d.navErr != nil {
		return d.navErr
	}
	d.navigations = append(d.navigations, url)
	return nil
}

func (d *fakeDriver) FindElement(_ context.Context, loc Locator) (Element, error) {
	els := d.elements[loc]
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, loc)
	}
	return els[0], nil
}

func (d *fakeDriver) FindElements(_ context.Context, loc Locator) ([]Element, error) {
	els := d.elements[loc]
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, el)
	}
	return out, nil
}

func (d *fakeDriver) WaitPresent(ctx context.Context, loc Locator, timeout time.Duration) (Element, error) {
	d.waits = append(d.waits, timeout)
	return d.FindElement(ctx, loc)
}

func (d *fakeDriver) Quit() error {
	d.quits++
	return nil
}

func (d *fakeDriver) add(loc Locator, el *fakeElement) *fakeElement {
	el.driverLog = &d.log
	d.elements[loc] = append(d.elements[loc], el)
	return el
}

func (d *fakeDriver) remove(loc Locator) {
	delete(d.elements, loc)
}

func (d *fakeDriver) first(loc Locator) *fakeElement {
	return d.elements[loc][0]
}

// studioPage builds a driver whose page has every element the happy path
// touches, with an enabled publish button and a watch link ending in href.
func studioPage(href string) *fakeDriver {
	d := &fakeDriver{elements: make(map[Locator][]*fakeElement)}

	d.add(fileInputLocator, newFakeElement("file"))
	d.add(textboxLocator, newFakeElement("title"))
	d.add(textboxLocator, newFakeElement("description"))

	kids := d.add(notMadeForKidsLocator, newFakeElement("kids"))
	kids.children[radioLabelLocator] = newFakeElement("kids-radio")

	d.add(advancedToggleLocator, newFakeElement("advanced"))
	tags := d.add(tagsContainerLocator, newFakeElement("tags-container"))
	tags.children[tagsInputLocator] = newFakeElement("tags")

	d.add(nextButtonLocator, newFakeElement("next"))

	for _, v := range []Visibility{Private, Unlisted, Public} {
		group := d.add(Locator{ByName, v.radioName()}, newFakeElement(string(v)))
		group.children[radioLabelLocator] = newFakeElement(string(v) + "-radio")
	}

	container := d.add(videoURLContainer, newFakeElement("url-container"))
	link := newFakeElement("url-link")
	link.attrs[hrefAttr] = href
	container.children[videoURLLink] = link

	done := d.add(doneButtonLocator, newFakeElement("done"))
	done.attrs[ariaDisabled] = "false"

	errMsg := d.add(errorMessageLocator, newFakeElement("error"))
	errMsg.text = "File is a duplicate of a video you have already uploaded"

	return d
}

func testVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "video.mp4")
	if err := os.WriteFile(path, []byte("not really a video"), 0644); err != nil {
		t.Fatalf("failed to write test video: %v", err)
	}
	return path
}

func newTestUploader(d *fakeDriver, goos string) *StudioUploader {
	return NewStudioUploader(LaunchFunc(func(context.Context) (Driver, error) {
		return d, nil
	}), StudioOptions{
		HomeURL:   "https://home.test",
		UploadURL: "https://home.test/upload",
		GOOS:      goos,
	})
}

var errBoom = errors.New("boom")
