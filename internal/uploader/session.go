package uploader

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type State int

const (
	StateCreated State = iota
	StateNavigating
	StateFormFilling
	StateConfirming
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateNavigating:
		return "navigating"
	case StateFormFilling:
		return "form-filling"
	case StateConfirming:
		return "confirming"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

func (s State) terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// session drives one request through the upload dialog. It owns the driver
// and quits it exactly once, whichever way the run ends.
type session struct {
	driver    Driver
	req       UploadRequest
	opts      StudioOptions
	selectAll chord
	logger    *slog.Logger
	state     State
	released  bool
}

type step struct {
	name string
	fn   func(ctx context.Context) error
}

func newSession(driver Driver, req UploadRequest, opts StudioOptions, selectAll chord, logger *slog.Logger) *session {
	return &session{
		driver:    driver,
		req:       req,
		opts:      opts,
		selectAll: selectAll,
		logger:    logger.With("file", req.FilePath),
		state:     StateCreated,
	}
}

func (s *session) run(ctx context.Context) (*UploadResult, error) {
	s.transition(StateNavigating)
	if err := s.open(ctx); err != nil {
		return s.fail(err)
	}

	s.transition(StateFormFilling)
	steps := []step{
		{"attach video", s.attachVideo},
		{"title", s.fillTitle},
		{"description", s.fillDescription},
		{"audience", s.selectAudience},
		{"tags", s.fillTags},
		{"wizard pages", s.advance},
		{"visibility", s.selectVisibility},
	}
	for _, st := range steps {
		if err := st.fn(ctx); err != nil {
			return s.fail(err)
		}
	}

	s.transition(StateConfirming)
	videoID := s.contentID(ctx)
	return s.publish(ctx, videoID)
}

func (s *session) transition(next State) {
	s.logger.Debug("Upload session state", "from", s.state, "to", next)
	s.state = next
}

func (s *session) fail(err error) (*UploadResult, error) {
	s.transition(StateFailed)
	return nil, err
}

func (s *session) release() {
	if s.released {
		return
	}
	s.released = true
	if !s.state.terminal() {
		s.transition(StateFailed)
	}
	if err := s.driver.Quit(); err != nil {
		s.logger.Warn("Failed to close browser", "error", err)
	}
}

func (s *session) open(ctx context.Context) error {
	for _, url := range []string{s.opts.HomeURL, s.opts.UploadURL} {
		if err := s.driver.Navigate(ctx, url); err != nil {
			return fmt.Errorf("failed to open %s: %w", url, err)
		}
		if err := s.settle(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) attachVideo(ctx context.Context) error {
	input, err := s.find(ctx, "attach video", fileInputLocator)
	if err != nil {
		return err
	}
	if err := input.AttachFile(ctx, s.req.FilePath); err != nil {
		return &LocatorError{Step: "attach video", Locator: fileInputLocator, Err: err}
	}
	s.logger.Debug("Attached video")
	return nil
}

func (s *session) fillTitle(ctx context.Context) error {
	field, err := s.driver.WaitPresent(ctx, textboxLocator, s.opts.TitleTimeout)
	if err != nil {
		return &LocatorError{Step: "title", Locator: textboxLocator, Err: err}
	}
	if err := s.writeInField(ctx, field, s.req.Title, true); err != nil {
		return &LocatorError{Step: "title", Locator: textboxLocator, Err: err}
	}
	s.logger.Debug("Title set", "title", s.req.Title)
	return nil
}

func (s *session) fillDescription(ctx context.Context) error {
	description := encodeMultiline(s.req.Description)
	if description == "" {
		return nil
	}

	fields, err := s.driver.FindElements(ctx, textboxLocator)
	if err != nil {
		return &LocatorError{Step: "description", Locator: textboxLocator, Err: err}
	}
	if len(fields) <= descriptionIndex {
		return &LocatorError{
			Step:    "description",
			Locator: textboxLocator,
			Err:     fmt.Errorf("%w: found %d text boxes", ErrElementNotFound, len(fields)),
		}
	}

	if err := s.writeInField(ctx, fields[descriptionIndex], description, true); err != nil {
		return &LocatorError{Step: "description", Locator: textboxLocator, Err: err}
	}
	s.logger.Debug("Description set")
	return nil
}

func (s *session) selectAudience(ctx context.Context) error {
	if !s.req.AgeRestricted {
		return nil
	}
	if err := s.clickRadio(ctx, "audience", notMadeForKidsLocator); err != nil {
		return err
	}
	s.logger.Debug("Audience selected", "option", notMadeForKidsLocator.Value)
	return nil
}

func (s *session) fillTags(ctx context.Context) error {
	if err := s.click(ctx, "advanced options", advancedToggleLocator); err != nil {
		return err
	}

	container, err := s.find(ctx, "tags", tagsContainerLocator)
	if err != nil {
		return err
	}
	field, err := container.FindElement(ctx, tagsInputLocator)
	if err != nil {
		return &LocatorError{Step: "tags", Locator: tagsInputLocator, Err: err}
	}
	if err := s.writeInField(ctx, field, joinTags(s.req.Tags), false); err != nil {
		return &LocatorError{Step: "tags", Locator: tagsInputLocator, Err: err}
	}
	s.logger.Debug("Tags set", "tags", s.req.Tags)
	return nil
}

// advance moves through the details, elements and checks pages, which all
// share the same next button id.
func (s *session) advance(ctx context.Context) error {
	for page := 1; page <= wizardPages; page++ {
		if err := s.click(ctx, fmt.Sprintf("next page %d", page), nextButtonLocator); err != nil {
			return err
		}
		s.logger.Debug("Clicked next", "page", page)
	}
	return nil
}

func (s *session) selectVisibility(ctx context.Context) error {
	group := Locator{ByName, s.req.Visibility.radioName()}
	if err := s.clickRadio(ctx, "visibility", group); err != nil {
		return err
	}
	s.logger.Debug("Visibility selected", "visibility", s.req.Visibility)
	return nil
}

// contentID reads the watch link shown on the visibility page. Any failure
// only costs the id.
func (s *session) contentID(ctx context.Context) string {
	container, err := s.driver.FindElement(ctx, videoURLContainer)
	if err != nil {
		s.logger.Warn("Could not find video id", "error", err)
		return ""
	}
	link, err := container.FindElement(ctx, videoURLLink)
	if err != nil {
		s.logger.Warn("Could not find video id", "error", err)
		return ""
	}
	href, err := link.Attribute(ctx, hrefAttr)
	if err != nil {
		s.logger.Warn("Could not find video id", "error", err)
		return ""
	}

	id := trailingSegment(href)
	if id == "" {
		s.logger.Warn("Could not find video id", "href", href)
	}
	return id
}

func (s *session) publish(ctx context.Context, videoID string) (*UploadResult, error) {
	done, err := s.find(ctx, "publish", doneButtonLocator)
	if err != nil {
		return s.fail(err)
	}

	disabled, err := done.Attribute(ctx, ariaDisabled)
	if err != nil {
		return s.fail(&LocatorError{Step: "publish", Locator: doneButtonLocator, Err: err})
	}
	if disabled == "true" {
		reason := s.rejectionReason(ctx)
		s.logger.Error("Platform refused to publish", "reason", reason)
		s.transition(StateFailed)
		return &UploadResult{Succeeded: false, Reason: reason}, nil
	}

	if err := done.Click(ctx); err != nil {
		return s.fail(&LocatorError{Step: "publish", Locator: doneButtonLocator, Err: err})
	}
	s.logger.Debug("Published video", "video_id", videoID)

	if err := s.settle(ctx); err != nil {
		s.logger.Warn("Interrupted after publishing", "error", err)
	} else if err := s.driver.Navigate(ctx, s.opts.HomeURL); err != nil {
		s.logger.Warn("Failed to return home after publishing", "error", err)
	}

	s.transition(StateSucceeded)
	return &UploadResult{Succeeded: true, ContentID: videoID}, nil
}

func (s *session) rejectionReason(ctx context.Context) string {
	const fallback = "publish button disabled"

	el, err := s.driver.FindElement(ctx, errorMessageLocator)
	if err != nil {
		s.logger.Warn("Could not read publish error", "error", err)
		return fallback
	}
	text, err := el.Text(ctx)
	if err != nil || text == "" {
		return fallback
	}
	return text
}

func (s *session) find(ctx context.Context, stepName string, loc Locator) (Element, error) {
	el, err := s.driver.FindElement(ctx, loc)
	if err != nil {
		return nil, &LocatorError{Step: stepName, Locator: loc, Err: err}
	}
	return el, nil
}

func (s *session) click(ctx context.Context, stepName string, loc Locator) error {
	el, err := s.find(ctx, stepName, loc)
	if err != nil {
		return err
	}
	if err := el.Click(ctx); err != nil {
		return &LocatorError{Step: stepName, Locator: loc, Err: err}
	}
	return nil
}

func (s *session) clickRadio(ctx context.Context, stepName string, group Locator) error {
	section, err := s.find(ctx, stepName, group)
	if err != nil {
		return err
	}
	radio, err := section.FindElement(ctx, radioLabelLocator)
	if err != nil {
		return &LocatorError{Step: stepName, Locator: radioLabelLocator, Err: err}
	}
	if err := radio.Click(ctx); err != nil {
		return &LocatorError{Step: stepName, Locator: radioLabelLocator, Err: err}
	}
	return nil
}

func (s *session) writeInField(ctx context.Context, field Element, text string, selectAll bool) error {
	if err := field.Click(ctx); err != nil {
		return err
	}
	if err := s.settle(ctx); err != nil {
		return err
	}
	if selectAll {
		if err := field.Press(ctx, s.selectAll.key, s.selectAll.mods...); err != nil {
			return err
		}
		if err := s.settle(ctx); err != nil {
			return err
		}
	}
	return field.SendKeys(ctx, text)
}

func (s *session) settle(ctx context.Context) error {
	return sleepContext(ctx, s.opts.SettleDelay)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
