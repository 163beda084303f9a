package uploader

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrElementNotFound = errors.New("element not found")

type By int

const (
	ByID By = iota
	ByName
	ByCSS
)

func (b By) String() string {
	switch b {
	case ByID:
		return "id"
	case ByName:
		return "name"
	case ByCSS:
		return "css"
	default:
		return fmt.Sprintf("By(%d)", int(b))
	}
}

type Locator struct {
	By    By
	Value string
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%q", l.By, l.Value)
}

type Modifier int

const (
	ModifierCtrl Modifier = iota + 1
	ModifierMeta
)

// Driver is the browser capability a session needs. Lookups are single
// attempts: a missing element yields an error wrapping ErrElementNotFound.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	FindElement(ctx context.Context, loc Locator) (Element, error)
	FindElements(ctx context.Context, loc Locator) ([]Element, error)
	WaitPresent(ctx context.Context, loc Locator, timeout time.Duration) (Element, error)
	Quit() error
}

type Element interface {
	Click(ctx context.Context) error
	SendKeys(ctx context.Context, keys string) error
	Press(ctx context.Context, key string, mods ...Modifier) error
	AttachFile(ctx context.Context, path string) error
	Attribute(ctx context.Context, name string) (string, error)
	Text(ctx context.Context) (string, error)
	FindElement(ctx context.Context, loc Locator) (Element, error)
}

type Launcher interface {
	Launch(ctx context.Context) (Driver, error)
}

type LaunchFunc func(ctx context.Context) (Driver, error)

func (f LaunchFunc) Launch(ctx context.Context) (Driver, error) {
	return f(ctx)
}

type LocatorError struct {
	Step    string
	Locator Locator
	Err     error
}

func (e *LocatorError) Error() string {
	return fmt.Sprintf("%s: locate %s: %v", e.Step, e.Locator, e.Err)
}

func (e *LocatorError) Unwrap() error {
	return e.Err
}
