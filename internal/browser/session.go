package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"studiopush/internal/uploader"
)

type Launcher struct {
	opts Options
}

func NewLauncher(opts Options) *Launcher {
	return &Launcher{opts: opts.withDefaults()}
}

// Launch starts Chrome with the configured profile. The browser outlives ctx
// and stays up until Quit.
func (l *Launcher) Launch(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.opts.ProfileDir != "" {
		if err := os.MkdirAll(l.opts.ProfileDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create profile directory: %w", err)
		}
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), l.opts.allocatorOptions()...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			slog.Debug(fmt.Sprintf(format, args...))
		}),
	)

	s := &Session{
		ctx:         browserCtx,
		cancel:      browserCancel,
		allocCancel: allocCancel,
	}

	slog.Debug("Launching Chrome", "profile", l.opts.ProfileDir, "headless", l.opts.Headless)
	// The first Run allocates the browser and binds its lifetime to the
	// context it is given, so it must run on the tab context itself. ctx
	// can still abort startup by tearing the allocator down.
	stop := context.AfterFunc(ctx, allocCancel)
	err := chromedp.Run(browserCtx)
	if !stop() {
		_ = s.Quit()
		return nil, fmt.Errorf("chrome startup interrupted: %w", ctx.Err())
	}
	if err != nil {
		_ = s.Quit()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}

	if l.opts.Stealth {
		if err := s.injectStealth(ctx, l.opts.Fingerprint); err != nil {
			slog.Warn("Stealth injection failed", "error", err)
		}
	}

	return s, nil
}

// Session is one Chrome process with a single tab. It satisfies
// uploader.Driver.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	quitOnce    sync.Once
	quitErr     error
}

func (s *Session) injectStealth(ctx context.Context, fp Fingerprint) error {
	script, err := stealthScript(fp)
	if err != nil {
		return err
	}
	return s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(script).Do(ctx)
		return err
	}))
}

// run executes actions on the tab while honouring the caller's ctx. Child
// contexts of the tab can be cancelled without closing it.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.Navigate(url))
}

func (s *Session) FindElement(ctx context.Context, loc uploader.Locator) (uploader.Element, error) {
	nodes, err := s.query(ctx, loc, nil)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", uploader.ErrElementNotFound, loc)
	}
	return &element{s: s, node: nodes[0]}, nil
}

func (s *Session) FindElements(ctx context.Context, loc uploader.Locator) ([]uploader.Element, error) {
	nodes, err := s.query(ctx, loc, nil)
	if err != nil {
		return nil, err
	}
	els := make([]uploader.Element, 0, len(nodes))
	for _, n := range nodes {
		els = append(els, &element{s: s, node: n})
	}
	return els, nil
}

func (s *Session) WaitPresent(ctx context.Context, loc uploader.Locator, timeout time.Duration) (uploader.Element, error) {
	sel, err := selector(loc)
	if err != nil {
		return nil, err
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var nodes []*cdp.Node
	err = s.run(waitCtx, chromedp.Nodes(sel, &nodes, chromedp.ByQueryAll))
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return nil, fmt.Errorf("%w: %s not present after %s", uploader.ErrElementNotFound, loc, timeout)
	}
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", uploader.ErrElementNotFound, loc)
	}
	return &element{s: s, node: nodes[0]}, nil
}

// Quit closes the browser and releases its process. Safe to call repeatedly.
func (s *Session) Quit() error {
	s.quitOnce.Do(func() {
		if err := chromedp.Cancel(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.quitErr = fmt.Errorf("failed to close chrome: %w", err)
		}
		s.cancel()
		s.allocCancel()
	})
	return s.quitErr
}

// query looks elements up once without waiting for them to appear.
func (s *Session) query(ctx context.Context, loc uploader.Locator, from *cdp.Node) ([]*cdp.Node, error) {
	sel, err := selector(loc)
	if err != nil {
		return nil, err
	}

	opts := []chromedp.QueryOption{chromedp.ByQueryAll, chromedp.AtLeast(0)}
	if from != nil {
		opts = append(opts, chromedp.FromNode(from))
	}

	var nodes []*cdp.Node
	if err := s.run(ctx, chromedp.Nodes(sel, &nodes, opts...)); err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", loc, err)
	}
	return nodes, nil
}

var _ uploader.Driver = (*Session)(nil)
