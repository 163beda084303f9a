package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"

	"studiopush/internal/uploader"
)

type element struct {
	s    *Session
	node *cdp.Node
}

func (e *element) ids() []cdp.NodeID {
	return []cdp.NodeID{e.node.NodeID}
}

func (e *element) Click(ctx context.Context) error {
	return e.s.run(ctx, chromedp.MouseClickNode(e.node))
}

func (e *element) SendKeys(ctx context.Context, keys string) error {
	return e.s.run(ctx, chromedp.SendKeys(e.ids(), keys, chromedp.ByNodeID))
}

func (e *element) Press(ctx context.Context, key string, mods ...uploader.Modifier) error {
	return e.s.run(ctx,
		chromedp.Focus(e.ids(), chromedp.ByNodeID),
		chromedp.KeyEvent(key, chromedp.KeyModifiers(inputModifiers(mods)...)),
	)
}

func (e *element) AttachFile(ctx context.Context, path string) error {
	return e.s.run(ctx, chromedp.SetUploadFiles(e.ids(), []string{path}, chromedp.ByNodeID))
}

// Attribute reads the live attribute value; a missing attribute reads as "".
func (e *element) Attribute(ctx context.Context, name string) (string, error) {
	var (
		value string
		ok    bool
	)
	if err := e.s.run(ctx, chromedp.AttributeValue(e.ids(), name, &value, &ok, chromedp.ByNodeID)); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return value, nil
}

func (e *element) Text(ctx context.Context) (string, error) {
	var text string
	if err := e.s.run(ctx, chromedp.Text(e.ids(), &text, chromedp.ByNodeID)); err != nil {
		return "", fmt.Errorf("failed to read text: %w", err)
	}
	return text, nil
}

func (e *element) FindElement(ctx context.Context, loc uploader.Locator) (uploader.Element, error) {
	nodes, err := e.s.query(ctx, loc, e.node)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", uploader.ErrElementNotFound, loc)
	}
	return &element{s: e.s, node: nodes[0]}, nil
}

func inputModifiers(mods []uploader.Modifier) []input.Modifier {
	out := make([]input.Modifier, 0, len(mods))
	for _, m := range mods {
		switch m {
		case uploader.ModifierCtrl:
			out = append(out, input.ModifierCtrl)
		case uploader.ModifierMeta:
			out = append(out, input.ModifierMeta)
		}
	}
	return out
}

var _ uploader.Element = (*element)(nil)
