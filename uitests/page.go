package uitests

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/require"

	"github.com/petclinic/petclinic-contract-tests/framework/ldtest"
)

const textPollInterval = 250 * time.Millisecond

// Page drives the browser that belongs to a single test. Every method waits for the element
// it needs, up to the configured timeout, and stops the test if the element never appears.
type Page struct {
	t           *ldtest.T
	ctx         context.Context
	baseURL     string
	waitTimeout time.Duration
}

// NewPage starts a browser for the test. When the test ends the browser is closed, after
// saving a screenshot if the test failed, and the harness pauses for the settle delay so the
// frontend finishes whatever the test started.
func NewPage(t *ldtest.T) *Page {
	c := requireContext(t)
	ctx, closeBrowser := c.harness.NewBrowserContext(t.DebugLogger())
	p := &Page{
		t:           t,
		ctx:         ctx,
		baseURL:     c.baseURL,
		waitTimeout: c.waitTimeout,
	}
	t.Defer(func() {
		if t.Failed() && c.screenshotDir != "" {
			p.saveScreenshot(c.screenshotDir)
		}
		closeBrowser()
		if c.settleDelay > 0 {
			time.Sleep(c.settleDelay)
		}
	})

	// The first Run starts the browser; it must not be given a context with a timeout, or the
	// browser would be closed when the timeout expired.
	require.NoError(t, chromedp.Run(ctx), "failed to start browser")
	return p
}

func (p *Page) run(description string, actions ...chromedp.Action) {
	ctx, cancel := context.WithTimeout(p.ctx, p.waitTimeout)
	defer cancel()
	p.t.Debug("browser: %s", description)
	err := chromedp.Run(ctx, actions...)
	require.NoError(p.t, err, "browser action failed: %s", description)
}

// Open loads a page of the frontend. The path is relative to the frontend's base URL.
func (p *Page) Open(path string) {
	p.run("open "+path, chromedp.Navigate(p.baseURL+path))
}

// ClickLink clicks the link with the given text, ignoring case.
func (p *Page) ClickLink(text string) {
	sel := linkXPath(text)
	p.run(fmt.Sprintf("click link %q", text),
		chromedp.WaitVisible(sel),
		chromedp.Click(sel),
	)
}

// WaitForLink waits until a link with the given text is visible.
func (p *Page) WaitForLink(text string) {
	p.run(fmt.Sprintf("wait for link %q", text), chromedp.WaitVisible(linkXPath(text)))
}

func (p *Page) ClickButton(text string) {
	sel := buttonXPath(text)
	p.run(fmt.Sprintf("click button %q", text),
		chromedp.WaitVisible(sel),
		chromedp.Click(sel),
	)
}

// ClickButtonInRow clicks a button in the table row that mentions rowText.
func (p *Page) ClickButtonInRow(rowText, buttonText string) {
	sel := rowButtonXPath(rowText, buttonText)
	p.run(fmt.Sprintf("click %q in row %q", buttonText, rowText),
		chromedp.WaitReady(sel),
		chromedp.Click(sel),
	)
}

// Submit clicks the form's submit button.
func (p *Page) Submit() {
	p.run("submit form", chromedp.Click("button[type='submit']", chromedp.ByQuery))
}

// Fill types into the input with the given id.
func (p *Page) Fill(id, value string) {
	sel := "#" + id
	p.run(fmt.Sprintf("type %q into #%s", value, id),
		chromedp.WaitVisible(sel, chromedp.ByQuery),
		chromedp.SendKeys(sel, value, chromedp.ByQuery),
	)
}

// FillByName types into the input with the given name attribute.
func (p *Page) FillByName(name, value string) {
	sel := fmt.Sprintf("[name='%s']", name)
	p.run(fmt.Sprintf("type %q into %s", value, sel),
		chromedp.WaitVisible(sel, chromedp.ByQuery),
		chromedp.SendKeys(sel, value, chromedp.ByQuery),
	)
}

// Clear empties the input with the given id.
func (p *Page) Clear(id string) {
	sel := "#" + id
	p.run("clear #"+id,
		chromedp.WaitVisible(sel, chromedp.ByQuery),
		chromedp.Clear(sel, chromedp.ByQuery),
	)
}

// ClickBody clicks on the page background, which closes dropdowns and overlays.
func (p *Page) ClickBody() {
	p.run("click page body", chromedp.Click("body", chromedp.ByQuery))
}

// SelectMatOptions opens an Angular Material multiple-select and toggles the given options.
func (p *Page) SelectMatOptions(options ...string) {
	actions := []chromedp.Action{
		chromedp.WaitVisible(matSelectTriggerXPath),
		chromedp.Click(matSelectTriggerXPath),
	}
	for _, o := range options {
		sel := matOptionCheckboxXPath(o)
		actions = append(actions, chromedp.WaitVisible(sel), chromedp.Click(sel))
	}
	p.run(fmt.Sprintf("select options %v", options), actions...)
}

// WaitVisible waits until the element matching the selector is visible. Selectors that start
// with "/" are XPath expressions; anything else is a CSS selector.
func (p *Page) WaitVisible(selector string) {
	p.run("wait for "+selector, chromedp.WaitVisible(selector, queryOption(selector)))
}

func queryOption(selector string) chromedp.QueryOption {
	if isXPath(selector) {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

func isXPath(selector string) bool {
	return strings.HasPrefix(selector, "/")
}

// TextOf waits for the element matching the CSS selector to be visible and returns its rendered
// text, with runs of whitespace collapsed. Text hidden by CSS is not included.
func (p *Page) TextOf(cssSelector string) string {
	var text string
	p.run("read text of "+cssSelector,
		chromedp.WaitVisible(cssSelector, chromedp.ByQuery),
		chromedp.Text(cssSelector, &text, chromedp.ByQuery),
	)
	text = collapseWhitespace(text)
	p.t.Debug("text of %s: %s", cssSelector, text)
	return text
}

// PageHTML returns the HTML of the whole document.
func (p *Page) PageHTML() string {
	var html string
	p.run("read page source", chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html
}

// SourceText returns the text of the whole document, including text hidden by CSS.
func (p *Page) SourceText() string {
	text, err := sourceText(p.PageHTML())
	require.NoError(p.t, err)
	return text
}

// CountRows returns the number of table rows that mention text. It does not wait.
func (p *Page) CountRows(text string) int {
	var nodes []*cdp.Node
	p.run(fmt.Sprintf("count rows containing %q", text),
		chromedp.Nodes(rowXPath(text), &nodes, chromedp.AtLeast(0)),
	)
	return len(nodes)
}

// Pause waits without doing anything, for pages that update without a visible signal.
func (p *Page) Pause(d time.Duration) {
	p.run(fmt.Sprintf("pause %s", d), chromedp.Sleep(d))
}

func (p *Page) saveScreenshot(dir string) {
	ctx, cancel := context.WithTimeout(p.ctx, p.waitTimeout)
	defer cancel()
	var buf []byte
	if err := chromedp.Run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		p.t.Debug("failed to capture screenshot: %s", err)
		return
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		p.t.Debug("failed to create screenshot directory: %s", err)
		return
	}
	path := filepath.Join(dir, screenshotFileName(p.t.ID().String(), time.Now().Format("20060102-150405")))
	if err := os.WriteFile(path, buf, 0644); err != nil {
		p.t.Debug("failed to save screenshot: %s", err)
		return
	}
	p.t.Debug("saved screenshot to %s", path)
}

// WaitForTextGone waits until the text of the element matching the CSS selector no longer
// contains text. The element itself must stay visible.
func (p *Page) WaitForTextGone(cssSelector, text string) {
	deadline := time.Now().Add(p.waitTimeout)
	for {
		current := p.TextOf(cssSelector)
		if !strings.Contains(current, text) {
			return
		}
		if time.Now().After(deadline) {
			require.Fail(p.t, "text did not disappear",
				"%s still contains %q after %s: %s", cssSelector, text, p.waitTimeout, current)
		}
		p.Pause(textPollInterval)
	}
}
