package uitests

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	lowerLetters = "abcdefghijklmnopqrstuvwxyz"
	upperLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// xpathLiteral quotes s for use in an XPath expression. XPath 1.0 has no escapes, so a string
// containing both kinds of quote has to be built with concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		quoted = append(quoted, "'"+p+"'")
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}

// linkXPath finds a link by its text, ignoring case. Navigation links are styled in upper case,
// but the underlying text is not.
func linkXPath(text string) string {
	return fmt.Sprintf("//a[translate(normalize-space(.), '%s', '%s')=%s]",
		lowerLetters, upperLetters, xpathLiteral(strings.ToUpper(text)))
}

func buttonXPath(text string) string {
	return fmt.Sprintf("//button[normalize-space(text())=%s]", xpathLiteral(text))
}

// rowButtonXPath finds a button in the table row whose cells mention rowText.
func rowButtonXPath(rowText, buttonText string) string {
	return fmt.Sprintf("//tr[td[contains(text(), %s)]]//td//button[normalize-space(text())=%s]",
		xpathLiteral(rowText), xpathLiteral(buttonText))
}

func rowXPath(rowText string) string {
	return fmt.Sprintf("//tr[td[contains(text(), %s)]]", xpathLiteral(rowText))
}

func matOptionCheckboxXPath(optionText string) string {
	return fmt.Sprintf("//mat-option[contains(., %s)]//mat-pseudo-checkbox", xpathLiteral(optionText))
}

const matSelectTriggerXPath = "//div[contains(@class, 'mat-mdc-select-trigger')]"

var whitespace = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// sourceText returns the text content of HTML markup, with block elements separated and runs of
// whitespace collapsed. Unlike what the browser renders, it includes nodes hidden by CSS; it is
// the equivalent of searching the page source. Page.TextOf returns only the rendered text.
func sourceText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("script, style").Remove()
	doc.Find("td, th, tr, li, p, div, dd, dt, br").AppendHtml(" ")
	return collapseWhitespace(doc.Text()), nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func screenshotFileName(testID string, timestamp string) string {
	return strings.Trim(unsafeFileChars.ReplaceAllString(testID, "_"), "_") + "-" + timestamp + ".png"
}
