// Package doctext flattens policy documents of any supported format into
// plain text for the extraction pipeline.
package doctext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhillyerd/enmime"
	pdf "github.com/ledongthuc/pdf"

	"github.com/nachoviau/automatizacion-broker/internal"
)

// PolicyPages are the pages of an Allianz auto policy PDF that carry the
// fields we read: the front sheet plus the payment-plan annex. Reading
// only these keeps multi-megabyte policies fast.
var PolicyPages = []int{1, 2, 32, 33, 34}

// FromInput dispatches on the declared document format.
func FromInput(content []byte, format internal.DocumentFormat) (string, error) {
	switch format {
	case internal.FormatPDF:
		return FromPDF(content, PolicyPages)
	case internal.FormatHTML:
		return FromHTML(content)
	case internal.FormatEML:
		email, err := FromEML(content)
		if err != nil {
			return "", err
		}
		return email.Text, nil
	case internal.FormatPlain:
		return FromPlain(content), nil
	default:
		return "", fmt.Errorf("unsupported document format %q", format)
	}
}

// FromPDF extracts plain text from the given pages (1-based). A nil or
// empty page list reads the whole document. Pages past the end are skipped
// so short policies still parse.
func FromPDF(content []byte, pages []int) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	if len(pages) == 0 {
		pages = make([]int, r.NumPage())
		for i := range pages {
			pages[i] = i + 1
		}
	}

	var sb strings.Builder
	for _, n := range pages {
		if n < 1 || n > r.NumPage() {
			continue
		}
		p := r.Page(n)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// FromHTML strips markup and returns the visible text, one block element
// per line.
func FromHTML(content []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", err
	}
	doc.Find("script,style").Remove()

	lines := make([]string, 0, 64)
	doc.Find("p,div,td,th,li,h1,h2,h3,h4,span,body").Each(func(_ int, sel *goquery.Selection) {
		if sel.Children().Length() > 0 {
			return
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			lines = append(lines, text)
		}
	})
	if len(lines) == 0 {
		return strings.TrimSpace(doc.Text()), nil
	}
	return strings.Join(lines, "\n"), nil
}

// Email is a parsed mail message with all textual content flattened:
// body text plus whatever PDF attachments yield.
type Email struct {
	Subject         string
	From            string
	Text            string
	AttachmentNames []string
}

// FromEML parses a raw RFC 822 message. PDF attachments are appended to
// the body text; an attachment that fails to parse is skipped rather than
// failing the message.
func FromEML(raw []byte) (Email, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return Email{}, err
	}

	var sb strings.Builder
	if env.Text != "" {
		sb.WriteString(env.Text)
		sb.WriteString("\n")
	} else if env.HTML != "" {
		if text, err := FromHTML([]byte(env.HTML)); err == nil {
			sb.WriteString(text)
			sb.WriteString("\n")
		}
	}

	names := make([]string, 0, len(env.Attachments))
	for _, att := range env.Attachments {
		name := strings.TrimSpace(att.FileName)
		if name == "" {
			name = "attachment"
		}
		names = append(names, name)
		if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
			continue
		}
		if text, err := FromPDF(att.Content, PolicyPages); err == nil {
			sb.WriteString(text)
			sb.WriteString("\n")
		}
	}

	return Email{
		Subject:         env.GetHeader("Subject"),
		From:            env.GetHeader("From"),
		Text:            sb.String(),
		AttachmentNames: names,
	}, nil
}

// FromPlain normalizes line endings.
func FromPlain(content []byte) string {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
