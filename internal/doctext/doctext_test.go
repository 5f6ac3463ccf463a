package doctext

import (
	"strings"
	"testing"
)

func TestFromHTML(t *testing.T) {
	html := `<html><body>
<h1>Poliza de Seguro Automotor</h1>
<table>
<tr><td>Vigencia desde:</td><td>01/03/2024</td></tr>
<tr><td>Patente:</td><td>AB123CD</td></tr>
</table>
<script>alert("x")</script>
</body></html>`

	text, err := FromHTML([]byte(html))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Vigencia desde:", "01/03/2024", "AB123CD"} {
		if !strings.Contains(text, want) {
			t.Fatalf("text missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "alert") {
		t.Fatalf("script content leaked into text:\n%s", text)
	}
}

func TestFromPlainNormalizesLineEndings(t *testing.T) {
	got := FromPlain([]byte("a\r\nb\rc\n"))
	if got != "a\nb\nc\n" {
		t.Fatalf("got %q", got)
	}
}

func TestFromEML(t *testing.T) {
	raw := strings.Join([]string{
		"From: Allianz <noreply@allianz.com.ar>",
		"To: broker@example.com",
		"Subject: Poliza emitida",
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Vigencia desde: 01/03/2024",
		"Patente: AB123CD",
		"",
	}, "\r\n")

	email, err := FromEML([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if email.Subject != "Poliza emitida" {
		t.Fatalf("subject = %q", email.Subject)
	}
	if !strings.Contains(email.Text, "Patente: AB123CD") {
		t.Fatalf("body text missing:\n%s", email.Text)
	}
	if len(email.AttachmentNames) != 0 {
		t.Fatalf("attachments = %v", email.AttachmentNames)
	}
}

func TestFromInputRejectsUnknownFormat(t *testing.T) {
	if _, err := FromInput([]byte("x"), "docx"); err == nil {
		t.Fatal("expected error")
	}
}
