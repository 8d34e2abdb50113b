package preprocess

import (
	"strings"
	"testing"
)

func TestCleanBasic(t *testing.T) {
	got := CleanBasic("  Refunds\t\ttake   5–7 days\x07\n\n\n\nContact us  ")
	want := "Refunds take 5-7 days\n\nContact us"
	if got != want {
		t.Fatalf("CleanBasic = %q, want %q", got, want)
	}
}

func TestHTMLToText(t *testing.T) {
	html := `<html><head><title>Billing FAQ</title></head><body>
<h1>Payments</h1>
<p>We accept credit cards.</p>
<ul><li>PayPal</li><li>Bank transfer</li></ul>
<table><tr><th>Plan</th><th>Day</th></tr><tr><td>Monthly</td><td>1</td></tr></table>
</body></html>`

	text, err := HTMLToText(html)
	if err != nil {
		t.Fatalf("HTMLToText: %v", err)
	}
	for _, fragment := range []string{"# Payments", "We accept credit cards.", "- PayPal", "| Plan | Day |", "| Monthly | 1 |"} {
		if !strings.Contains(text, fragment) {
			t.Errorf("missing %q in %q", fragment, text)
		}
	}
	if Title(html) != "Billing FAQ" {
		t.Errorf("unexpected title %q", Title(html))
	}
	if Title("<h1>Only heading</h1>") != "Only heading" {
		t.Error("expected h1 fallback for title")
	}
}

func TestPreprocessRemovesNoiseAndDuplicates(t *testing.T) {
	raw := "Reset your password.\n\nReset your password.\n\nCookie settings\n\nAll rights reserved 2024"
	if got := Preprocess(raw); got != "Reset your password." {
		t.Fatalf("Preprocess = %q", got)
	}
}
