package templates

import (
	"strings"
	"testing"
)

func TestRender_Activation(t *testing.T) {
	t.Parallel()

	data := map[string]any{
		"Name":        "Jane",
		"ActivateURL": "https://rims.example.org/activate?email=jane%40example.org&token=abc",
		"ExpiresAt":   "Mon, 02 Jun 2025 12:00:00 UTC",
		"IsResend":    true,
	}
	subject, text, html, err := Render(Activation, data)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if subject != "Your new activation link" {
		t.Fatalf("subject = %q", subject)
	}
	if !strings.Contains(text, "https://rims.example.org/activate") {
		t.Fatal("text body missing activation link")
	}
	if !strings.Contains(html, "Activate account") {
		t.Fatal("html body missing activation button")
	}

	data["IsResend"] = false
	subject, _, _, err = Render(Activation, data)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if subject != "Activate your account" {
		t.Fatalf("first-send subject = %q", subject)
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	t.Parallel()

	if _, _, _, err := Render("no-such-template", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}
