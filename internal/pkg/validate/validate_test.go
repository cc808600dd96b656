package validate

import "testing"

func TestRequired(t *testing.T) {
	if Required("  ") {
		t.Fatalf("whitespace must not satisfy Required")
	}
	if !Required("x") {
		t.Fatalf("non-empty value must satisfy Required")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Alice@Example.COM "); got != "alice@example.com" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}

func TestEmail(t *testing.T) {
	valid := []string{"a@x.com", "first.last@sub.example.org"}
	invalid := []string{"", "@x.com", "a@", "plainaddress", "a b@x.com"}

	for _, v := range valid {
		if !Email(v) {
			t.Fatalf("expected %q to be accepted", v)
		}
	}
	for _, v := range invalid {
		if Email(v) {
			t.Fatalf("expected %q to be rejected", v)
		}
	}
}
