package object

import (
	"strings"
	"testing"
)

func TestUserNamespaceIsStableHex(t *testing.T) {
	id := "guest:abc"
	got := UserNamespace(id)
	if got != UserNamespace(id) {
		t.Fatalf("expected stable namespace")
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("namespace contains non-hex character: %c", ch)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "cow.jpg", want: "cow.jpg"},
		{in: " farm/cow.png ", want: "farm_cow.png"},
		{in: `a\b.jpg`, want: "a_b.jpg"},
		{in: "../etc/passwd", wantErr: true},
		{in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		got, err := SanitizeFileName(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("SanitizeFileName(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("SanitizeFileName(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestObjectNameHasRandomPrefix(t *testing.T) {
	a, err := ObjectName("cow.jpg")
	if err != nil {
		t.Fatalf("ObjectName: %v", err)
	}
	b, _ := ObjectName("cow.jpg")
	if a == b {
		t.Fatalf("expected distinct names")
	}
	if !strings.HasSuffix(a, "_cow.jpg") {
		t.Fatalf("unexpected name %q", a)
	}
}
