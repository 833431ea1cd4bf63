package internal

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateRecordID(t *testing.T) {
	at := time.UnixMilli(1700000000123)

	id := GenerateRecordID("hello", at)
	if !strings.HasPrefix(id, "1700000000123_") {
		t.Errorf("GenerateRecordID() = %q, want prefix with epoch millis", id)
	}

	// md5("hello") = 5d41402abc4b2a76b9719d911017c592
	if !strings.HasSuffix(id, "_5d41402a") {
		t.Errorf("GenerateRecordID() = %q, want md5 suffix 5d41402a", id)
	}

	if other := GenerateRecordID("world", at); other == id {
		t.Error("Expected different IDs for different source texts")
	}
}

func TestAbbreviate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world", 5, "hello…"},
		{"multibyte", "你好世界欢迎", 4, "你好世界…"},
		{"zero", "hello", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Abbreviate(tt.in, tt.max); got != tt.want {
				t.Errorf("Abbreviate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}
