package locale

import (
	"testing"

	"golang.org/x/text/language"
)

func TestParse(t *testing.T) {
	for name, expected := range map[string]language.Tag{
		"ko":      language.Korean,
		"ko-KR":   language.Korean,
		"en":      language.English,
		"en-US":   language.English,
		"ru":      language.English,
		"invalid!": language.English,
	} {
		if tag := Parse(name); tag != expected {
			t.Fatalf("Expected %v for %q, got %v", expected, name, tag)
		}
	}
}

func TestParseAcceptLanguage(t *testing.T) {
	if tag := ParseAcceptLanguage("ko-KR,ko;q=0.9,en;q=0.8"); tag != language.Korean {
		t.Fatalf("Expected %v, got %v", language.Korean, tag)
	}
	if tag := ParseAcceptLanguage(""); tag != language.English {
		t.Fatalf("Expected %v, got %v", language.English, tag)
	}
}

func TestNewPrinter(t *testing.T) {
	p := NewPrinter(language.Korean)
	if s := p.Sprintf("No posts yet."); s != "등록된 게시글이 없습니다." {
		t.Fatalf("Unexpected message: %q", s)
	}
	p = NewPrinter(language.English)
	if s := p.Sprintf("No posts yet."); s != "No posts yet." {
		t.Fatalf("Unexpected message: %q", s)
	}
	p = NewPrinter(language.Korean)
	if s := p.Sprintf("Unknown message."); s != "Unknown message." {
		t.Fatalf("Unexpected message: %q", s)
	}
}
