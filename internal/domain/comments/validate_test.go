package comments

import (
	"errors"
	"testing"
)

func TestValidate_EmptyComment(t *testing.T) {
	if _, err := Validate("   ", nil); !errors.Is(err, ErrEmptyComment) {
		t.Fatalf("expected ErrEmptyComment, got %v", err)
	}
}

func TestValidate_ImagesOnlyIsEnough(t *testing.T) {
	bad, err := Validate("", []Attachment{{URL: "https://cdn.example.com/a.png", MimeType: "image/png", SizeBytes: 100}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bad) != 0 {
		t.Fatalf("expected no attachment errors, got %v", bad)
	}
}

func TestValidate_TooManyImages(t *testing.T) {
	atts := make([]Attachment, MaxAttachments+1)
	for i := range atts {
		atts[i] = Attachment{URL: "https://cdn.example.com/a.png", MimeType: "image/png"}
	}
	if _, err := Validate("x", atts); !errors.Is(err, ErrTooManyImages) {
		t.Fatalf("expected ErrTooManyImages, got %v", err)
	}
}

func TestValidate_NamesEachBadFile(t *testing.T) {
	bad, err := Validate("ok", []Attachment{
		{URL: "https://cdn.example.com/a.png", MimeType: "image/png", SizeBytes: 100},
		{URL: "https://cdn.example.com/b.exe", MimeType: "application/octet-stream", SizeBytes: 100},
		{URL: "https://cdn.example.com/c.png", MimeType: "image/png", SizeBytes: MaxAttachmentBytes + 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bad) != 2 {
		t.Fatalf("expected 2 attachment errors, got %d", len(bad))
	}
	if bad[0].URL != "https://cdn.example.com/b.exe" {
		t.Fatalf("expected the exe to be named first, got %q", bad[0].URL)
	}
	if bad[1].URL != "https://cdn.example.com/c.png" {
		t.Fatalf("expected the oversized png to be named, got %q", bad[1].URL)
	}
}

func TestExtractLinks(t *testing.T) {
	body := "see https://vimeo.com/123 and (https://example.com/cut). again https://vimeo.com/123"
	got := ExtractLinks(body)
	if len(got) != 2 {
		t.Fatalf("expected 2 distinct links, got %v", got)
	}
	if got[0] != "https://vimeo.com/123" || got[1] != "https://example.com/cut" {
		t.Fatalf("unexpected links: %v", got)
	}
}

func TestIsAuthor(t *testing.T) {
	uid := uint(7)
	authored := Comment{AuthorUserID: &uid}
	if !authored.IsAuthor(7, "") {
		t.Fatalf("author should match own comment")
	}
	if authored.IsAuthor(8, "") {
		t.Fatalf("different user must not match")
	}

	anon := Comment{AnonKey: "k1", AnonName: "Guest"}
	if !anon.IsAuthor(0, "k1") {
		t.Fatalf("anon key should match")
	}
	if anon.IsAuthor(0, "k2") || anon.IsAuthor(0, "") {
		t.Fatalf("wrong or missing anon key must not match")
	}
}
