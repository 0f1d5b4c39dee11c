package comments

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxAttachments     = 4
	MaxAttachmentBytes = 25 << 20
)

var allowedImageMimes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var (
	ErrEmptyComment  = errors.New("comment needs text or at least one image")
	ErrTooManyImages = fmt.Errorf("a comment can carry at most %d images", MaxAttachments)
)

// AttachmentError names the file that failed so the caller can report it
// instead of silently discarding the submission.
type AttachmentError struct {
	URL    string
	Reason string
}

func (e *AttachmentError) Error() string {
	return fmt.Sprintf("attachment %s rejected: %s", e.URL, e.Reason)
}

// Validate checks a comment submission. Attachment failures are collected
// per file; the first structural failure (empty, too many) is returned as
// the error and attachment errors ride along so every bad file is named.
func Validate(body string, attachments []Attachment) ([]*AttachmentError, error) {
	if strings.TrimSpace(body) == "" && len(attachments) == 0 {
		return nil, ErrEmptyComment
	}
	if len(attachments) > MaxAttachments {
		return nil, ErrTooManyImages
	}

	var bad []*AttachmentError
	for _, a := range attachments {
		switch {
		case strings.TrimSpace(a.URL) == "":
			bad = append(bad, &AttachmentError{URL: a.URL, Reason: "missing url"})
		case !allowedImageMimes[strings.ToLower(a.MimeType)]:
			bad = append(bad, &AttachmentError{URL: a.URL, Reason: fmt.Sprintf("unsupported type %q", a.MimeType)})
		case a.SizeBytes > MaxAttachmentBytes:
			bad = append(bad, &AttachmentError{URL: a.URL, Reason: "file exceeds 25 MB"})
		}
	}
	return bad, nil
}

var linkPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

// ExtractLinks pulls URLs out of a comment body so the UI can render them
// as embeds without re-parsing free text.
func ExtractLinks(body string) []string {
	matches := linkPattern.FindAllString(body, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimRight(m, ".,)")
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}
