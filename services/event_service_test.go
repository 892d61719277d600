package services

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestMakeSlug(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	suffix := strconv.FormatInt(now.UnixMilli(), 36)

	tests := []struct {
		title string
		want  string
	}{
		{"Tech Fest 2026", "tech-fest-2026-" + suffix},
		{"  Hack@Night!  ", "hack-night-" + suffix},
		{"UPPER case Title", "upper-case-title-" + suffix},
		{"---", suffix},
		{"", suffix},
		{"a", "a-" + suffix},
	}

	for _, tt := range tests {
		if got := MakeSlug(tt.title, now); got != tt.want {
			t.Errorf("MakeSlug(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestMakeSlugNoLeadingOrTrailingDash(t *testing.T) {
	slug := MakeSlug("!!Annual Day!!", time.Now())
	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		t.Errorf("slug %q has a dangling dash", slug)
	}
}

func TestMakeSlugUniqueAcrossInstants(t *testing.T) {
	a := MakeSlug("Same Title", time.UnixMilli(1700000000000))
	b := MakeSlug("Same Title", time.UnixMilli(1700000000001))
	if a == b {
		t.Error("slugs for different instants should differ")
	}
}
