package services

import (
	"testing"
)

func TestScoreEventInterestAndDepartment(t *testing.T) {
	score := ScoreEvent(
		[]string{"machine learning", "music"},
		"Computer Science",
		[]string{"ml", "machine learning", "workshop"},
		"Computer Science",
	)
	// one interest matches (once, despite two candidate tags) plus the
	// department bonus
	if score != 1.5 {
		t.Errorf("got score %v, want 1.5", score)
	}
}

func TestScoreEventNoMatches(t *testing.T) {
	score := ScoreEvent(
		[]string{"photography"},
		"Mechanical",
		[]string{"coding", "hackathon"},
		"Computer Science",
	)
	if score != 0 {
		t.Errorf("got score %v, want 0", score)
	}
}

func TestScoreEventCaseInsensitive(t *testing.T) {
	score := ScoreEvent(
		[]string{"MUSIC"},
		"",
		[]string{"Live Music Night"},
		"",
	)
	if score != 1 {
		t.Errorf("got score %v, want 1", score)
	}
}

func TestScoreEventMatchesInterestInsideTag(t *testing.T) {
	// interest contained in tag scores
	if s := ScoreEvent([]string{"ai"}, "", []string{"ai summit"}, ""); s != 1 {
		t.Errorf("interest-in-tag: got %v, want 1", s)
	}
	// the reverse direction does not: a tag contained in an interest is
	// not a match
	if s := ScoreEvent([]string{"web development"}, "", []string{"web"}, ""); s != 0 {
		t.Errorf("tag-in-interest: got %v, want 0", s)
	}
}

func TestScoreEventDepartmentOnlyBonus(t *testing.T) {
	score := ScoreEvent(nil, "Physics", []string{"rockets"}, "physics")
	if score != 0.5 {
		t.Errorf("got score %v, want 0.5", score)
	}
}

func TestScoreEventIgnoresBlankValues(t *testing.T) {
	score := ScoreEvent(
		[]string{"", "  "},
		"",
		[]string{"", "anything"},
		"",
	)
	if score != 0 {
		t.Errorf("blank interests scored %v, want 0", score)
	}

	// empty departments never earn the bonus
	if s := ScoreEvent(nil, "", nil, ""); s != 0 {
		t.Errorf("empty departments scored %v, want 0", s)
	}
}

func TestScoreEventEachInterestCountsOnce(t *testing.T) {
	score := ScoreEvent(
		[]string{"music", "dance"},
		"",
		[]string{"music night", "music competition", "dance off"},
		"",
	)
	if score != 2 {
		t.Errorf("got score %v, want 2", score)
	}
}
