package http

import (
	"testing"

	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/domain"
)

func TestFormatFollowers(t *testing.T) {
	t.Parallel()

	cases := []struct {
		count int64
		want  string
	}{
		{374_000, "374K"},
		{1_200_000, "1.2M"},
		{1_000_000, "1M"},
		{220_000, "220K"},
		{528_000, "528K"},
		{1_500, "1.5K"},
		{999, "999"},
		{0, "0"},
	}
	for _, tc := range cases {
		if got := formatFollowers(tc.count); got != tc.want {
			t.Errorf("formatFollowers(%d) = %q, want %q", tc.count, got, tc.want)
		}
	}
}

func TestFormatEngagement(t *testing.T) {
	t.Parallel()

	if got := formatEngagement(5.9); got != "5.9%" {
		t.Errorf("formatEngagement(5.9) = %q", got)
	}
	if got := formatEngagement(6); got != "6%" {
		t.Errorf("formatEngagement(6) = %q", got)
	}
}

func TestFormatCollaborationRate(t *testing.T) {
	t.Parallel()

	if got := formatCollaborationRate(3769.4); got != "$3769" {
		t.Errorf("formatCollaborationRate(3769.4) = %q", got)
	}
	if got := formatCollaborationRate(2500); got != "$2500" {
		t.Errorf("formatCollaborationRate(2500) = %q", got)
	}
}

func TestFormatScore(t *testing.T) {
	t.Parallel()

	if got := formatScore(87.5); got != "87.50%" {
		t.Errorf("formatScore(87.5) = %q", got)
	}
}

func TestFormatInfluencerName(t *testing.T) {
	t.Parallel()

	creator := domain.Creator{Name: "Sarah Fitness", ChannelName: "sarahfit"}
	if got := formatInfluencerName(creator); got != "Sarah Fitness (@sarahfit)" {
		t.Errorf("formatInfluencerName = %q", got)
	}
	creator.ChannelName = ""
	if got := formatInfluencerName(creator); got != "Sarah Fitness" {
		t.Errorf("formatInfluencerName without channel = %q", got)
	}
}
