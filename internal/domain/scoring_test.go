package domain

import "testing"

func TestNicheAffinityExactMatch(t *testing.T) {
	t.Parallel()

	if got := NicheAffinity("fitness", "fitness"); got != 100 {
		t.Fatalf("NicheAffinity(fitness, fitness) = %v, want 100", got)
	}
	if got := NicheAffinity("Fitness", " FITNESS "); got != 100 {
		t.Fatalf("case and whitespace should not matter, got %v", got)
	}
}

func TestNicheAffinitySymmetry(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{"fitness", "health"},
		{"beauty", "fashion"},
		{"technology", "gaming"},
		{"food", "travel"},
		{"fitness", "technology"},
	}
	for _, p := range pairs {
		ab := NicheAffinity(p[0], p[1])
		ba := NicheAffinity(p[1], p[0])
		if ab != ba {
			t.Errorf("NicheAffinity(%q, %q) = %v but reversed = %v", p[0], p[1], ab, ba)
		}
	}
}

func TestNicheAffinityDefaults(t *testing.T) {
	t.Parallel()

	if got := NicheAffinity("", "fitness"); got != 75 {
		t.Errorf("empty campaign niche = %v, want 75", got)
	}
	if got := NicheAffinity("fitness", "quilting"); got != 40 {
		t.Errorf("unrelated pair = %v, want 40", got)
	}
	if got := NicheAffinity("fitness", "health"); got != 90 {
		t.Errorf("adjacent pair = %v, want 90", got)
	}
}

func TestEngagementQualityBoundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		rate float64
		want float64
	}{
		{12, 100},
		{10, 100},
		{9.9, 90},
		{7, 90},
		{6, 80},
		{5, 80},
		{4.9, 70},
		{3, 70},
		{2, 60},
		{1, 50},
		{0.5, 40},
		{0, 40},
	}
	for _, tc := range cases {
		if got := EngagementQuality(tc.rate); got != tc.want {
			t.Errorf("EngagementQuality(%v) = %v, want %v", tc.rate, got, tc.want)
		}
	}
}

func TestEngagementQualityMonotonic(t *testing.T) {
	t.Parallel()

	prev := EngagementQuality(0)
	for rate := 0.1; rate <= 12; rate += 0.1 {
		got := EngagementQuality(rate)
		if got < prev {
			t.Fatalf("EngagementQuality decreased at rate %v: %v < %v", rate, got, prev)
		}
		prev = got
	}
}

func TestBudgetFitTiers(t *testing.T) {
	t.Parallel()

	// 25000 across 10 assumed creators is 2500 per creator.
	cases := []struct {
		rate float64
		want float64
	}{
		{1500, 100}, // ratio 1.67
		{2500, 90},  // ratio 1.0 exactly
		{3000, 80},  // ratio 0.83
		{4000, 60},  // ratio 0.625
		{6000, 40},  // ratio 0.417
		{10000, 20}, // ratio 0.25
	}
	for _, tc := range cases {
		if got := BudgetFit(25_000, tc.rate, 10); got != tc.want {
			t.Errorf("BudgetFit(25000, %v, 10) = %v, want %v", tc.rate, got, tc.want)
		}
	}
}

func TestBudgetFitMonotonic(t *testing.T) {
	t.Parallel()

	// Fit never improves as the creator gets more expensive.
	prev := BudgetFit(25_000, 100, 10)
	for rate := 200.0; rate <= 12_000; rate += 100 {
		got := BudgetFit(25_000, rate, 10)
		if got > prev {
			t.Fatalf("BudgetFit improved at rate %v: %v > %v", rate, got, prev)
		}
		prev = got
	}

	// And never worsens as the budget grows.
	prev = BudgetFit(1_000, 2_500, 10)
	for budget := 2_000.0; budget <= 100_000; budget += 1_000 {
		got := BudgetFit(budget, 2_500, 10)
		if got < prev {
			t.Fatalf("BudgetFit worsened at budget %v: %v < %v", budget, got, prev)
		}
		prev = got
	}
}

func TestBudgetFitNeutralDefaults(t *testing.T) {
	t.Parallel()

	if got := BudgetFit(0, 2500, 10); got != 50 {
		t.Errorf("zero budget = %v, want 50", got)
	}
	if got := BudgetFit(25_000, 0, 10); got != 50 {
		t.Errorf("zero collaboration rate = %v, want 50", got)
	}
	if got := BudgetFit(25_000, 2_500, 0); got != 100 {
		t.Errorf("zero assumed creators falls back to 1, got %v", got)
	}
}

func TestAudienceAffinity(t *testing.T) {
	t.Parallel()

	if got := AudienceAffinity("", 8, 500_000); got != 50 {
		t.Errorf("no target audience = %v, want 50", got)
	}
	if got := AudienceAffinity("young adults into fitness", 2, 10_000); got != 43 {
		t.Errorf("base score = %v, want 43", got)
	}
	if got := AudienceAffinity("young adults into fitness", 5, 10_000); got != 53 {
		t.Errorf("engagement bonus = %v, want 53", got)
	}
	if got := AudienceAffinity("young adults into fitness", 2, 100_000); got != 48 {
		t.Errorf("follower bonus = %v, want 48", got)
	}
	if got := AudienceAffinity("young adults into fitness", 6, 374_000); got != 58 {
		t.Errorf("both bonuses = %v, want 58", got)
	}
}
