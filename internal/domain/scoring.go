package domain

import "strings"

// The four match sub-scores. Each is a pure function returning a percentage
// in [0,100], and every branch has a default so malformed or missing inputs
// degrade to a neutral score instead of failing the match. Thresholds are
// ordered (lower bound, score) tables rather than conditional chains so they
// can be tuned and tested as data. All bounds are inclusive.

type scoreTier struct {
	Bound float64
	Score float64
}

var engagementTiers = []scoreTier{
	{10, 100},
	{7, 90},
	{5, 80},
	{3, 70},
	{2, 60},
	{1, 50},
}

const engagementFloorScore = 40

var budgetRatioTiers = []scoreTier{
	{1.5, 100},
	{1.0, 90},
	{0.8, 80},
	{0.6, 60},
	{0.4, 40},
}

const budgetFloorScore = 20

const (
	nicheExactScore   = 100
	nicheDefaultScore = 75
	nicheUnknownScore = 40

	audienceDefaultScore = 50
	audienceBaseScore    = 43

	audienceEngagementBonus     = 10
	audienceEngagementThreshold = 5.0
	audienceFollowerBonus       = 5
	audienceFollowerThreshold   = 100_000

	budgetNeutralScore = 50
)

// nichePairs relates adjacent niches. Keys are stored with the two niches in
// lexical order so the table is symmetric by construction.
var nichePairs = map[[2]string]float64{
	pairKey("fitness", "health"):     90,
	pairKey("fitness", "sports"):     85,
	pairKey("fitness", "wellness"):   85,
	pairKey("fitness", "food"):       70,
	pairKey("technology", "gaming"):  85,
	pairKey("technology", "science"): 80,
	pairKey("beauty", "fashion"):     90,
	pairKey("beauty", "lifestyle"):   80,
	pairKey("fashion", "lifestyle"):  85,
	pairKey("food", "travel"):        80,
	pairKey("food", "lifestyle"):     75,
	pairKey("travel", "lifestyle"):   85,
	pairKey("travel", "photography"): 75,
}

func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

// NicheAffinity scores how close the campaign's product niche is to the
// creator's content niche. Case-insensitive exact match is perfect; a
// campaign with no niche cannot discriminate and gets a lenient default.
func NicheAffinity(campaignNiche, creatorNiche string) float64 {
	campaign := strings.ToLower(strings.TrimSpace(campaignNiche))
	creator := strings.ToLower(strings.TrimSpace(creatorNiche))
	if campaign == "" {
		return nicheDefaultScore
	}
	if campaign == creator {
		return nicheExactScore
	}
	if score, ok := nichePairs[pairKey(campaign, creator)]; ok {
		return score
	}
	return nicheUnknownScore
}

// AudienceAffinity is a coarse stand-in for a real audience-overlap model:
// a base score bumped by reach and engagement signals. Without a target
// audience on the campaign there is nothing to compare against.
func AudienceAffinity(targetAudience string, engagementRate float64, followers int64) float64 {
	if strings.TrimSpace(targetAudience) == "" {
		return audienceDefaultScore
	}
	score := float64(audienceBaseScore)
	if engagementRate >= audienceEngagementThreshold {
		score += audienceEngagementBonus
	}
	if followers >= audienceFollowerThreshold {
		score += audienceFollowerBonus
	}
	if score > 100 {
		score = 100
	}
	return score
}

// EngagementQuality maps the engagement rate onto quality tiers. Monotonic
// non-decreasing in the rate; boundary values land on the higher tier.
func EngagementQuality(engagementRate float64) float64 {
	return scoreFromTiers(engagementRate, engagementTiers, engagementFloorScore)
}

// BudgetFit compares the per-creator slice of the campaign budget against
// the creator's collaboration rate. assumedCreators is the configured number
// of creators a campaign is expected to split its budget across.
func BudgetFit(totalBudget, collaborationRate float64, assumedCreators int) float64 {
	if totalBudget <= 0 || collaborationRate <= 0 {
		return budgetNeutralScore
	}
	if assumedCreators <= 0 {
		assumedCreators = 1
	}
	ratio := (totalBudget / float64(assumedCreators)) / collaborationRate
	return scoreFromTiers(ratio, budgetRatioTiers, budgetFloorScore)
}

func scoreFromTiers(value float64, tiers []scoreTier, floor float64) float64 {
	for _, tier := range tiers {
		if value >= tier.Bound {
			return tier.Score
		}
	}
	return floor
}
