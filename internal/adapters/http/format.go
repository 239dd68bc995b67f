package http

import (
	"fmt"
	"strconv"

	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/domain"
)

// formatFollowers renders counts the way creator dashboards show them:
// 374_000 -> "374K", 1_200_000 -> "1.2M", below a thousand verbatim.
func formatFollowers(count int64) string {
	switch {
	case count >= 1_000_000:
		value := float64(count) / 1_000_000
		return trimZero(strconv.FormatFloat(value, 'f', 1, 64)) + "M"
	case count >= 1_000:
		value := float64(count) / 1_000
		return trimZero(strconv.FormatFloat(value, 'f', 1, 64)) + "K"
	default:
		return strconv.FormatInt(count, 10)
	}
}

func trimZero(s string) string {
	if len(s) > 2 && s[len(s)-2:] == ".0" {
		return s[:len(s)-2]
	}
	return s
}

func formatEngagement(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64) + "%"
}

func formatCollaborationRate(rate float64) string {
	return fmt.Sprintf("$%.0f", rate)
}

func formatScore(score float64) string {
	return fmt.Sprintf("%.2f%%", score)
}

func formatInfluencerName(c domain.Creator) string {
	if c.ChannelName == "" {
		return c.Name
	}
	return fmt.Sprintf("%s (@%s)", c.Name, c.ChannelName)
}
