package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/domain"
	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/ports"
	"golang.org/x/sync/errgroup"
)

const (
	embeddingCacheKeyPrefix = "campaign-embedding:"

	EventTypeMatchCompleted = "match.completed"
)

// MatchDetailed ranks creators against inline campaign fields. Nothing is
// persisted; the caller owns that decision.
func (s *Service) MatchDetailed(ctx context.Context, input DetailedSearchInput) ([]MatchResult, error) {
	if err := domain.ValidateProductName(input.ProductName); err != nil {
		return nil, err
	}
	if err := domain.ValidateBrand(input.Brand); err != nil {
		return nil, err
	}
	if err := domain.ValidateBudget(input.TotalBudget); err != nil {
		return nil, err
	}
	campaign := domain.Campaign{
		ProductName:        strings.TrimSpace(input.ProductName),
		BrandName:          strings.TrimSpace(input.Brand),
		ProductDescription: strings.TrimSpace(input.ProductDescription),
		TargetAudience:     strings.TrimSpace(input.TargetAudience),
		KeyUseCases:        input.KeyUseCases,
		CampaignGoal:       strings.TrimSpace(input.CampaignGoal),
		ProductNiche:       strings.TrimSpace(input.ProductNiche),
		TotalBudget:        input.TotalBudget,
	}
	filter := ports.CandidateFilter{
		MinFollowers:  input.MinFollowers,
		MaxFollowers:  input.MaxFollowers,
		MinEngagement: input.MinEngagement,
	}
	return s.match(ctx, campaign, filter, domain.NormalizeLimit(input.Limit), 0)
}

// MatchCampaign resolves the campaign, ranks creators against it, persists
// the ranked list as one batch and queues a match.completed event.
func (s *Service) MatchCampaign(ctx context.Context, input CampaignSearchInput) ([]MatchResult, error) {
	if input.CampaignID == uuid.Nil {
		return nil, fmt.Errorf("%w: campaign_id is required", domain.ErrInvalidInput)
	}
	if err := domain.ValidateThreshold(input.MatchThreshold); err != nil {
		return nil, err
	}
	campaign, err := s.campaigns.GetByID(ctx, input.CampaignID)
	if err != nil {
		return nil, err
	}
	results, err := s.match(ctx, campaign, ports.CandidateFilter{}, domain.NormalizeLimit(input.MatchCount), input.MatchThreshold)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		if err := s.PersistMatches(ctx, campaign.CampaignID, results); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// match is the orchestration core: embed (cached), over-fetch filtered
// candidates, score, rank deterministically, truncate. It performs no writes.
func (s *Service) match(ctx context.Context, campaign domain.Campaign, filter ports.CandidateFilter, k int, threshold float64) ([]MatchResult, error) {
	text := CampaignEmbeddingText(campaign)
	vector, err := s.campaignVector(ctx, text)
	if err != nil {
		return nil, err
	}

	fetch := k * s.cfg.OverFetchFactor
	if fetch < s.cfg.MinCandidateFetch {
		fetch = s.cfg.MinCandidateFetch
	}
	candidates, err := s.index.Query(vector, fetch, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}

	results := make([]MatchResult, 0, len(candidates))
	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.cfg.HydrateConcurrency)
	for _, candidate := range candidates {
		if candidate.Similarity < threshold {
			continue
		}
		candidate := candidate
		group.Go(func() error {
			creator, err := s.creators.GetByID(groupCtx, candidate.CreatorID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					// Deleted between index query and hydration.
					return nil
				}
				return err
			}
			result := s.scoreCandidate(campaign, creator, candidate.Similarity)
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Creator.CreatorID.String() < results[j].Creator.CreatorID.String()
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (s *Service) scoreCandidate(campaign domain.Campaign, creator domain.Creator, similarity float64) MatchResult {
	niche := domain.NicheAffinity(campaign.ProductNiche, creator.Niche)
	audience := domain.AudienceAffinity(campaign.TargetAudience, creator.EngagementRate, creator.FollowersCount)
	engagement := domain.EngagementQuality(creator.EngagementRate)
	budget := domain.BudgetFit(campaign.TotalBudget, creator.CollaborationRate, s.cfg.AssumedCreatorCount)
	return MatchResult{
		Creator:         creator,
		Similarity:      similarity,
		Score:           s.composite(similarity, niche, audience, engagement, budget),
		NicheScore:      niche,
		AudienceScore:   audience,
		EngagementScore: engagement,
		BudgetScore:     budget,
	}
}

// composite blends the rescaled similarity with the four sub-scores under
// the configured weights, normalized by the weight sum. Bounded to [0,100].
func (s *Service) composite(similarity, niche, audience, engagement, budget float64) float64 {
	w := s.cfg.Weights
	score := (w.Similarity*similarity*100 +
		w.Niche*niche +
		w.Audience*audience +
		w.Engagement*engagement +
		w.Budget*budget) / w.sum()
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// campaignVector returns the embedding for the canonical campaign text,
// consulting the content-hash cache first. Cache failures degrade to a
// direct embed; the cache is an optimization, not a dependency.
func (s *Service) campaignVector(ctx context.Context, text string) ([]float32, error) {
	key := embeddingCacheKeyPrefix + contentHash(text)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var vector []float32
			if err := json.Unmarshal([]byte(raw), &vector); err == nil && len(vector) == s.embedder.Dimension() {
				return vector, nil
			}
		}
	}
	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if encoded, err := json.Marshal(vector); err == nil {
			_ = s.cache.Set(ctx, key, string(encoded), s.cfg.EmbeddingCacheTTL)
		}
	}
	return vector, nil
}

func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// PersistMatches applies the ranked list as a single batch upsert and queues
// the match.completed event on the outbox.
func (s *Service) PersistMatches(ctx context.Context, campaignID uuid.UUID, results []MatchResult) error {
	now := s.nowFn()
	records := make([]domain.MatchRecord, 0, len(results))
	for _, result := range results {
		records = append(records, domain.MatchRecord{
			MatchID:         uuid.New(),
			CampaignID:      campaignID,
			CreatorID:       result.Creator.CreatorID,
			Score:           result.Score,
			NicheScore:      result.NicheScore,
			AudienceScore:   result.AudienceScore,
			EngagementScore: result.EngagementScore,
			BudgetScore:     result.BudgetScore,
			Similarity:      result.Similarity,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	if err := s.matches.UpsertBatch(ctx, records); err != nil {
		return err
	}
	if s.outbox == nil {
		return nil
	}
	payload, err := json.Marshal(map[string]any{
		"campaign_id": campaignID.String(),
		"match_count": len(records),
		"computed_at": now.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return s.outbox.Enqueue(ctx, ports.OutboxEvent{
		EventID:       uuid.New(),
		EventType:     EventTypeMatchCompleted,
		PartitionKey:  campaignID.String(),
		Payload:       payload,
		OccurredAt:    now,
		SchemaVersion: "1.0",
	})
}

// StoredMatches reads persisted match records, composite score descending
// then creation time, with the unpaginated total.
func (s *Service) StoredMatches(ctx context.Context, input StoredMatchesInput) (StoredMatchesOutput, error) {
	if input.CampaignID == uuid.Nil {
		return StoredMatchesOutput{}, fmt.Errorf("%w: campaign_id is required", domain.ErrInvalidInput)
	}
	if input.MinScore < 0 || input.MinScore > 100 {
		return StoredMatchesOutput{}, fmt.Errorf("%w: min_score must be between 0 and 100", domain.ErrInvalidInput)
	}
	if input.Offset < 0 {
		return StoredMatchesOutput{}, fmt.Errorf("%w: offset must be >= 0", domain.ErrInvalidInput)
	}
	if _, err := s.campaigns.GetByID(ctx, input.CampaignID); err != nil {
		return StoredMatchesOutput{}, err
	}
	page, err := s.matches.ListByCampaign(ctx, input.CampaignID, input.MinScore, domain.NormalizeLimit(input.Limit), input.Offset)
	if err != nil {
		return StoredMatchesOutput{}, err
	}
	return StoredMatchesOutput{Records: page.Records, Total: page.Total}, nil
}

// CampaignEmbeddingText builds the canonical embedding input for a campaign:
// a fixed field order so identical structured data always embeds identically.
func CampaignEmbeddingText(c domain.Campaign) string {
	var b strings.Builder
	writeField(&b, "Product", c.ProductName)
	writeField(&b, "Brand", c.BrandName)
	writeField(&b, "Description", c.ProductDescription)
	writeField(&b, "Target Audience", c.TargetAudience)
	writeField(&b, "Use Cases", strings.Join(c.KeyUseCases, ", "))
	writeField(&b, "Campaign Goal", c.CampaignGoal)
	writeField(&b, "Product Niche", c.ProductNiche)
	return b.String()
}

// CreatorEmbeddingText is the creator-side canonical serialization.
func CreatorEmbeddingText(c domain.Creator) string {
	var b strings.Builder
	writeField(&b, "Name", c.Name)
	writeField(&b, "Platform", string(c.Platform))
	writeField(&b, "Niche", c.Niche)
	writeField(&b, "About", c.About)
	writeField(&b, "Channel", c.ChannelName)
	writeField(&b, "Followers", strconv.FormatInt(c.FollowersCount, 10))
	writeField(&b, "Engagement Rate", strconv.FormatFloat(c.EngagementRate, 'f', -1, 64)+"%")
	writeField(&b, "Country", c.Country)
	writeField(&b, "Language", c.Language)
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(strings.TrimSpace(value))
	b.WriteString("\n")
}
