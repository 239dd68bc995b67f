package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/application"
)

type detailedSearchRequest struct {
	ProductName        string   `json:"product_name"`
	Brand              string   `json:"brand"`
	ProductDescription string   `json:"product_description"`
	TargetAudience     string   `json:"target_audience"`
	KeyUseCases        []string `json:"key_use_cases"`
	CampaignGoal       string   `json:"campaign_goal"`
	ProductNiche       string   `json:"product_niche"`
	TotalBudget        float64  `json:"total_budget"`
	MinFollowers       int64    `json:"min_followers"`
	MaxFollowers       int64    `json:"max_followers"`
	MinEngagement      float64  `json:"min_engagement"`
	Limit              int      `json:"limit"`
}

type campaignSearchRequest struct {
	CampaignID     string  `json:"campaign_id"`
	MatchThreshold float64 `json:"match_threshold"`
	MatchCount     int     `json:"match_count"`
}

type detailedScores struct {
	NicheMatch      string `json:"niche_match"`
	AudienceMatch   string `json:"audience_match"`
	EngagementScore string `json:"engagement_score"`
	BudgetFit       string `json:"budget_fit"`
}

type matchEntry struct {
	ID                string         `json:"id"`
	InfluencerName    string         `json:"influencer_name"`
	MatchScore        string         `json:"match_score"`
	Niche             string         `json:"niche"`
	Platform          string         `json:"platform"`
	Followers         string         `json:"followers"`
	Engagement        string         `json:"engagement"`
	CollaborationRate string         `json:"collaboration_rate"`
	DetailedScores    detailedScores `json:"detailed_scores"`
}

type matchListResponse struct {
	Matches          []matchEntry   `json:"matches"`
	TotalMatches     int            `json:"total_matches"`
	SearchParameters map[string]any `json:"search_parameters,omitempty"`
}

type batchEmbeddingRequest struct {
	CreatorIDs []string `json:"creator_ids"`
}

type batchEmbeddingItemResponse struct {
	CreatorID string `json:"creator_id"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

type batchEmbeddingResponse struct {
	Requested int                          `json:"requested"`
	Succeeded int                          `json:"succeeded"`
	Failed    int                          `json:"failed"`
	Items     []batchEmbeddingItemResponse `json:"items"`
}

type storedMatchEntry struct {
	MatchID         string  `json:"match_id"`
	CreatorID       string  `json:"creator_id"`
	Score           float64 `json:"score"`
	NicheScore      float64 `json:"niche_score"`
	AudienceScore   float64 `json:"audience_score"`
	EngagementScore float64 `json:"engagement_score"`
	BudgetScore     float64 `json:"budget_score"`
	Similarity      float64 `json:"similarity"`
	CreatedAt       string  `json:"created_at"`
}

type storedMatchesResponse struct {
	CampaignID string             `json:"campaign_id"`
	Matches    []storedMatchEntry `json:"matches"`
	Total      int64              `json:"total"`
}

func toMatchEntry(result application.MatchResult) matchEntry {
	return matchEntry{
		ID:                result.Creator.CreatorID.String(),
		InfluencerName:    formatInfluencerName(result.Creator),
		MatchScore:        formatScore(result.Score),
		Niche:             result.Creator.Niche,
		Platform:          string(result.Creator.Platform),
		Followers:         formatFollowers(result.Creator.FollowersCount),
		Engagement:        formatEngagement(result.Creator.EngagementRate),
		CollaborationRate: formatCollaborationRate(result.Creator.CollaborationRate),
		DetailedScores: detailedScores{
			NicheMatch:      formatScore(result.NicheScore),
			AudienceMatch:   formatScore(result.AudienceScore),
			EngagementScore: formatScore(result.EngagementScore),
			BudgetFit:       formatScore(result.BudgetScore),
		},
	}
}

func (h *Handler) detailedSearch(w http.ResponseWriter, r *http.Request) {
	var req detailedSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	results, err := h.service.MatchDetailed(r.Context(), application.DetailedSearchInput{
		ProductName:        req.ProductName,
		Brand:              req.Brand,
		ProductDescription: req.ProductDescription,
		TargetAudience:     req.TargetAudience,
		KeyUseCases:        req.KeyUseCases,
		CampaignGoal:       req.CampaignGoal,
		ProductNiche:       req.ProductNiche,
		TotalBudget:        req.TotalBudget,
		MinFollowers:       req.MinFollowers,
		MaxFollowers:       req.MaxFollowers,
		MinEngagement:      req.MinEngagement,
		Limit:              req.Limit,
	})
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	entries := make([]matchEntry, 0, len(results))
	for _, result := range results {
		entries = append(entries, toMatchEntry(result))
	}
	writeSuccess(w, http.StatusOK, matchListResponse{
		Matches:      entries,
		TotalMatches: len(entries),
		SearchParameters: map[string]any{
			"product_name":  req.ProductName,
			"product_niche": req.ProductNiche,
			"total_budget":  req.TotalBudget,
		},
	})
}

func (h *Handler) campaignSearch(w http.ResponseWriter, r *http.Request) {
	var req campaignSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	campaignID, err := uuid.Parse(req.CampaignID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "campaign_id must be a uuid")
		return
	}
	results, err := h.service.MatchCampaign(r.Context(), application.CampaignSearchInput{
		CampaignID:     campaignID,
		MatchThreshold: req.MatchThreshold,
		MatchCount:     req.MatchCount,
	})
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	entries := make([]matchEntry, 0, len(results))
	for _, result := range results {
		entries = append(entries, toMatchEntry(result))
	}
	writeSuccess(w, http.StatusOK, matchListResponse{
		Matches:      entries,
		TotalMatches: len(entries),
		SearchParameters: map[string]any{
			"campaign_id":     req.CampaignID,
			"match_threshold": req.MatchThreshold,
		},
	})
}

func (h *Handler) listStoredMatches(w http.ResponseWriter, r *http.Request) {
	campaignID, err := uuid.Parse(chi.URLParam(r, "campaign_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "campaign_id must be a uuid")
		return
	}
	minScore, _ := strconv.ParseFloat(r.URL.Query().Get("min_score"), 64)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	out, err := h.service.StoredMatches(r.Context(), application.StoredMatchesInput{
		CampaignID: campaignID,
		MinScore:   minScore,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	entries := make([]storedMatchEntry, 0, len(out.Records))
	for _, rec := range out.Records {
		entries = append(entries, storedMatchEntry{
			MatchID:         rec.MatchID.String(),
			CreatorID:       rec.CreatorID.String(),
			Score:           rec.Score,
			NicheScore:      rec.NicheScore,
			AudienceScore:   rec.AudienceScore,
			EngagementScore: rec.EngagementScore,
			BudgetScore:     rec.BudgetScore,
			Similarity:      rec.Similarity,
			CreatedAt:       rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writeSuccess(w, http.StatusOK, storedMatchesResponse{
		CampaignID: campaignID.String(),
		Matches:    entries,
		Total:      out.Total,
	})
}

func (h *Handler) generateCreatorEmbedding(w http.ResponseWriter, r *http.Request) {
	creatorID, err := uuid.Parse(chi.URLParam(r, "creator_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "creator_id must be a uuid")
		return
	}
	if err := h.service.GenerateCreatorEmbedding(r.Context(), creatorID); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "embedding generated")
}

func (h *Handler) generateBatchEmbeddings(w http.ResponseWriter, r *http.Request) {
	var req batchEmbeddingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	creatorIDs := make([]uuid.UUID, 0, len(req.CreatorIDs))
	for _, raw := range req.CreatorIDs {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "creator_ids must be uuids")
			return
		}
		creatorIDs = append(creatorIDs, parsed)
	}
	report, err := h.service.GenerateBatchEmbeddings(r.Context(), creatorIDs)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	items := make([]batchEmbeddingItemResponse, 0, len(report.Items))
	for _, item := range report.Items {
		entry := batchEmbeddingItemResponse{CreatorID: item.CreatorID.String(), Status: "ok"}
		if !item.OK() {
			entry.Status = "failed"
			entry.Error = item.Error
			entry.Reason = string(item.Reason)
		}
		items = append(items, entry)
	}
	writeSuccess(w, http.StatusOK, batchEmbeddingResponse{
		Requested: report.Requested,
		Succeeded: report.Succeeded,
		Failed:    report.Failed,
		Items:     items,
	})
}
