package response_models

type NeighborhoodMatchResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	City         string  `json:"city"`
	Rank         int     `json:"rank"`
	Score        float64 `json:"score"`
	MatchPercent float64 `json:"match_percent"`
}

type RecommendationsResponse struct {
	Recommendations []NeighborhoodMatchResponse `json:"recommendations"`
	Preferences     map[string]float64          `json:"preferences"`
	Total           int                         `json:"total"`
}

type AxisMatchResponse struct {
	Axis       string  `json:"axis"`
	Importance float64 `json:"importance"`
	Score      float64 `json:"score"`
	Quality    string  `json:"quality"`
}

type NeighborhoodDetailResponse struct {
	NeighborhoodMatchResponse
	Features    map[string]float64  `json:"features"`
	Explanation []AxisMatchResponse `json:"explanation"`
	Strengths   []string            `json:"strengths"`
	Concerns    []string            `json:"concerns"`
}
