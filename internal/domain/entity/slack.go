package entity

// ChannelSummary is the per-channel portion of a Slack workspace digest
type ChannelSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Summary     string   `json:"summary"`
	KeyPoints   []string `json:"key_points"`
	ActionItems []string `json:"action_items"`
}

// SlackDigest is the structured summarization of recent Slack activity
type SlackDigest struct {
	Channels        []ChannelSummary `json:"channels"`
	OverallInsights []string         `json:"overall_insights"`
	Suggestions     []string         `json:"suggestions"`
}
