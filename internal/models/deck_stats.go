package models

type DeckStats struct {
	DeckID          int64   `json:"deck_id"`
	TotalCards      int     `json:"total_cards"`
	NewCards        int     `json:"new_cards"`
	DueCards        int     `json:"due_cards"`
	LearningCards   int     `json:"learning_cards"`
	MatureCards     int     `json:"mature_cards"`
	TotalReviews    int     `json:"total_reviews"`
	ReviewsToday    int     `json:"reviews_today"`
	Accuracy        float64 `json:"accuracy"`
	AvgEaseFactor   float64 `json:"avg_ease_factor"`
	AvgIntervalDays float64 `json:"avg_interval_days"`
	AvgTimeSeconds  float64 `json:"avg_time_seconds"`
}
