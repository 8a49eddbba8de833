package scheduler

import "fmt"

var confidenceTexts = [...]string{
	QualityBlackout:   "Complete Blackout",
	QualityWrong:      "Barely Remembered",
	QualityRecognized: "Recognized",
	QualityHard:       "Difficult Recall",
	QualityHesitant:   "Some Hesitation",
	QualityPerfect:    "Perfect Recall",
}

// ConfidenceText is the short label shown next to a rating button.
func ConfidenceText(q Quality) string {
	if !q.Valid() {
		return "Unknown"
	}
	return confidenceTexts[q]
}

// StudyRecommendations turns a ScoreState result into advice.
func StudyRecommendations(score int) []string {
	switch {
	case score >= 80:
		return []string{
			"Excellent state, ideal for challenging material.",
			"Focus on new concepts, difficult cards and synthesis tasks.",
			"Aim for a 45-60 minute deep work session.",
		}
	case score >= 60:
		return []string{
			"Good state for learning.",
			"Focus on regular reviews and practice problems.",
			"Aim for 25-30 minute focused sessions.",
		}
	case score >= 40:
		return []string{
			"Moderate state, adjust the approach.",
			"Focus on easy reviews and familiar material.",
			"Take a 5-minute walk or stretch before starting.",
		}
	default:
		return []string{
			"Suboptimal state, consider rescheduling.",
			"Take a break, hydrate, or come back during peak hours.",
			"If tired, prioritize sleep: consolidation happens during rest.",
		}
	}
}

// StudySession describes a recommended focus/break rhythm.
type StudySession struct {
	FocusMinutes            int      `json:"focus_minutes"`
	ShortBreakMinutes       int      `json:"short_break_minutes"`
	LongBreakMinutes        int      `json:"long_break_minutes"`
	SessionsBeforeLongBreak int      `json:"sessions_before_long_break"`
	OptimalTimes            []string `json:"optimal_times"`
	AvoidTimes              []string `json:"avoid_times"`
	Rationale               string   `json:"rationale"`
}

// OptimalStudySession returns the default pomodoro-style rhythm.
func OptimalStudySession() StudySession {
	return StudySession{
		FocusMinutes:            25,
		ShortBreakMinutes:       5,
		LongBreakMinutes:        15,
		SessionsBeforeLongBreak: 4,
		OptimalTimes:            []string{"9:00-11:00 AM", "3:00-5:00 PM"},
		AvoidTimes:              []string{"1:00-3:00 PM", "10:00 PM-6:00 AM"},
		Rationale: "Alertness peaks a few hours after waking and again mid-afternoon. " +
			"The post-lunch dip and the late-night circadian low are poor times for hard material. " +
			"25-minute blocks match typical attention spans.",
	}
}

// ContentType classifies what a card asks the learner to remember.
type ContentType string

const (
	ContentDefinition ContentType = "definition"
	ContentProcess    ContentType = "process"
	ContentList       ContentType = "list"
	ContentConcept    ContentType = "concept"
	ContentNumerical  ContentType = "numerical"
)

// Technique is a memory technique suited to a content type.
type Technique struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

var techniques = map[ContentType]Technique{
	ContentDefinition: {
		Name:        "Acronym and visualization",
		Description: "Build an acronym and pair it with a vivid mental image.",
		Example:     "Picture a plant as a small factory when memorizing photosynthesis.",
	},
	ContentProcess: {
		Name:        "Story method",
		Description: "Turn the steps into a short narrative.",
		Example:     "Cell division as a commander lining up troops and splitting them into two armies.",
	},
	ContentList: {
		Name:        "Memory palace",
		Description: "Place each item in a familiar location.",
		Example:     "Walk through your home and leave one planet in each room.",
	},
	ContentConcept: {
		Name:        "Analogy and association",
		Description: "Link the idea to something you already know well.",
		Example:     "Electricity as water: voltage is pressure, current is flow, resistance is a narrow pipe.",
	},
	ContentNumerical: {
		Name:        "Chunking and pattern",
		Description: "Split the number into groups and look for patterns.",
		Example:     "1776 as 1-7-7-6: two sevens wrapped by one and six.",
	},
}

// MemoryTechniqueFor returns the technique for a content type.
func MemoryTechniqueFor(ct ContentType) (Technique, bool) {
	t, ok := techniques[ct]
	return t, ok
}

// InterleavingSuggestions proposes how to mix earlier topics into the current one.
func InterleavingSuggestions(current string, previous []string) []string {
	if len(previous) == 0 {
		return []string{"Focus on mastering this topic first."}
	}
	return []string{
		fmt.Sprintf("Mix in a review of %s.", previous[len(previous)-1]),
		"Interleaving strengthens learning by forcing discrimination between concepts.",
		fmt.Sprintf("Pattern: study %s (15 min), review %s (5 min), continue %s.", current, previous[0], current),
	}
}
