package model

// Dimension is one of the four independent classification axes.
type Dimension string

const (
	DimensionEnergy Dimension = "energy"
	DimensionSocial Dimension = "social"
	DimensionMood   Dimension = "mood"
	DimensionTopic  Dimension = "topic"
)

// Dimensions returns all axes in canonical order. Every classified utterance
// carries exactly one tag per dimension.
func Dimensions() []Dimension {
	return []Dimension{DimensionEnergy, DimensionSocial, DimensionMood, DimensionTopic}
}

// Category is a label within a dimension's closed set, or the reserved
// CategoryUnknown when no classifier could resolve the dimension.
type Category string

// CategoryUnknown is valid for every dimension.
const CategoryUnknown Category = "Unknown"

// Energy categories
const (
	EnergyHigh   Category = "High"
	EnergyMedium Category = "Medium"
	EnergyLow    Category = "Low"
)

// Social-interaction polarity categories
const (
	SocialPositive Category = "Positive"
	SocialNegative Category = "Negative"
	SocialNeutral  Category = "Neutral"
)

// Mood categories
const (
	MoodHappy      Category = "Happy"
	MoodSad        Category = "Sad"
	MoodAnxious    Category = "Anxious"
	MoodStressed   Category = "Stressed"
	MoodExcited    Category = "Excited"
	MoodFrustrated Category = "Frustrated"
	MoodContent    Category = "Content"
	MoodNeutral    Category = "Neutral"
)

// Topic categories
const (
	TopicWork     Category = "Work"
	TopicSocial   Category = "Social"
	TopicPersonal Category = "Personal"
	TopicOther    Category = "Other"
)

// Categories returns the closed category set for a dimension, excluding
// CategoryUnknown.
func Categories(d Dimension) []Category {
	switch d {
	case DimensionEnergy:
		return []Category{EnergyHigh, EnergyMedium, EnergyLow}
	case DimensionSocial:
		return []Category{SocialPositive, SocialNegative, SocialNeutral}
	case DimensionMood:
		return []Category{
			MoodHappy, MoodSad, MoodAnxious, MoodStressed,
			MoodExcited, MoodFrustrated, MoodContent, MoodNeutral,
		}
	case DimensionTopic:
		return []Category{TopicWork, TopicSocial, TopicPersonal, TopicOther}
	default:
		return nil
	}
}

// ValidCategory reports whether c is a member of d's closed set or Unknown.
func ValidCategory(d Dimension, c Category) bool {
	if c == CategoryUnknown {
		return true
	}
	for _, valid := range Categories(d) {
		if c == valid {
			return true
		}
	}
	return false
}

// Source identifies which classification strategy produced a tag.
type Source string

const (
	SourceRemote  Source = "remote"
	SourcePattern Source = "pattern"
)

// Utterance is one analyzable unit of transcript text. Index is the
// zero-based position within the transcript and is unique per run.
type Utterance struct {
	Index   int    `json:"index"`
	Speaker string `json:"speaker,omitempty"`
	Text    string `json:"text"`
}

// Tag labels one utterance on one dimension.
type Tag struct {
	Dimension Dimension `json:"dimension"`
	Category  Category  `json:"category"`
	Source    Source    `json:"source"`
}

// ClassifiedUtterance is an utterance plus exactly one tag per dimension.
// Owned by the run that produced it; not mutated after classification.
type ClassifiedUtterance struct {
	Utterance
	Tags map[Dimension]Tag `json:"tags"`
}

// Category returns the category assigned on the given dimension, or Unknown
// if the tag is absent (which a well-formed run never produces).
func (c ClassifiedUtterance) Category(d Dimension) Category {
	if tag, ok := c.Tags[d]; ok {
		return tag.Category
	}
	return CategoryUnknown
}
