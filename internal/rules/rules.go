// Package rules implements the local pattern classifier used when the remote
// classifier is unavailable. Classification is driven by ordered rule tables
// per dimension: the first rule whose pattern matches wins, and an utterance
// matching no rule resolves to Unknown rather than failing.
package rules

import (
	"regexp"

	"github.com/cc4019/nirva/internal/model"
)

// Rule pairs a case-insensitive pattern with the category it assigns.
type Rule struct {
	Pattern  *regexp.Regexp
	Category model.Category
}

// rule compiles a case-insensitive rule. Patterns are authored so that at
// most one rule per dimension is intended to match a realistic utterance;
// table order is the tie-break when several do.
func rule(pattern string, category model.Category) Rule {
	return Rule{
		Pattern:  regexp.MustCompile(`(?i)` + pattern),
		Category: category,
	}
}

// Classifier applies the rule tables. It holds no mutable state and is safe
// for concurrent use.
type Classifier struct {
	tables map[model.Dimension][]Rule
}

// NewClassifier creates a classifier with the default rule tables.
func NewClassifier() *Classifier {
	return &Classifier{tables: defaultTables()}
}

// NewClassifierWithTables creates a classifier with custom rule tables,
// primarily for tests and rule-set experiments.
func NewClassifierWithTables(tables map[model.Dimension][]Rule) *Classifier {
	return &Classifier{tables: tables}
}

// Classify returns the category of the first rule matching the utterance
// text on the given dimension, or Unknown when no rule matches. Given the
// same tables and text the result is always identical.
func (c *Classifier) Classify(u model.Utterance, d model.Dimension) model.Category {
	for _, r := range c.tables[d] {
		if r.Pattern.MatchString(u.Text) {
			return r.Category
		}
	}
	return model.CategoryUnknown
}

// ClassifyAll classifies an utterance on every dimension, producing one
// pattern-sourced tag per dimension.
func (c *Classifier) ClassifyAll(u model.Utterance) map[model.Dimension]model.Tag {
	tags := make(map[model.Dimension]model.Tag, 4)
	for _, d := range model.Dimensions() {
		tags[d] = model.Tag{
			Dimension: d,
			Category:  c.Classify(u, d),
			Source:    model.SourcePattern,
		}
	}
	return tags
}

// defaultTables returns the built-in rule tables. Higher-signal categories
// come first so they win when an utterance mixes cues.
func defaultTables() map[model.Dimension][]Rule {
	return map[model.Dimension][]Rule{
		model.DimensionEnergy: {
			rule(`excited|energetic|amazing|fantastic|wonderful|excellent|enthusiastic|motivated|passionate|thrilled|pumped`, model.EnergyHigh),
			rule(`tired|exhausted|drained|low energy|not feeling well|struggling|fatigued|worn out|sluggish|lethargic|frustrat|\bslow\b`, model.EnergyLow),
			rule(`\bokay\b|\bfine\b|alright|moderate|steady|stable|balanced`, model.EnergyMedium),
		},
		model.DimensionSocial: {
			rule(`thank|appreciate|well done|great work|love(d)? (it|this|that)|agree|awesome|helpful|congrat|supportive`, model.SocialPositive),
			rule(`disagree|annoy|angry|upset|rude|argu(e|ing|ment)|blame|complain|unacceptable|tense`, model.SocialNegative),
			rule(`meeting|discuss|talk(ed|ing)?|\bchat\b|conversation|catch(ing)? up|call(ed)? (with|him|her|them)`, model.SocialNeutral),
		},
		model.DimensionMood: {
			rule(`anxious|worried|nervous|concern(ed|ing)|afraid|scared|uneasy`, model.MoodAnxious),
			rule(`stressed|overwhelm|under pressure|too much going on|burn(ed|t) out`, model.MoodStressed),
			rule(`frustrat|irritat|fed up|annoy`, model.MoodFrustrated),
			rule(`excited|thrilled|can't wait|looking forward`, model.MoodExcited),
			rule(`happy|\bjoy\b|\bglad\b|delight|great day|cheerful`, model.MoodHappy),
			rule(`\bsad\b|unhappy|depress|disappoint|heartbroken|miserable`, model.MoodSad),
			rule(`content|peaceful|\bcalm\b|relaxed|at ease`, model.MoodContent),
			rule(`\bokay\b|\bfine\b|alright|nothing (much|special)`, model.MoodNeutral),
		},
		model.DimensionTopic: {
			rule(`project|meeting|deadline|client|report|budget|sprint|review|presentation|email|standup|roadmap`, model.TopicWork),
			rule(`party|lunch|dinner|coffee|friend|hang(ing)? out|weekend plans|birthday|drinks`, model.TopicSocial),
			rule(`family|health|doctor|\bgym\b|sleep|workout|vacation|my (kids|partner|house|apartment)`, model.TopicPersonal),
		},
	}
}
