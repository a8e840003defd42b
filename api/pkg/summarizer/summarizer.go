// Package summarizer extracts the clinical-review summary from a
// finished conversation. Rule based, no LLM calls: topic coverage via
// keyword matching, question detection via a starter-word heuristic,
// and perception notes compiled from emotion observation counts. All
// functions are deterministic and side-effect free.
package summarizer

import (
	"fmt"
	"strings"

	"github.com/lattica-health/companion-api/api/pkg/types"
)

type topicRule struct {
	Topic    string
	Keywords []string
}

// topicRules is ordered so the summary lists topics in a stable,
// clinically sensible order rather than map iteration order.
var topicRules = []topicRule{
	{"Anesthesia & sedation", []string{"anesthesia", "sedation", "asleep", "awake"}},
	{"Ovarian stimulation", []string{"stimulation", "injection", "gonal", "medication"}},
	{"Egg retrieval procedure", []string{"retrieval", "procedure", "surgery", "needle"}},
	{"OHSS symptoms & risks", []string{"ohss", "hyperstimulation", "bloating", "swelling"}},
	{"Post-procedure recovery", []string{"recovery", "rest", "activity", "exercise"}},
	{"Day-of preparation", []string{"npo", "eat", "food", "drink", "midnight", "fasting"}},
	{"Transportation", []string{"driver", "transport", "ride", "car"}},
	{"Pain management", []string{"pain", "ibuprofen", "acetaminophen", "cramping"}},
	{"Expected side effects", []string{"spotting", "bleeding", "nausea", "mood"}},
	{"Success rates & outcomes", []string{"success", "chance", "rate", "eggs", "freeze"}},
}

var questionStarters = map[string]bool{
	"what":   true,
	"how":    true,
	"when":   true,
	"where":  true,
	"can":    true,
	"will":   true,
	"is":     true,
	"are":    true,
	"do":     true,
	"does":   true,
	"should": true,
	"why":    true,
}

// distressSynonyms are the labels that mean the perception model saw
// high distress and the care team needs to hear about it.
var distressSynonyms = map[string]bool{
	"distress":   true,
	"panic":      true,
	"distressed": true,
}

type Summary struct {
	TopicsCovered  types.TopicList
	QuestionsAsked types.QuestionList
}

// GenerateSummary extracts topics covered and questions asked from a
// transcript. Topic matching is done against the concatenated lowercase
// transcript text; questions are user utterances that either contain a
// question mark or open with a question starter word.
func GenerateSummary(transcript []types.TranscriptEntry) Summary {
	var sb strings.Builder
	for _, entry := range transcript {
		sb.WriteString(entry.Content)
		sb.WriteString(" ")
	}
	fullText := strings.ToLower(sb.String())

	summary := Summary{
		TopicsCovered:  types.TopicList{},
		QuestionsAsked: types.QuestionList{},
	}

	for _, rule := range topicRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(fullText, kw) {
				summary.TopicsCovered = append(summary.TopicsCovered, rule.Topic)
				break
			}
		}
	}

	for _, entry := range transcript {
		if entry.Role != "user" {
			continue
		}
		content := strings.TrimSpace(entry.Content)
		if content == "" {
			continue
		}
		if isQuestion(content) {
			summary.QuestionsAsked = append(summary.QuestionsAsked, types.QuestionEntry{
				Text:      content,
				Timestamp: entry.Timestamp,
			})
		}
	}

	return summary
}

func isQuestion(content string) bool {
	if strings.Contains(content, "?") {
		return true
	}
	firstWord := strings.Fields(content)[0]
	firstWord = strings.ToLower(strings.TrimRight(firstWord, ",.?"))
	return questionStarters[firstWord]
}

// CompilePerceptionNotes turns the buffered emotion observations into a
// short human readable note for the care team. Returns nil when there
// is nothing to report. The dominant label is the most frequent one,
// ties broken by first appearance; secondary labels are mentioned when
// their share of the session exceeds 15%.
func CompilePerceptionNotes(observations []types.PerceptionObservation) *string {
	if len(observations) == 0 {
		return nil
	}

	counts := map[string]int{}
	var order []string
	distressDetected := false

	for _, obs := range observations {
		label := obs.Label()
		if counts[label] == 0 {
			order = append(order, label)
		}
		counts[label]++
		if distressSynonyms[label] {
			distressDetected = true
		}
	}

	dominant := order[0]
	for _, label := range order {
		if counts[label] > counts[dominant] {
			dominant = label
		}
	}

	total := len(observations)

	parts := []string{
		fmt.Sprintf("Maya observed that you were mostly %s throughout the session.", dominant),
	}

	var secondary []string
	for _, label := range order {
		if label == dominant {
			continue
		}
		if float64(counts[label])/float64(total) > 0.15 {
			secondary = append(secondary, label)
		}
	}
	if len(secondary) > 0 {
		parts = append(parts, fmt.Sprintf("There were some moments of %s.", strings.Join(secondary, " and ")))
	}

	if distressDetected {
		parts = append(parts, "Some signs of distress were noted — your care team has been informed.")
	} else {
		parts = append(parts, "No signs of high distress were detected.")
	}

	notes := strings.Join(parts, " ")
	return &notes
}
