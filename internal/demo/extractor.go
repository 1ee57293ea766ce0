package demo

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Urgency buckets derived from the dialogue.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// Extraction holds the field-relevant content found in the dialogue so far.
type Extraction struct {
	Name          string
	Phone         string
	Email         string
	Service       string
	Urgency       string
	PreferredTime string
}

// ---------- package-level compiled regexes ----------

var (
	phoneRE = regexp.MustCompile(`\(\d{3}\)\s?\d{3}[-.\s]?\d{4}|\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b|\b\d{3}[-.]\d{4}\b`)
	emailRE = regexp.MustCompile(`\b[\w.-]+@[\w.-]+\.\w{2,}\b`)
	timeRE  = regexp.MustCompile(`(?i)\b(morning|afternoon|evening|today|tomorrow|next week|monday|tuesday|wednesday|thursday|friday)\b`)

	urgencyHighRE   = regexp.MustCompile(`(?i)\b(emergency|urgent|asap|right away|right now|immediately|leak|leaking|flood|flooding|burst)\b`)
	urgencyMediumRE = regexp.MustCompile(`(?i)\b(soon|this week|today|tomorrow)\b`)
)

const nameWordPattern = `[\p{L}][\p{L}\p{M}'-]*`

var namePatterns = buildNamePatterns()

func buildNamePatterns() []*regexp.Regexp {
	name := nameWordPattern + `(?:\s+` + nameWordPattern + `)?`
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)my name is\s+(` + name + `)`),
		regexp.MustCompile(`(?i)this is\s+(` + name + `)`),
		regexp.MustCompile(`(?i)i'?m\s+(` + name + `)(?:\s|,|\.|!|$)`),
		regexp.MustCompile(`(?i)i am\s+(` + name + `)(?:\s|,|\.|!|$)`),
		regexp.MustCompile(`(?i)call me\s+(` + name + `)`),
	}
}

// serviceKeywords maps lowercase keywords to a service label, scoped per
// business category. Ordered so more specific phrases match first.
var serviceKeywords = map[BusinessType][]struct {
	keyword string
	label   string
}{
	BusinessPlumbing: {
		{"water heater", "Water Heater Installation/Repair"},
		{"hot water", "Water Heater Installation/Repair"},
		{"sewer", "Sewer Line Service"},
		{"sewage", "Sewer Line Service"},
		{"toilet", "Toilet Repair"},
		{"commode", "Toilet Repair"},
		{"faucet", "Faucet/Sink Repair"},
		{"sink", "Faucet/Sink Repair"},
		{"tap", "Faucet/Sink Repair"},
		{"drain", "Pipe Repair/Leak Fix"},
		{"clog", "Pipe Repair/Leak Fix"},
		{"pipe", "Pipe Repair/Leak Fix"},
		{"leak", "Pipe Repair/Leak Fix"},
	},
	BusinessHVAC: {
		{"air conditioning", "AC Repair/Service"},
		{"thermostat", "Thermostat Service"},
		{"air handler", "HVAC System Service"},
		{"furnace", "Heating/Furnace Repair"},
		{"heating", "Heating/Furnace Repair"},
		{"heat", "Heating/Furnace Repair"},
		{"cooling", "AC Repair/Service"},
		{"ac", "AC Repair/Service"},
		{"hvac", "HVAC System Service"},
	},
	BusinessDental: {
		{"toothache", "Emergency Dental"},
		{"cleaning", "Teeth Cleaning"},
		{"hygiene", "Teeth Cleaning"},
		{"filling", "Cavity Filling"},
		{"cavity", "Cavity Filling"},
		{"crown", "Dental Crown"},
		{"teeth", "Dental Exam/Cleaning"},
		{"tooth", "Dental Exam/Cleaning"},
		{"dental", "Dental Exam/Cleaning"},
		{"pain", "Emergency Dental"},
	},
	BusinessAuto: {
		{"check engine", "Diagnostic Service"},
		{"oil change", "Oil Change"},
		{"transmission", "Transmission Service"},
		{"diagnostic", "Diagnostic Service"},
		{"brake", "Brake Service/Repair"},
		{"engine", "Engine Diagnostic/Repair"},
		{"motor", "Engine Diagnostic/Repair"},
		{"tire", "Tire Service"},
		{"wheel", "Tire Service"},
		{"oil", "Oil Change"},
	},
	BusinessLaw: {
		{"divorce", "Family Law Consultation"},
		{"separation", "Family Law Consultation"},
		{"custody", "Family Law Consultation"},
		{"injury", "Personal Injury Consultation"},
		{"accident", "Personal Injury Consultation"},
		{"hurt", "Personal Injury Consultation"},
		{"estate", "Estate Planning"},
		{"will", "Estate Planning"},
		{"trust", "Estate Planning"},
		{"lawsuit", "Legal Consultation"},
		{"sue", "Legal Consultation"},
		{"legal", "Legal Consultation"},
	},
	BusinessGeneral: {
		{"quote", "Service Quote"},
		{"estimate", "Service Quote"},
		{"repair", "Repair Service"},
		{"install", "Installation"},
		{"service", "General Service"},
	},
}

// urgencyLabels render the urgency bucket as the CRM priority value.
var urgencyLabels = map[string]string{
	UrgencyHigh:   "EMERGENCY - Immediate Response Required",
	UrgencyMedium: "HIGH - Respond Within 24 Hours",
	UrgencyLow:    "MEDIUM - Schedule Within Week",
}

// Extract scans the user turns of the dialogue for field-relevant content.
// It is pure: identical inputs always produce identical output.
func Extract(history []Message, bt BusinessType) Extraction {
	var builder strings.Builder
	for _, msg := range history {
		if msg.Role != RoleUser {
			continue
		}
		builder.WriteString(msg.Text)
		builder.WriteString(" ")
	}
	text := builder.String()
	lower := strings.ToLower(text)

	ex := Extraction{Urgency: UrgencyLow}

	if m := phoneRE.FindString(text); m != "" {
		ex.Phone = m
	}
	if m := emailRE.FindString(text); m != "" {
		ex.Email = m
	}
	ex.Name = findName(text)
	ex.Service = matchService(lower, bt)

	if urgencyHighRE.MatchString(text) {
		ex.Urgency = UrgencyHigh
	} else if urgencyMediumRE.MatchString(text) {
		ex.Urgency = UrgencyMedium
	}

	if m := timeRE.FindString(text); m != "" {
		ex.PreferredTime = strings.ToLower(m)
	}

	return ex
}

func matchService(lower string, bt BusinessType) string {
	keywords, ok := serviceKeywords[bt]
	if !ok {
		keywords = serviceKeywords[BusinessGeneral]
	}
	for _, kw := range keywords {
		if containsWord(lower, kw.keyword) {
			return kw.label
		}
	}
	return ""
}

// containsWord matches keyword on word boundaries so "ac" does not fire on
// "contact".
func containsWord(text, keyword string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], keyword)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(keyword)
		beforeOK := start == 0 || !isWordRune(rune(text[start-1]))
		afterOK := end >= len(text) || !isWordRune(rune(text[end]))
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func findName(text string) string {
	for _, pattern := range namePatterns {
		match := pattern.FindStringSubmatch(text)
		if len(match) < 2 {
			continue
		}
		parts := nameParts(match[1])
		if len(parts) == 0 {
			continue
		}
		return strings.Join(parts, " ")
	}
	return ""
}

func nameParts(raw string) []string {
	words := strings.Fields(strings.TrimSpace(raw))
	parts := make([]string, 0, 2)
	for _, word := range words {
		cleaned := strings.Trim(word, ".,!?\"()[]{}'-")
		if !looksLikeNameWord(cleaned) {
			break
		}
		parts = append(parts, capitalizeNameWord(cleaned))
		if len(parts) == 2 {
			break
		}
	}
	return parts
}

func looksLikeNameWord(word string) bool {
	count := utf8.RuneCountInString(word)
	if count < 2 || count > 30 {
		return false
	}
	first, _ := utf8.DecodeRuneInString(word)
	if !unicode.IsLetter(first) {
		return false
	}
	return !isCommonWord(strings.ToLower(word))
}

func capitalizeNameWord(word string) string {
	first, size := utf8.DecodeRuneInString(word)
	if first == utf8.RuneError || size == 0 {
		return word
	}
	return string(unicode.ToUpper(first)) + strings.ToLower(word[size:])
}

// isCommonWord filters words that follow a name phrase but are not names
// ("I'm looking for...", "this is urgent").
func isCommonWord(word string) bool {
	common := map[string]bool{
		"the": true, "and": true, "for": true, "not": true, "you": true,
		"just": true, "really": true, "very": true, "here": true, "there": true,
		"looking": true, "calling": true, "trying": true, "wondering": true,
		"interested": true, "having": true, "hoping": true, "going": true,
		"new": true, "sorry": true, "sure": true, "urgent": true, "about": true,
		"an": true, "a": true, "so": true, "at": true, "in": true, "my": true,
	}
	return common[word]
}

// ApplyExtraction maps an extraction onto the ordered catalog. Newly filled
// or changed fields get the one-shot IsFlashing cue; high urgency marks the
// priority field urgent. prev is not mutated.
func ApplyExtraction(prev []CRMField, ex Extraction) []CRMField {
	next := make([]CRMField, len(prev))
	copy(next, prev)

	for i := range next {
		var value string
		urgent := next[i].IsUrgent

		switch next[i].ID {
		case FieldName:
			value = ex.Name
		case FieldPhone:
			value = ex.Phone
		case FieldService:
			value = ex.Service
		case FieldPreferredTime:
			value = ex.PreferredTime
		case FieldUrgency:
			// Only fill priority once the caller has given us a signal to
			// prioritize on.
			if ex.Urgency != UrgencyLow || ex.Service != "" {
				value = urgencyLabels[ex.Urgency]
			}
			urgent = ex.Urgency == UrgencyHigh
		default:
			continue
		}

		if value == "" {
			continue
		}
		changed := !next[i].IsFilled || next[i].Value != value || next[i].IsUrgent != urgent
		next[i].Value = value
		next[i].IsFilled = true
		next[i].IsUrgent = urgent
		if changed {
			next[i].IsFlashing = true
		}
	}

	return next
}
