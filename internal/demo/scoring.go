package demo

import "regexp"

// ScoreWeights is the per-business scoring policy. Values are points on the
// 0-100 scale; the final score is clamped to that range.
type ScoreWeights struct {
	Base            int
	EmergencyBase   int // replaces Base when emergency language appears
	CriticalIssue   int // leak/flood/burst class problems
	UrgentIssue     int // broken equipment, no heat / no AC
	ServiceIntent   int // service_request or emergency intent
	ContactInfo     int // phone or email captured
	NameKnown       int
	FieldFilled     int // per distinct filled catalog field
	Engagement      int // multi-turn conversations
	LongMessage     int // latest user turn carries real detail
	ReadyToSchedule int
	NegativeSignal  int // subtracted
}

// DefaultScoreWeights mirrors the production scorer, rescaled to 0-100.
var DefaultScoreWeights = ScoreWeights{
	Base:            50,
	EmergencyBase:   60,
	CriticalIssue:   20,
	UrgentIssue:     10,
	ServiceIntent:   5,
	ContactInfo:     15,
	NameKnown:       5,
	FieldFilled:     3,
	Engagement:      5,
	LongMessage:     3,
	ReadyToSchedule: 10,
	NegativeSignal:  20,
}

// perTypeWeights tunes categories where urgency means something different:
// trade emergencies score hotter, legal matters rarely flood basements.
var perTypeWeights = map[BusinessType]ScoreWeights{
	BusinessPlumbing: {Base: 50, EmergencyBase: 65, CriticalIssue: 25, UrgentIssue: 10, ServiceIntent: 5, ContactInfo: 15, NameKnown: 5, FieldFilled: 3, Engagement: 5, LongMessage: 3, ReadyToSchedule: 10, NegativeSignal: 20},
	BusinessHVAC:     {Base: 50, EmergencyBase: 65, CriticalIssue: 20, UrgentIssue: 15, ServiceIntent: 5, ContactInfo: 15, NameKnown: 5, FieldFilled: 3, Engagement: 5, LongMessage: 3, ReadyToSchedule: 10, NegativeSignal: 20},
	BusinessLaw:      {Base: 50, EmergencyBase: 55, CriticalIssue: 10, UrgentIssue: 5, ServiceIntent: 10, ContactInfo: 15, NameKnown: 5, FieldFilled: 3, Engagement: 10, LongMessage: 5, ReadyToSchedule: 10, NegativeSignal: 20},
}

// WeightsFor returns the scoring policy for a business type.
func WeightsFor(bt BusinessType) ScoreWeights {
	if w, ok := perTypeWeights[bt]; ok {
		return w
	}
	return DefaultScoreWeights
}

const longMessageRunes = 40

var (
	emergencyLanguageRE = regexp.MustCompile(`(?i)\b(emergency|urgent|asap|now|immediately)\b`)
	criticalIssueRE     = regexp.MustCompile(`(?i)\b(leak|leaking|flood|flooding|burst)\b`)
	urgentIssueRE       = regexp.MustCompile(`(?i)\b(broken|no heat|no ac)\b`)
	readyToScheduleRE   = regexp.MustCompile(`(?i)\b(schedule|book|appointment|available)\b`)
	negativeSignalRE    = regexp.MustCompile(`(?i)\b(just browsing|just looking|maybe later|not sure)\b`)
)

// ScoreLead derives the 0-100 lead score from the dialogue, extraction, and
// intent under the supplied weights. Pure and deterministic.
func ScoreLead(history []Message, ex Extraction, intent Intent, fields []CRMField, w ScoreWeights) int {
	latest := latestUserText(history)

	score := w.Base
	if emergencyLanguageRE.MatchString(latest) {
		score = w.EmergencyBase
	}

	if criticalIssueRE.MatchString(latest) {
		score += w.CriticalIssue
	} else if urgentIssueRE.MatchString(latest) {
		score += w.UrgentIssue
	}

	if intent == IntentServiceRequest || intent == IntentEmergency {
		score += w.ServiceIntent
	}

	if ex.Phone != "" || ex.Email != "" {
		score += w.ContactInfo
	}
	if ex.Name != "" {
		score += w.NameKnown
	}

	for _, f := range fields {
		if f.IsFilled {
			score += w.FieldFilled
		}
	}

	if len(history) > 2 {
		score += w.Engagement
	}
	if len([]rune(latest)) >= longMessageRunes {
		score += w.LongMessage
	}

	if readyToScheduleRE.MatchString(latest) {
		score += w.ReadyToSchedule
	}
	if negativeSignalRE.MatchString(latest) {
		score -= w.NegativeSignal
	}

	return clampScore(score)
}

func latestUserText(history []Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == RoleUser {
			return history[i].Text
		}
	}
	return ""
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Rescore is the module entry the orchestrator calls after each completed AI
// turn: extraction, catalog application, intent, and score in one pass.
func Rescore(history []Message, bt BusinessType, prev []CRMField) ([]CRMField, int, Intent) {
	ex := Extract(history, bt)
	fields := ApplyExtraction(prev, ex)

	var lastUser, lastAI string
	for i := len(history) - 1; i >= 0; i-- {
		switch history[i].Role {
		case RoleUser:
			if lastUser == "" {
				lastUser = history[i].Text
			}
		case RoleAI:
			if lastAI == "" {
				lastAI = history[i].Text
			}
		}
	}
	intent := DetectIntent(lastUser, lastAI)

	score := ScoreLead(history, ex, intent, fields, WeightsFor(bt))
	return fields, score, intent
}
