package demo

import "regexp"

var (
	inquiryRE   = regexp.MustCompile(`(?i)\b(do you|can you|offer|provide|available|what do you|tell me about)\b`)
	emergencyRE = regexp.MustCompile(`(?i)\b(leak|leaking|flood|flooding|no heat|no ac|no air|broken|burst|emergency|urgent|asap|right now|immediately)\b`)
	serviceRE   = regexp.MustCompile(`(?i)\b(repair|fix|install|replace|check|service|maintenance|inspect|diagnose)\b`)
	scheduleRE  = regexp.MustCompile(`(?i)\b(appointment|schedule|book|when available|when can|what time|set up)\b`)
	pricingRE   = regexp.MustCompile(`(?i)\b(cost|price|how much|expensive|cheap|rate|fee|charge|quote|estimate)\b`)
	complaintRE = regexp.MustCompile(`(?i)\b(complaint|problem|issue|not working|unhappy|disappointed|refund|angry)\b`)
	hoursRE     = regexp.MustCompile(`(?i)\b(24/7|emergency service|hours)\b`)
)

// DetectIntent classifies the caller's latest turn. Inquiry phrasing is
// checked first so "do you handle emergency leaks?" does not register as an
// emergency.
func DetectIntent(userMessage, aiResponse string) Intent {
	isInquiry := inquiryRE.MatchString(userMessage)

	if !isInquiry && emergencyRE.MatchString(userMessage) {
		return IntentEmergency
	}
	if serviceRE.MatchString(userMessage) {
		return IntentServiceRequest
	}
	if scheduleRE.MatchString(userMessage + " " + aiResponse) {
		return IntentSchedule
	}
	if pricingRE.MatchString(userMessage) {
		return IntentPricing
	}
	if complaintRE.MatchString(userMessage) {
		return IntentComplaint
	}
	if isInquiry || hoursRE.MatchString(userMessage) {
		return IntentInquiry
	}
	return IntentGeneral
}
