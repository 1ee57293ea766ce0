package demo

import (
	"strings"
	"time"
)

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// Message is a single immutable transcript entry. Append order is the
// dialogue order.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// CRMField is one structured lead attribute the engine tries to populate
// from the dialogue. IsFlashing is a one-shot render cue that auto-clears
// shortly after the field fills or changes.
type CRMField struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Value      string `json:"value"`
	IsFilled   bool   `json:"is_filled"`
	IsUrgent   bool   `json:"is_urgent"`
	IsFlashing bool   `json:"is_flashing"`
}

// BusinessType selects which field catalog, prompts, and phrasing apply.
type BusinessType string

const (
	BusinessPlumbing BusinessType = "plumbing"
	BusinessDental   BusinessType = "dental"
	BusinessAuto     BusinessType = "auto"
	BusinessHVAC     BusinessType = "hvac"
	BusinessLaw      BusinessType = "law"
	BusinessGeneral  BusinessType = "general"
)

// ParseBusinessType maps a wire value onto the closed enumeration,
// defaulting to general.
func ParseBusinessType(s string) BusinessType {
	switch BusinessType(strings.ToLower(strings.TrimSpace(s))) {
	case BusinessPlumbing:
		return BusinessPlumbing
	case BusinessDental:
		return BusinessDental
	case BusinessAuto:
		return BusinessAuto
	case BusinessHVAC:
		return BusinessHVAC
	case BusinessLaw:
		return BusinessLaw
	default:
		return BusinessGeneral
	}
}

// Intent classifies the caller's latest turn.
type Intent string

const (
	IntentEmergency      Intent = "emergency"
	IntentServiceRequest Intent = "service_request"
	IntentInquiry        Intent = "inquiry"
	IntentSchedule       Intent = "schedule"
	IntentPricing        Intent = "pricing"
	IntentComplaint      Intent = "complaint"
	IntentGeneral        Intent = "general"
)

// Snapshot is the observational copy of the engine state handed to the UI
// layer. CurrentAIResponse is only meaningful while IsTyping is true.
type Snapshot struct {
	SessionID           string       `json:"session_id"`
	BusinessType        BusinessType `json:"business_type"`
	Greeting            string       `json:"greeting"`
	ConversationHistory []Message    `json:"conversation_history"`
	CRMFields           []CRMField   `json:"crm_fields"`
	LeadScore           int          `json:"lead_score"`
	Intent              Intent       `json:"intent"`
	CurrentAIResponse   string       `json:"current_ai_response"`
	IsTyping            bool         `json:"is_typing"`
	IsLoading           bool         `json:"is_loading"`
	Error               string       `json:"error,omitempty"`
}
