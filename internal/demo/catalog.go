package demo

// Field ids shared across catalogs.
const (
	FieldName          = "name"
	FieldPhone         = "phone"
	FieldService       = "service"
	FieldUrgency       = "urgency"
	FieldPreferredTime = "preferred_time"
)

type fieldSpec struct {
	id    string
	label string
}

// catalogSpecs defines the fixed, ordered field catalog per business type.
// Catalog membership is determined solely by business type; only values and
// flags mutate during a session.
var catalogSpecs = map[BusinessType][]fieldSpec{
	BusinessPlumbing: {
		{FieldName, "Contact Name"},
		{FieldPhone, "Phone Number"},
		{FieldService, "Service Needed"},
		{FieldUrgency, "Lead Priority"},
	},
	BusinessDental: {
		{FieldName, "Patient Name"},
		{FieldPhone, "Phone Number"},
		{FieldService, "Service Needed"},
		{FieldUrgency, "Lead Priority"},
		{FieldPreferredTime, "Preferred Time"},
	},
	BusinessAuto: {
		{FieldName, "Contact Name"},
		{FieldPhone, "Phone Number"},
		{FieldService, "Service Needed"},
		{FieldUrgency, "Lead Priority"},
		{FieldPreferredTime, "Preferred Time"},
	},
	BusinessHVAC: {
		{FieldName, "Contact Name"},
		{FieldPhone, "Phone Number"},
		{FieldService, "Service Needed"},
		{FieldUrgency, "Lead Priority"},
	},
	BusinessLaw: {
		{FieldName, "Client Name"},
		{FieldPhone, "Phone Number"},
		{FieldService, "Case Type"},
		{FieldUrgency, "Lead Priority"},
		{FieldPreferredTime, "Preferred Time"},
	},
	BusinessGeneral: {
		{FieldName, "Contact Name"},
		{FieldPhone, "Phone Number"},
		{FieldService, "Service Needed"},
		{FieldUrgency, "Lead Priority"},
	},
}

// CatalogFor returns a fresh, empty field catalog for the business type.
func CatalogFor(bt BusinessType) []CRMField {
	specs, ok := catalogSpecs[bt]
	if !ok {
		specs = catalogSpecs[BusinessGeneral]
	}
	fields := make([]CRMField, 0, len(specs))
	for _, spec := range specs {
		fields = append(fields, CRMField{ID: spec.id, Label: spec.label})
	}
	return fields
}

// greetings is the scripted opening line the widget shows before the first
// user turn. It is not part of the transcript.
var greetings = map[BusinessType]string{
	BusinessPlumbing: "Hello! Thanks for calling Elite Plumbing Services. I'm here to help with your plumbing needs. What can I assist you with today?",
	BusinessDental:   "Good morning! You've reached Bright Smile Dental. How can I help you with your dental care today?",
	BusinessAuto:     "Hi there! Thanks for calling AutoCare Pro. What can I help you with for your vehicle today?",
	BusinessHVAC:     "Hello! You've reached Climate Control HVAC. How can I help with your heating or cooling needs?",
	BusinessLaw:      "Good day! Thanks for calling Johnson & Associates Law Firm. How may I assist you today?",
	BusinessGeneral:  "Hello! Thanks for calling. I'm here to help answer your questions. What can I do for you?",
}

// GreetingFor returns the scripted opening line for the business type.
func GreetingFor(bt BusinessType) string {
	if g, ok := greetings[bt]; ok {
		return g
	}
	return greetings[BusinessGeneral]
}

// businessContexts seed the receptionist persona handed to the completion
// service as the first system block.
var businessContexts = map[BusinessType]string{
	BusinessPlumbing: `You are an AI receptionist for "Elite Plumbing Services."
Handle: emergency leaks, drain cleaning, water heater repairs, installations.
Pricing: $95 service call, $150/hr labor. Emergency = 1.5x rate.`,
	BusinessDental: `You are an AI receptionist for "Bright Smile Dental."
Handle: cleanings, fillings, cosmetic dentistry, emergencies.
New patient exams: $99 (includes X-rays, cleaning). Open M-F 8am-6pm.`,
	BusinessAuto: `You are an AI receptionist for "AutoCare Pro."
Handle: oil changes, brake repairs, diagnostics, inspections.
Oil change: $39.99. Brake service from $199. Free multi-point inspection.`,
	BusinessHVAC: `You are an AI receptionist for "Climate Control HVAC."
Handle: AC repair, heating service, installations, maintenance plans.
Service call: $79. Maintenance plans from $199/year. 24/7 emergency.`,
	BusinessLaw: `You are an AI receptionist for "Johnson & Associates Law Firm."
Handle: personal injury, family law, estate planning consultations.
Free initial consultation. No fees unless we win your case.`,
	BusinessGeneral: `You are an AI receptionist for a professional service business.
Provide friendly, helpful assistance and capture lead information.`,
}

// ScriptedResponses maps a marker found in the system prompt to a canned
// receptionist reply, used by the keyless scripted completion provider.
func ScriptedResponses() map[string]string {
	return map[string]string{
		"Elite Plumbing Services": "I understand you need plumbing assistance. Could you tell me your name and the best phone number to reach you? Also, is this an emergency or can it wait for a scheduled appointment?",
		"Bright Smile Dental": "I'd be happy to help with your dental needs. May I have your name and phone number to schedule an appointment?",
		"AutoCare Pro": "I can help you with that. To better assist you, could you share your name and contact number?",
		"Climate Control HVAC": "Got it. To help you with your HVAC needs, may I get your name and contact number? Is this a heating or cooling issue?",
		"Johnson & Associates Law Firm": "I understand. To schedule a consultation, may I have your name and the best number to reach you?",
	}
}

// DefaultScriptedResponse is the scripted reply when no marker matches.
const DefaultScriptedResponse = "I'd be happy to help with that. May I have your name and phone number so we can better assist you?"
