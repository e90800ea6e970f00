package agent

import "fmt"

// SystemInstruction pins the backend to machine-readable output.
const SystemInstruction = "Respond ONLY in valid JSON."

// RedirectMessage is the fixed reply for situations with no financial
// dimension.
const RedirectMessage = "Main financial crisis situations me help karta hu. Apni financial problem batao."

const reasoningTemplate = `
You are a FINANCIAL CRISIS support assistant. You ONLY help with FINANCIAL and MONEY-RELATED problems.

User message:
%s

IMPORTANT RULES:
1. These are FINANCIAL problems - ALWAYS ACCEPT and provide help:
   - Lost/stolen car, vehicle, bike → insurance claims, loan EMI, transportation costs, police report
   - Lost/stolen phone, laptop, jewelry → replacement costs, insurance, financial recovery
   - Salary delayed, not paid → EMI issues, bill payments, budget crisis
   - Loan, debt, EMI problems → payment difficulties, restructuring
   - Medical bills, hospital expenses → payment plans, insurance
   - Lost job, unemployment → income loss, expense management
   - Fraud, scam, money stolen → recovery, police report, financial restoration
   - Rent payment issues → eviction concerns, negotiation
   - Business loss, bankruptcy → debt management, recovery

2. ONLY reject if problem is purely personal with NO financial aspect:
   - Pure relationship issues (no money involved)
   - General health complaints (no medical bills)
   - Emotional/mental health (unless causing job/income loss)

   For non-financial, respond:
   {
       "not_financial": true,
       "redirect_message": "%s"
   }

3. For ALL FINANCIAL problems, provide this JSON with EXACTLY %d action steps:
{
    "crisis_type": "specific financial issue (e.g., 'Vehicle theft impacting insurance and transportation costs')",
    "severity": "low/medium/high",
    "mood": "calm/panic/anxious/depressed/angry/overwhelmed",
    "calming_steps": [
        {
            "instruction": "Take 5 deep breaths - we will solve this step by step",
            "type": "breathing",
            "duration_seconds": 20
        }
    ],
    "action_steps": [
        {
            "step": "Short, basic, calming action step (one sentence)",
            "priority": "high/medium",
            "estimated_time_minutes": 20
        }
    ],
    "needs_emergency_support": false,
    "final_advice": "Supportive message"
}

CRITICAL:
- Lost car/vehicle = FINANCIAL CRISIS (insurance, loan, transport costs)
- Lost valuables = FINANCIAL CRISIS (replacement, insurance)
- Detect the user's mood from their message and provide calming steps that match it.
- Keep steps short, gentle, and basic. Avoid harsh or overwhelming language.
- Provide ONLY 1-2 calming steps and EXACTLY %d action steps.
`

const reevaluationTemplate = `
User is stuck on this step: %s

Original situation: %s

Provide ONE alternative step or break this down into smaller actions. Respond with JSON:
{
    "alternative_step": "simpler alternative action",
    "priority": "high/medium",
    "estimated_time_minutes": 10
}
`

// BuildReasoningPrompt assembles the single instruction prompt for one
// reasoning call: the verbatim user text, the classification policy, the
// output template and the effective action-step count.
func BuildReasoningPrompt(userInput string, steps int) string {
	return fmt.Sprintf(reasoningTemplate, userInput, RedirectMessage, steps, steps)
}

// BuildReevaluationPrompt asks for exactly one simpler alternative to a step
// the user is stuck on.
func BuildReevaluationPrompt(stepText, crisisType string) string {
	return fmt.Sprintf(reevaluationTemplate, stepText, crisisType)
}
