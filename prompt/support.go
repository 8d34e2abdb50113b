package prompt

import (
	"fmt"
	"strings"
)

// Names of the built-in support templates.
const (
	Classification = "classification"
	Draft          = "draft"
	Review         = "review"
)

const classificationText = `You are a support ticket classification system. Your task is to categorize the following support ticket into one of these categories: {{.Categories}}.

Ticket Subject: {{.Subject}}
Ticket Description: {{.Description}}

Analyze the ticket and determine the most appropriate category. Consider:
- Billing: Issues related to payments, invoices, subscriptions, refunds
- Technical: Software bugs, technical issues, feature requests, system errors
- Security: Account security, privacy concerns, data protection, authentication issues
- General: General inquiries, feedback, non-urgent questions, account management

Return ONLY the category name from the list above. Do not include any other text or explanation.

Category:`

const draftText = `You are a customer support agent. Based on the following support ticket and relevant context, draft a helpful and professional response.

**Support Ticket:**
Subject: {{.Subject}}
Description: {{.Description}}

**Relevant Context:**
{{.Context}}

**Instructions:**
- Address the customer's issue directly and empathetically
- Use the provided context to ensure accuracy
- Provide clear, actionable steps if applicable
- Be professional but friendly in tone
- Keep the response concise but comprehensive
- Do not make promises you can't keep (like specific refund amounts)
- Do not provide sensitive security information

Draft your response below:`

const reviewText = `You are a STRICT quality assurance reviewer for customer support responses. Your task is to review the following draft response and determine if it meets our support policies.

**Support Ticket:**
Subject: {{.Subject}}
Description: {{.Description}}

**Category:** {{.Category}}

**Draft Response:**
{{.Draft}}

**STRICT Review Criteria - MUST REJECT IF ANY OF THESE ARE VIOLATED:**
1. **NO REFUND PROMISES**: Must NOT promise specific refund amounts or guarantee refunds.
2. **NO FINANCIAL COMMITMENTS**: Must NOT make any financial commitments or promises.
3. **NO SECURITY DETAILS**: Must NOT provide specific security implementation details (e.g. encryption types, algorithms, configurations).
4. **NO OVERPROMISING**: Must NOT overpromise outcomes or timelines.
5. **ACCURACY**: Must be factually correct based on available context.
6. **HELPFULNESS**: Must directly address the customer's issue.
7. **PROFESSIONAL TONE**: Must remain professional, empathetic, and customer-friendly.

**SPECIFIC POLICY VIOLATIONS TO LOOK FOR:**
- Phrases like "I will refund", "you will receive", "we guarantee"
- Specific dollar amounts or percentages
- Promises about specific outcomes or timelines
- Overly optimistic or definite language

**Instructions:**
Return ONLY in this exact format:
VERDICT: approved|rejected
FEEDBACK: [your specific feedback here]

Do not include any other text.

Begin your STRICT review:`

// SupportTemplates returns a manager holding the classification, draft and review
// templates.
func SupportTemplates() *Manager {
	m := NewManager()
	for name, text := range map[string]string{
		Classification: classificationText,
		Draft:          draftText,
		Review:         reviewText,
	} {
		if err := m.RegisterString(name, text); err != nil {
			// Built-in templates are constants; a parse failure is a programming error.
			panic(fmt.Sprintf("prompt: %v", err))
		}
	}
	return m
}

// BulletList renders context snippets one per line, each prefixed with a bullet.
func BulletList(items []string) string {
	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("• ")
		sb.WriteString(item)
	}
	return sb.String()
}

// JoinCategories renders the category enumeration for the classification prompt.
func JoinCategories(names []string) string {
	return strings.Join(names, ", ")
}
