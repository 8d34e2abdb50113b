// Package knowledge supplies the context snippets drafts are grounded on: a static
// per-category table, ticket-keyword enrichment, feedback-triggered additions for
// retries, and a semantic index that falls back to the static table.
package knowledge

import (
	"strings"

	"github.com/sweetpotato0/ticket-resolver/ticket"
)

// NoContextSnippet is returned for categories the table does not know.
const NoContextSnippet = "No specific context available for this category."

// FallbackTable holds the static snippets served when no semantic index is available.
var FallbackTable = map[ticket.Category][]string{
	ticket.CategoryBilling: {
		"Payments can be made via credit card, PayPal, or bank transfer.",
		"Failed payments are usually due to expired cards or insufficient funds.",
		"Subscription billing occurs on the same date each month.",
		"Refunds are processed within 5-7 business days for eligible requests.",
		"You can update payment methods in your account settings under 'Billing'.",
	},
	ticket.CategoryTechnical: {
		"Common login issues can be resolved by clearing browser cache or resetting password.",
		"Our system requires JavaScript to be enabled for full functionality.",
		"Mobile app issues may be fixed by updating to the latest version.",
		"API documentation is available at api.ourcompany.com/docs.",
		"System maintenance occurs every Sunday from 2-4 AM UTC.",
	},
	ticket.CategorySecurity: {
		"We use AES-256 encryption for all user data.",
		"Two-factor authentication is available and recommended for all accounts.",
		"Password requirements: minimum 12 characters with uppercase, lowercase, numbers, and symbols.",
		"Suspicious activity should be reported immediately to security@ourcompany.com.",
		"Session timeout is 30 minutes of inactivity for security reasons.",
	},
	ticket.CategoryGeneral: {
		"Our support hours are Monday-Friday 9AM-6PM EST.",
		"For urgent issues, call our support hotline at +1-800-123-4567.",
		"You can find FAQs and tutorials in our help center at help.ourcompany.com.",
		"Enterprise customers have dedicated account managers.",
		"Feature requests can be submitted through our feedback portal.",
	},
}

// ticketKeyword adds snippets when the ticket text mentions keyword and the ticket
// falls in one of the listed categories.
type ticketKeyword struct {
	keyword    string
	categories []ticket.Category
	snippets   []string
}

var ticketKeywords = []ticketKeyword{
	{
		keyword:    "payment",
		categories: []ticket.Category{ticket.CategoryBilling},
		snippets: []string{
			"For payment issues, check if the card expiration date is current.",
			"International payments may require 3D Secure authentication.",
			"Payment failures are logged and can be reviewed in the billing history.",
		},
	},
	{
		keyword:    "login",
		categories: []ticket.Category{ticket.CategoryTechnical, ticket.CategorySecurity},
		snippets: []string{
			"Login attempts are limited to 5 tries per hour for security.",
			"Password reset tokens expire after 1 hour for security reasons.",
			"Check if CAPS LOCK is accidentally enabled when entering password.",
		},
	},
	{
		keyword:    "security",
		categories: []ticket.Category{ticket.CategorySecurity},
		snippets: []string{
			"All login attempts are logged with IP address and timestamp.",
			"Users receive email notifications for new device logins.",
			"Account lockout occurs after 5 failed login attempts.",
		},
	},
}

// Snippets returns a copy of the static snippets for category.
func Snippets(category ticket.Category) []string {
	base, ok := FallbackTable[category]
	if !ok {
		return []string{NoContextSnippet}
	}
	return append([]string(nil), base...)
}

// EnhancedContext returns the static snippets for category followed by any
// ticket-keyword additions. Keywords match case-insensitively in either the
// subject or the description.
func EnhancedContext(category ticket.Category, subject, description string) []string {
	out := Snippets(category)
	subject = strings.ToLower(subject)
	description = strings.ToLower(description)

	for _, kw := range ticketKeywords {
		if !containsCategory(kw.categories, category) {
			continue
		}
		if strings.Contains(subject, kw.keyword) || strings.Contains(description, kw.keyword) {
			out = append(out, kw.snippets...)
		}
	}
	return out
}

func containsCategory(list []ticket.Category, c ticket.Category) bool {
	for _, item := range list {
		if item == c {
			return true
		}
	}
	return false
}
