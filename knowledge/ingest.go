package knowledge

import (
	"fmt"

	"github.com/sweetpotato0/ticket-resolver/rag/document"
	"github.com/sweetpotato0/ticket-resolver/rag/preprocess"
	"github.com/sweetpotato0/ticket-resolver/ticket"
)

// LoadHTML turns a help-center page into an indexable document.
func LoadHTML(id string, category ticket.Category, html string) (document.Document, error) {
	text, err := preprocess.HTMLToText(html)
	if err != nil {
		return document.Document{}, fmt.Errorf("parse html %s: %w", id, err)
	}
	doc := document.Document{
		ID:       id,
		Title:    preprocess.Title(html),
		Content:  preprocess.Preprocess(text),
		Category: string(category),
		Metadata: map[string]string{"source": "help_center"},
	}
	if err := doc.Validate(); err != nil {
		return document.Document{}, err
	}
	return doc, nil
}

// SampleDocuments is the seed knowledge base: a handful of articles per category.
func SampleDocuments() []document.Document {
	sample := func(id string, category ticket.Category, kind, content string) document.Document {
		return document.Document{
			ID:       id,
			Content:  content,
			Category: string(category),
			Metadata: map[string]string{"type": kind, "source": "internal_knowledge_base"},
		}
	}
	return []document.Document{
		sample("billing_001", ticket.CategoryBilling, "payment_methods",
			"Payments can be made via credit card, PayPal, or bank transfer. All major credit cards are accepted including Visa, MasterCard, and American Express."),
		sample("billing_002", ticket.CategoryBilling, "payment_issues",
			"Failed payments are usually due to expired cards, insufficient funds, or incorrect billing information. Check your card expiration date and ensure sufficient funds are available."),
		sample("billing_003", ticket.CategoryBilling, "subscription",
			"Subscription billing occurs on the same date each month. You can view your billing cycle and next charge date in the account settings under Billing Information."),
		sample("technical_001", ticket.CategoryTechnical, "login_issues",
			"Common login issues can be resolved by clearing browser cache, resetting password, or ensuring JavaScript is enabled. Try using incognito mode to isolate browser issues."),
		sample("technical_002", ticket.CategoryTechnical, "mobile_app",
			"Mobile app issues may be fixed by updating to the latest version from the App Store or Google Play. Ensure your operating system is up to date for compatibility."),
		sample("security_001", ticket.CategorySecurity, "security_practices",
			"We use industry-standard encryption for all user data and recommend enabling two-factor authentication for additional security. Never share passwords or authentication codes with anyone."),
		sample("security_002", ticket.CategorySecurity, "password_policy",
			"Password requirements: minimum 12 characters with uppercase, lowercase, numbers, and symbols. Avoid using easily guessable passwords or personal information."),
		sample("general_001", ticket.CategoryGeneral, "support_hours",
			"Our support hours are Monday-Friday 9AM-6PM EST. For urgent issues outside these hours, please call our emergency support line at +1-800-123-HELP."),
	}
}
