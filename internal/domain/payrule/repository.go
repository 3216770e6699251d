package payrule

import "context"

// PayRuleRepository is the read-only port over pay rules.
type PayRuleRepository interface {
	// ListPayRules returns rules for userID plus the rules that apply to all users.
	// A nil userID returns every rule.
	ListPayRules(ctx context.Context, userID *string) ([]PayRule, error)
}
