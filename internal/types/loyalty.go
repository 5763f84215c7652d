package types

// LoyaltyTransactionType represents the reason a ledger entry was appended
type LoyaltyTransactionType string

const (
	LoyaltyTransactionEarned        LoyaltyTransactionType = "earned"
	LoyaltyTransactionRedeemed      LoyaltyTransactionType = "redeemed"
	LoyaltyTransactionSignupBonus   LoyaltyTransactionType = "signup_bonus"
	LoyaltyTransactionReferralBonus LoyaltyTransactionType = "referral_bonus"
	LoyaltyTransactionAdjustment    LoyaltyTransactionType = "adjustment"
)
