package models

// RewardSummary reports the perfect-score progress bar.
type RewardSummary struct {
	LifetimeBars   int  `json:"lifetime_bars"`
	RedeemedCycles int  `json:"redeemed_cycles"`
	CurrentBars    int  `json:"current_bars"`
	BarsPerCycle   int  `json:"bars_per_cycle"`
	Claimable      bool `json:"claimable"`
}

// RewardClaim is returned after a successful redemption.
type RewardClaim struct {
	Quote   string        `json:"quote"`
	Summary RewardSummary `json:"summary"`
}
