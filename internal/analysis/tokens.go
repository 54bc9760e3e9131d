package analysis

import "energy-dashboard/internal/model"

type TokenMetrics struct {
	TotalTokensEarned float64 `json:"totalTokensEarned" cbor:"total_tokens_earned"`
	TotalTokensBurned float64 `json:"totalTokensBurned" cbor:"total_tokens_burned"`
	NetTokenChange    float64 `json:"netTokenChange" cbor:"net_token_change"`
	TokenValueChange  float64 `json:"tokenValueChange" cbor:"token_value_change"`
}

type TokenEconomy struct {
	Timeseries []model.TokenSample `json:"timeseries" cbor:"timeseries"`
	Metrics    TokenMetrics        `json:"metrics" cbor:"metrics"`
}

// ComputeTokenEconomy totals the ledger. Both burn kinds count as burned.
func ComputeTokenEconomy(tokens []model.TokenSample, profile Profile) TokenEconomy {
	m := TokenMetrics{TokenValueChange: profile.TokenValueChange}
	for _, tk := range tokens {
		m.TotalTokensEarned += tk.TokensEarned
		m.TotalTokensBurned += tk.TokensBurned + tk.GridTokensBurned
	}
	m.NetTokenChange = m.TotalTokensEarned - m.TotalTokensBurned
	return TokenEconomy{Timeseries: tokens, Metrics: m}
}
