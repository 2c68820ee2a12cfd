package contracts

import "time"

// Strategy is a registry record for a recurring analysis unit
type Strategy struct {
	ID          StrategyID `json:"id"`
	Name        string     `json:"name"`
	Provider    string     `json:"provider"` // openai, gemini, anthropic, screener
	Mode        string     `json:"mode"`     // batch, cli
	TickerCount int        `json:"ticker_count"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
