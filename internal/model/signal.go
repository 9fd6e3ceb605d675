package model

import "time"

// SetupType labels the technical pattern a candidate exhibits.
type SetupType string

const (
	SetupMomentumPullback     SetupType = "Momentum Pullback"
	SetupBreakoutAnticipation SetupType = "Breakout Anticipation"
	SetupOversoldBounce       SetupType = "Oversold Bounce"
	SetupMixed                SetupType = "Mixed Setup"
)

// ScoreBreakdown holds the bounded sub-scores and the weighted total (0-200).
// Breakout is the older pullback/consolidation score, reported but not weighted.
type ScoreBreakdown struct {
	Momentum         float64 `json:"momentum_score"`
	RelativeStrength float64 `json:"relative_strength_score"`
	Volume           float64 `json:"volume_score"`
	Setup            float64 `json:"setup_score"`
	Proximity        float64 `json:"proximity_score"`
	Acceleration     float64 `json:"acceleration_score"`
	Quality          float64 `json:"quality_score"`
	ProfitPotential  float64 `json:"profit_potential_score"`
	Breakout         float64 `json:"breakout_score"`
	Total            float64 `json:"total_score"`
}

// StopLoss is the protective exit below the current price.
type StopLoss struct {
	Price          float64 `json:"price"`
	LossPercentage float64 `json:"loss_percentage"`
	Method         string  `json:"method"`
}

// TakeProfit is the target exit above the current price.
type TakeProfit struct {
	Price          float64 `json:"price"`
	GainPercentage float64 `json:"gain_percentage"`
	Method         string  `json:"method"`
}

// RiskLevels pairs a stop with a target and their ratio.
type RiskLevels struct {
	StopLoss               StopLoss   `json:"stop_loss"`
	TakeProfit             TakeProfit `json:"take_profit"`
	RiskRewardRatio        string     `json:"risk_reward_ratio"`
	RiskRewardRatioNumeric float64    `json:"risk_reward_ratio_numeric"`
}

// Technical is the indicator snapshot carried on a result.
type Technical struct {
	RSI              float64 `json:"rsi"`
	PullbackPct      float64 `json:"pullback_pct"`
	VolumeSpike      float64 `json:"volume_spike"`
	ATRPct           float64 `json:"atr_pct"`
	RelativeStrength Metric  `json:"relative_strength"`
	ProximityScore   float64 `json:"proximity_score"`
}

// Timing is the expected holding period estimate.
type Timing struct {
	ExpectedDays int     `json:"expected_days"`
	GainPerDay   float64 `json:"gain_per_day"`
}

// AnalysisResult is the per-symbol record emitted to the result sink.
type AnalysisResult struct {
	Symbol       string         `json:"symbol"`
	CompanyName  string         `json:"company_name"`
	Sector       string         `json:"sector"`
	MarketCap    float64        `json:"market_cap"`
	CurrentPrice float64        `json:"current_price"`
	Scores       ScoreBreakdown `json:"scores"`
	Risk         RiskLevels     `json:"risk_management"`
	SetupType    SetupType      `json:"setup_type"`
	EntrySignals []string       `json:"entry_signals"`
	Technical    Technical      `json:"technical"`
	Timing       *Timing        `json:"timing,omitempty"`

	PassesAllFilters bool      `json:"passes_all_filters"`
	RejectReason     string    `json:"reject_reason,omitempty"`
	AnalyzedAt       time.Time `json:"analyzed_at"`
}

// Rejected builds a result that failed a gate.
func Rejected(symbol, reason string) *AnalysisResult {
	return &AnalysisResult{Symbol: symbol, RejectReason: reason, AnalyzedAt: time.Now()}
}
