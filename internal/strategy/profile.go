package strategy

import (
	"fmt"
	"math"
	"sort"

	"SwingScreener/internal/model"
	"SwingScreener/internal/risk"
)

// Weights maps each sub-score to its share of the composite. Must sum to 1.
type Weights struct {
	Momentum         float64 `yaml:"momentum"`
	RelativeStrength float64 `yaml:"relative_strength"`
	Volume           float64 `yaml:"volume"`
	Setup            float64 `yaml:"setup"`
	Proximity        float64 `yaml:"proximity"`
	Acceleration     float64 `yaml:"acceleration"`
	Quality          float64 `yaml:"quality"`
	ProfitPotential  float64 `yaml:"profit_potential"`
}

// Sum adds up all weights.
func (w Weights) Sum() float64 {
	return w.Momentum + w.RelativeStrength + w.Volume + w.Setup +
		w.Proximity + w.Acceleration + w.Quality + w.ProfitPotential
}

// Validate checks that no weight is negative and that they sum to 1.
func (w Weights) Validate() error {
	for _, v := range []float64{w.Momentum, w.RelativeStrength, w.Volume, w.Setup,
		w.Proximity, w.Acceleration, w.Quality, w.ProfitPotential} {
		if v < 0 {
			return fmt.Errorf("weights must be non-negative, got %v", v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("weights must sum to 1.0, got %.4f", sum)
	}
	return nil
}

// apply returns the weighted sum scaled to 0-200.
func (w Weights) apply(s model.ScoreBreakdown) float64 {
	return (s.Momentum*w.Momentum +
		s.RelativeStrength*w.RelativeStrength +
		s.Volume*w.Volume +
		s.Setup*w.Setup +
		s.Proximity*w.Proximity +
		s.Acceleration*w.Acceleration +
		s.Quality*w.Quality +
		s.ProfitPotential*w.ProfitPotential) * 2
}

// Profile is one complete screening style: weights, level policy and the
// final acceptance thresholds.
type Profile struct {
	Name           string
	Weights        Weights
	Risk           risk.Policy
	MaxLossPct     float64
	MinRiskReward  float64
	EstimateTiming bool
}

// Validate checks the profile is internally consistent.
func (p Profile) Validate() error {
	if err := p.Weights.Validate(); err != nil {
		return fmt.Errorf("profile %s: %w", p.Name, err)
	}
	if p.MaxLossPct <= 0 {
		return fmt.Errorf("profile %s: max loss must be positive", p.Name)
	}
	if p.MinRiskReward <= 0 {
		return fmt.Errorf("profile %s: min risk/reward must be positive", p.Name)
	}
	return nil
}

// Profile names.
const (
	ProfileSwing  = "swing"
	ProfileProfit = "profit"
)

// SwingProfile favours momentum and relative strength with conservative targets.
func SwingProfile() Profile {
	return Profile{
		Name: ProfileSwing,
		Weights: Weights{
			Momentum:         0.25,
			RelativeStrength: 0.20,
			Volume:           0.20,
			Setup:            0.15,
			Proximity:        0.10,
			Acceleration:     0.05,
			Quality:          0.05,
		},
		Risk:          risk.SwingPolicy(),
		MaxLossPct:    12,
		MinRiskReward: 1.5,
	}
}

// ProfitProfile weights profit potential first and demands a better ratio.
func ProfitProfile() Profile {
	return Profile{
		Name: ProfileProfit,
		Weights: Weights{
			ProfitPotential:  0.30,
			Momentum:         0.20,
			RelativeStrength: 0.15,
			Volume:           0.15,
			Setup:            0.10,
			Proximity:        0.05,
			Acceleration:     0.03,
			Quality:          0.02,
		},
		Risk:           risk.ProfitPolicy(),
		MaxLossPct:     10,
		MinRiskReward:  2.0,
		EstimateTiming: true,
	}
}

var profiles = map[string]func() Profile{
	ProfileSwing:  SwingProfile,
	ProfileProfit: ProfitProfile,
}

// ProfileByName looks up a built-in profile.
func ProfileByName(name string) (Profile, error) {
	f, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q (want one of %v)", name, ProfileNames())
	}
	return f(), nil
}

// ProfileNames lists the built-in profiles.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
