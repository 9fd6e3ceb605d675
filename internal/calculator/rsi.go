package calculator

// CalculateRSI computes RSI over the last period close-to-close changes,
// averaging gains and losses with a simple rolling mean.
// Returns 50 when there is no movement at all and 100 when nothing fell.
func CalculateRSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, ErrInvalidPeriod
	}
	if len(closes) < period+1 {
		return 50.0, ErrInsufficientData
	}

	gains := make([]float64, len(closes)-1)
	losses := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i-1] = change
		} else {
			losses[i-1] = -change
		}
	}

	avgGain, err := CalculateSMA(gains, period)
	if err != nil {
		return 50.0, err
	}
	avgLoss, err := CalculateSMA(losses, period)
	if err != nil {
		return 50.0, err
	}

	switch {
	case avgGain == 0 && avgLoss == 0:
		return 50.0, nil
	case avgLoss == 0:
		return 100.0, nil
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), nil
}
