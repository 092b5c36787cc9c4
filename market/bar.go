package market

import "time"

// Bar is one daily OHLCV record for an instrument. Prices are in yuan,
// Volume in shares, Turnover in yuan (0 when the source file has no
// amount column).
type Bar struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
	Turnover float64
}

// Bullish reports whether the bar closed above its open.
func (b Bar) Bullish() bool { return b.Close > b.Open }

// Bearish reports whether the bar closed below its open.
func (b Bar) Bearish() bool { return b.Close < b.Open }

// Body returns the absolute size of the candle body.
func (b Bar) Body() float64 {
	d := b.Close - b.Open
	if d < 0 {
		return -d
	}
	return d
}

// Range returns high minus low.
func (b Bar) Range() float64 { return b.High - b.Low }

// BodyHigh returns the upper edge of the candle body.
func (b Bar) BodyHigh() float64 {
	if b.Open > b.Close {
		return b.Open
	}
	return b.Close
}

// BodyLow returns the lower edge of the candle body.
func (b Bar) BodyLow() float64 {
	if b.Open < b.Close {
		return b.Open
	}
	return b.Close
}
