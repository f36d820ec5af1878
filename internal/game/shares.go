package game

import "math"

// BaseSharePrice is the price of a 1% stake for an average company.
const BaseSharePrice = 10_000.0

func (s *State) fairSharePrice() float64 {
	cashHealth := clamp(1+s.Company.Cash/500_000, 0.5, 2)
	score := 0.5 + s.GeneralScore()/1000
	satisfaction := 0.5 + s.Market.Satisfaction/100
	productivity := 0.5 + math.Min(s.Productivity(), 5)/5
	return BaseSharePrice * cashHealth * score * satisfaction * productivity
}

// UpdateSharePrice recomputes the price with ±2% jitter. When record is set
// the new price is appended to the bounded history.
func (s *State) UpdateSharePrice(r Rand, record bool) float64 {
	price := s.fairSharePrice() * (1 + jitter(r, 0.02))
	price = math.Max(1, math.Round(price*100)/100)
	s.Company.SharePrice = price
	if record {
		s.Company.SharePriceHistory = append(s.Company.SharePriceHistory, price)
		if n := len(s.Company.SharePriceHistory); n > SharePriceHistory {
			s.Company.SharePriceHistory = append([]float64(nil), s.Company.SharePriceHistory[n-SharePriceHistory:]...)
		}
	}
	return price
}
