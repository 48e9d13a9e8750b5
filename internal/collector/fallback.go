package collector

import "WhaleSentinel/internal/model"

// FallbackAlerts returns the fixed sample dataset used whenever the data
// source is unavailable. Each call returns a fresh slice.
func FallbackAlerts() []model.RawAlert {
	return []model.RawAlert{
		{
			Ticker:       "TSLA",
			Side:         model.SideCall,
			Strike:       model.NewValue("250"),
			Expiration:   "2025-12-20",
			AveragePrice: model.NewValue("5.12"),
			Premium:      model.NewValue("210000"),
			Volume:       model.NewValue("500"),
			OpenInterest: model.NewValue("200"),
		},
		{
			Ticker:       "NVDA",
			Side:         model.SidePut,
			Strike:       model.NewValue("400"),
			Expiration:   "2025-11-15",
			AveragePrice: model.NewValue("4.80"),
			Premium:      model.NewValue("150000"),
			Volume:       model.NewValue("300"),
			OpenInterest: model.NewValue("150"),
		},
		{
			Ticker:       "AAPL",
			Side:         model.SideCall,
			Strike:       model.NewValue("200"),
			Expiration:   "2025-10-25",
			AveragePrice: model.NewValue("2.10"),
			Premium:      model.NewValue("50000"),
			Volume:       model.NewValue("100"),
			OpenInterest: model.NewValue("200"),
		},
	}
}
