package service

const (
	// HR validation thresholds
	MinValidHeartrate = 50
	MaxValidHeartrate = 220

	// Batch limits
	StreamBatchSize       = 50
	RecentActivitiesLimit = 10

	// ChartPoints caps the efficiency trend series length.
	ChartPoints = 60

	// Seconds per minute for pace calculations
	SecondsPerMinute = 60
)
