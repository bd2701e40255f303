package config

const (
	defaultDataDir        = "~/.local/share/chsp-mapper"
	defaultLogDir         = "~/.local/share/chsp-mapper/logs"
	defaultReportsDir     = "~/.local/share/chsp-mapper/reports"
	defaultClientRegistry = "~/.config/chsp-mapper/client_registry.json"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"

	defaultHighThreshold   = 0.85
	defaultMediumThreshold = 0.60
	defaultLowThreshold    = 0.40
	defaultNameThreshold   = 0.85
	defaultAddressMinScore = 0.80

	defaultShiftCareBaseURL   = "https://api.shiftcare.com/api/v3"
	defaultShiftCareTimeout   = 30
	defaultShiftCarePageSize  = 20
	defaultShiftCareRateLimit = 2
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:        defaultDataDir,
			LogDir:         defaultLogDir,
			ReportsDir:     defaultReportsDir,
			ClientRegistry: defaultClientRegistry,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Matching: Matching{
			ConfidenceThresholds: ConfidenceThresholds{
				High:   defaultHighThreshold,
				Medium: defaultMediumThreshold,
				Low:    defaultLowThreshold,
			},
			FuzzyMatching: FuzzyMatching{
				NameThreshold: defaultNameThreshold,
			},
			AddressMatching: AddressMatching{
				MinScore: defaultAddressMinScore,
			},
		},
		ShiftCare: ShiftCare{
			BaseURL:          defaultShiftCareBaseURL,
			TimeoutSeconds:   defaultShiftCareTimeout,
			PageSize:         defaultShiftCarePageSize,
			RateLimitSeconds: defaultShiftCareRateLimit,
		},
	}
}
