package enrich

type Config struct {
	MaxTokens   int
	Temperature float64

	// Concurrency bounds in-flight requests in EnrichAll.
	Concurrency int
}

func DefaultConfig() Config {
	return Config{
		MaxTokens:   400,
		Temperature: 0.7,
		Concurrency: 4,
	}
}
