package core

// Environment selects runtime behaviour (log level, error verbosity).
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

func (e Environment) String() string {
	return string(e)
}

// IsProduction reports whether the service runs with production settings.
func (e Environment) IsProduction() bool {
	return e == Production
}

// ParseEnvironment normalises a raw value into a known environment.
// Unknown values fall back to Development so a misconfigured deploy
// still starts with verbose logging.
func ParseEnvironment(v string) Environment {
	switch Environment(v) {
	case Production:
		return Production
	case Staging:
		return Staging
	default:
		return Development
	}
}
