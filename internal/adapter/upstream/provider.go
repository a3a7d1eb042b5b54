package upstream

import "fmt"

// Provider identifies one of the supported upstream rate sources. The set is
// static and known at build time; selection happens once at construction.
type Provider int

const (
	ProviderFrankfurter Provider = iota
	ProviderExchangeRateHost
)

// ParseProvider resolves an operator-supplied name into a Provider.
func ParseProvider(name string) (Provider, error) {
	switch name {
	case "frankfurter":
		return ProviderFrankfurter, nil
	case "exchangerate-host":
		return ProviderExchangeRateHost, nil
	default:
		return 0, fmt.Errorf("unsupported upstream provider %q", name)
	}
}

func (p Provider) String() string {
	switch p {
	case ProviderFrankfurter:
		return "frankfurter"
	case ProviderExchangeRateHost:
		return "exchangerate-host"
	default:
		return "unknown"
	}
}

// DefaultBaseURL returns the provider's public endpoint, used when no base URL
// is configured explicitly.
func (p Provider) DefaultBaseURL() string {
	switch p {
	case ProviderExchangeRateHost:
		return "https://api.exchangerate.host"
	default:
		return "https://api.frankfurter.dev/v1"
	}
}
