package openid

// Provider identifies a configured OpenID identity provider. The
// string value is also what gets stored in user_links.provider.
type Provider string

const (
	ProviderGoogle    Provider = "GOOGLE"
	ProviderMicrosoft Provider = "MICROSOFT"
)

// Providers returns every provider the platform knows about,
// regardless of whether its environment configuration is present.
func Providers() []Provider {
	return []Provider{ProviderGoogle, ProviderMicrosoft}
}

// ParseProvider maps a request value to a known provider.
func ParseProvider(value string) (Provider, bool) {
	switch Provider(value) {
	case ProviderGoogle:
		return ProviderGoogle, true
	case ProviderMicrosoft:
		return ProviderMicrosoft, true
	default:
		return "", false
	}
}

// EnvPrefix is the environment variable prefix carrying this
// provider's issuer URL and client credentials.
func (p Provider) EnvPrefix() string {
	switch p {
	case ProviderGoogle:
		return "GOOGLE_OPENID"
	case ProviderMicrosoft:
		return "MICROSOFT_OPENID"
	default:
		return string(p)
	}
}

func (p Provider) String() string {
	return string(p)
}
