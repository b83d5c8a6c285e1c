// Package domaininfo builds the display-only domain panel for a submitted
// URL. Host and scheme come from parsing the URL; registrar, country and
// dates are fixed placeholders because no WHOIS or geo lookup is done.
package domaininfo

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"

	"github.com/selimozcann/phishaid/internal/model"
)

// Placeholder values shown in the domain panel.
const (
	PlaceholderCountry          = "Unknown"
	PlaceholderRegistrar        = "WHOIS lookup required"
	PlaceholderRegistrationDate = "Not available in this deployment"
	PlaceholderDomainAge        = "N/A"
)

// Extract parses rawURL. ok is false when the URL cannot be parsed or has no
// host; callers then skip the panel.
func Extract(rawURL string) (info model.DomainInfo, ok bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" {
		return model.DomainInfo{}, false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return model.DomainInfo{}, false
	}

	info = model.DomainInfo{
		Host:             host,
		Scheme:           strings.ToUpper(u.Scheme),
		Internal:         IsInternalHost(host),
		Country:          PlaceholderCountry,
		Registrar:        PlaceholderRegistrar,
		RegistrationDate: PlaceholderRegistrationDate,
		DomainAge:        PlaceholderDomainAge,
	}
	if net.ParseIP(host) != nil {
		return info, true
	}
	if uh, err := idna.ToUnicode(host); err == nil && uh != host {
		info.UnicodeHost = uh
	}
	if etld1, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		info.RegisteredDomain = etld1
	}
	return info, true
}
