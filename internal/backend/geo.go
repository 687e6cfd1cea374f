package backend

import (
	"net"
	"strings"

	"github.com/enescakir/emoji"
)

const (
	defaultCountry     = "Unknown"
	defaultCountryCode = "XX"
)

var defaultFlag = emoji.GlobeShowingEuropeAfrica.String()

// countryFlag resolves the flag for a two-letter code, falling back to a globe.
func countryFlag(code string) string {
	if len(code) != 2 || strings.EqualFold(code, defaultCountryCode) {
		return defaultFlag
	}
	flag, err := emoji.CountryFlag(code)
	if err != nil {
		return defaultFlag
	}
	return flag.String()
}

func medal(rank int) string {
	switch rank {
	case 1:
		return emoji.FirstPlaceMedal.String()
	case 2:
		return emoji.SecondPlaceMedal.String()
	case 3:
		return emoji.ThirdPlaceMedal.String()
	}
	return ""
}

// MaskIP keeps the leading half of an address for display.
func MaskIP(addr string) string {
	ip := net.ParseIP(strings.TrimSpace(addr))
	if ip == nil {
		return "unknown"
	}
	if v4 := ip.To4(); v4 != nil {
		parts := strings.Split(v4.String(), ".")
		return parts[0] + "." + parts[1] + ".*.*"
	}
	groups := strings.Split(ip.String(), ":")
	if len(groups) < 2 {
		return "unknown"
	}
	return groups[0] + ":" + groups[1] + ":*"
}
