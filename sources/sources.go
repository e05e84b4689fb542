package sources

import (
	"net/url"
	"strings"
)

const UNKNOWN = "unknown"

type platform struct {
	name    string
	domains []string
}

var platforms = []platform{
	{name: "youtube", domains: []string{"youtube.com", "youtu.be", "youtube-nocookie.com"}},
	{name: "twitter", domains: []string{"twitter.com", "x.com"}},
	{name: "instagram", domains: []string{"instagram.com"}},
	{name: "vimeo", domains: []string{"vimeo.com"}},
	{name: "tiktok", domains: []string{"tiktok.com"}},
	{name: "twitch", domains: []string{"twitch.tv"}},
	{name: "reddit", domains: []string{"reddit.com", "redd.it"}},
}

// Detect classifies rawURL by its host. A host matches a domain when it
// equals it or is a subdomain of it, so "box.com" is not "x.com".
func Detect(rawURL string) string {
	host := hostOf(rawURL)
	if host == "" {
		return UNKNOWN
	}
	for _, p := range platforms {
		for _, d := range p.domains {
			if host == d || strings.HasSuffix(host, "."+d) {
				return p.name
			}
		}
	}
	return UNKNOWN
}

func Known() []string {
	names := make([]string, 0, len(platforms))
	for _, p := range platforms {
		names = append(names, p.name)
	}
	return names
}

func hostOf(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
}
