package util

import (
	"net"
	"time"

	"github.com/oschwald/geoip2-golang"
	cache "github.com/patrickmn/go-cache"
)

// GeoLocator resolves client IPs to a city and country for audit records
// using a local GeoIP2/GeoLite2 database. A nil *GeoLocator resolves nothing.
type GeoLocator struct {
	db    *geoip2.Reader
	cache *cache.Cache
}

type geoLocation struct {
	city    string
	country string
}

// OpenGeoLocator opens the .mmdb file at path. An empty path disables
// lookups and returns a nil locator.
func OpenGeoLocator(path string) (*GeoLocator, error) {
	if path == "" {
		return nil, nil
	}
	r, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}
	// Cache entries for 24h, purge every hour
	return &GeoLocator{db: r, cache: cache.New(24*time.Hour, time.Hour)}, nil
}

func (g *GeoLocator) Close() error {
	if g == nil || g.db == nil {
		return nil
	}
	return g.db.Close()
}

// Locate returns city and country for ip. Private, loopback and unparsable
// addresses resolve to empty strings.
func (g *GeoLocator) Locate(ip string) (city, country string) {
	if g == nil {
		return "", ""
	}
	addr := net.ParseIP(ip)
	if addr == nil || addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() {
		return "", ""
	}

	if g.cache != nil {
		if v, ok := g.cache.Get(ip); ok {
			loc := v.(geoLocation)
			return loc.city, loc.country
		}
	}
	if g.db == nil {
		return "", ""
	}

	rec, err := g.db.City(addr)
	if err != nil {
		return "", ""
	}
	city = rec.City.Names["en"]
	country = rec.Country.Names["en"]
	if country == "" {
		country = rec.Country.IsoCode
	}

	if g.cache != nil {
		g.cache.Set(ip, geoLocation{city: city, country: country}, cache.DefaultExpiration)
	}
	return city, country
}
