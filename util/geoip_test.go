package util

import (
	"path/filepath"
	"testing"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenGeoLocator_EmptyPath(t *testing.T) {
	g, err := OpenGeoLocator("")
	require.NoError(t, err)
	assert.Nil(t, g)
	assert.NoError(t, g.Close())
}

func TestOpenGeoLocator_NonExistentFile(t *testing.T) {
	_, err := OpenGeoLocator(filepath.Join(t.TempDir(), "missing.mmdb"))
	assert.Error(t, err)
}

func TestGeoLocator_NilLocator(t *testing.T) {
	var g *GeoLocator
	city, country := g.Locate("8.8.8.8")
	assert.Empty(t, city)
	assert.Empty(t, country)
}

func TestGeoLocator_SkipsLocalAddresses(t *testing.T) {
	g := &GeoLocator{cache: cache.New(time.Minute, time.Minute)}
	for _, ip := range []string{"", "not-an-ip", "127.0.0.1", "::1", "10.1.2.3", "192.168.0.10", "172.16.5.5", "0.0.0.0"} {
		city, country := g.Locate(ip)
		assert.Empty(t, city, ip)
		assert.Empty(t, country, ip)
	}
}

func TestGeoLocator_UsesCache(t *testing.T) {
	g := &GeoLocator{cache: cache.New(time.Minute, time.Minute)}
	g.cache.Set("203.0.113.7", geoLocation{city: "Pune", country: "India"}, cache.DefaultExpiration)

	city, country := g.Locate("203.0.113.7")
	assert.Equal(t, "Pune", city)
	assert.Equal(t, "India", country)

	// Without a database, uncached addresses stay unresolved.
	city, country = g.Locate("198.51.100.1")
	assert.Empty(t, city)
	assert.Empty(t, country)
}
