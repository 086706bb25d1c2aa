package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAllowOriginValueWildcard(t *testing.T) {
	c := DefaultCORSConfig()
	assert.Equal(t, "*", c.GetAllowOriginValue("https://example.com"))
}

func TestGetAllowOriginValueWildcardWithCredentials(t *testing.T) {
	c := DefaultCORSConfig()
	c.AllowCredentials = true
	assert.Equal(t, "https://example.com", c.GetAllowOriginValue("https://example.com"))
	assert.Equal(t, "", c.GetAllowOriginValue(""))
}

func TestGetAllowOriginValueExplicitList(t *testing.T) {
	c := &CORSConfig{Enabled: true, AllowOrigins: []string{"https://a.example"}}
	assert.Equal(t, "https://a.example", c.GetAllowOriginValue("https://a.example"))
	assert.Equal(t, "", c.GetAllowOriginValue("https://b.example"))
}

func TestGetAllowOriginValueDisabled(t *testing.T) {
	c := &CORSConfig{Enabled: false, AllowOrigins: []string{"*"}}
	assert.Equal(t, "", c.GetAllowOriginValue("https://a.example"))
}

func TestGetAllowOriginValueNilConfig(t *testing.T) {
	var c *CORSConfig
	assert.Equal(t, "", c.GetAllowOriginValue("https://a.example"))
}
