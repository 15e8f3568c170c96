package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestI18nService_T(t *testing.T) {
	s := NewI18nService()

	assert.Equal(t, "Device Added", s.T("en-US", msgDeviceAdded+".title"))
	assert.Equal(t, "设备已添加", s.T("zh-CN", msgDeviceAdded+".title"))
	assert.Equal(t, "Device Added", s.T("", msgDeviceAdded+".title"))
	assert.Equal(t, "Device Added", s.T("fr-FR", msgDeviceAdded+".title"), "unknown locales fall back")
	assert.Equal(t, "missing.key", s.T("en-US", "missing.key"))
}

func TestI18nService_Tf(t *testing.T) {
	s := NewI18nService()

	assert.Equal(t, "Delivery Van 1 entered Depot.", s.Tf("en-US", msgGeofenceEnter+".desc", "Delivery Van 1", "Depot"))
	assert.True(t, s.Supported("zh-CN"))
	assert.False(t, s.Supported("de-DE"))
}

func TestI18nService_SOSDescriptions(t *testing.T) {
	s := NewI18nService()

	assert.Equal(t, `SOS raised at 34.05000, -118.24000: "flat tire"`, s.Tf("en-US", msgSOS+".desc", 34.05, -118.24, "flat tire"))
	assert.Equal(t, "SOS raised at 34.05000, -118.24000. No message provided.", s.Tf("en-US", msgSOSNoMessage+".desc", 34.05, -118.24))
	for _, lang := range []string{"en-US", "zh-CN"} {
		assert.NotContains(t, s.Tf(lang, msgSOSNoMessage+".desc", 1.0, 2.0), "%!", lang)
		assert.Equal(t, s.T(lang, msgSOS+".title"), s.T(lang, msgSOSNoMessage+".title"), lang)
	}
}
