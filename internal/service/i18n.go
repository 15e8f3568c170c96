package service

import (
	"fmt"
)

// DefaultLang is the locale new accounts start with.
const DefaultLang = "en-US"

// Notification message keys. Each has a ".title" and a ".desc" entry.
const (
	msgDeviceAdded   = "notification.device_added"
	msgDeviceOnline  = "notification.online"
	msgDeviceOffline = "notification.offline"
	msgGeofenceEnter = "notification.geofence_enter"
	msgGeofenceExit  = "notification.geofence_exit"
	msgSOS           = "notification.sos"
	msgSOSNoMessage  = "notification.sos_no_message"
)

// I18nService translates the server-generated notification texts.
type I18nService struct {
	translations map[string]map[string]string // lang -> key -> value
	defaultLang  string
}

// NewI18nService creates the catalog
func NewI18nService() *I18nService {
	s := &I18nService{
		translations: make(map[string]map[string]string),
		defaultLang:  DefaultLang,
	}
	s.loadTranslations()
	return s
}

func (s *I18nService) loadTranslations() {
	s.translations["en-US"] = map[string]string{
		msgDeviceAdded + ".title":   "Device Added",
		msgDeviceAdded + ".desc":    "%s has been added to your fleet.",
		msgDeviceOnline + ".title":  "Device Online",
		msgDeviceOnline + ".desc":   "%s is reporting again.",
		msgDeviceOffline + ".title": "Device Offline",
		msgDeviceOffline + ".desc":  "%s has not reported since %s.",
		msgGeofenceEnter + ".title": "Geofence Entered",
		msgGeofenceEnter + ".desc":  "%s entered %s.",
		msgGeofenceExit + ".title":  "Geofence Exited",
		msgGeofenceExit + ".desc":   "%s left %s.",
		msgSOS + ".title":           "SOS Alert Triggered!",
		msgSOS + ".desc":            "SOS raised at %.5f, %.5f: \"%s\"",
		msgSOSNoMessage + ".title":  "SOS Alert Triggered!",
		msgSOSNoMessage + ".desc":   "SOS raised at %.5f, %.5f. No message provided.",
	}

	s.translations["zh-CN"] = map[string]string{
		msgDeviceAdded + ".title":   "设备已添加",
		msgDeviceAdded + ".desc":    "%s 已加入车队。",
		msgDeviceOnline + ".title":  "设备上线",
		msgDeviceOnline + ".desc":   "%s 已恢复上报。",
		msgDeviceOffline + ".title": "设备离线",
		msgDeviceOffline + ".desc":  "%s 自 %s 起未上报。",
		msgGeofenceEnter + ".title": "进入围栏",
		msgGeofenceEnter + ".desc":  "%s 进入了 %s。",
		msgGeofenceExit + ".title":  "离开围栏",
		msgGeofenceExit + ".desc":   "%s 离开了 %s。",
		msgSOS + ".title":           "SOS 紧急求助！",
		msgSOS + ".desc":            "在 %.5f, %.5f 触发 SOS：“%s”",
		msgSOSNoMessage + ".title":  "SOS 紧急求助！",
		msgSOSNoMessage + ".desc":   "在 %.5f, %.5f 触发 SOS。未提供留言。",
	}
}

// T translates key, falling back to the default language and then to the key itself.
func (s *I18nService) T(lang, key string) string {
	if lang == "" {
		lang = s.defaultLang
	}

	if trans, ok := s.translations[lang]; ok {
		if val, ok := trans[key]; ok {
			return val
		}
	}

	if trans, ok := s.translations[s.defaultLang]; ok {
		if val, ok := trans[key]; ok {
			return val
		}
	}

	return key
}

// Tf translates key and formats it with args.
func (s *I18nService) Tf(lang, key string, args ...interface{}) string {
	return fmt.Sprintf(s.T(lang, key), args...)
}

// Supported reports whether lang has a catalog.
func (s *I18nService) Supported(lang string) bool {
	_, ok := s.translations[lang]
	return ok
}
