package service

import (
	"strconv"

	"github.com/smitenet/smite-panel/config"
	"github.com/smitenet/smite-panel/database"
	"github.com/smitenet/smite-panel/database/model"
	"github.com/smitenet/smite-panel/util"
	"github.com/smitenet/smite-panel/util/common"
)

var defaultSettings = map[string]string{
	"panelHost":     "",
	"webListen":     "",
	"webPort":       "8000",
	"sessionMaxAge": "60",
	"secret":        util.RandomLowerAndNum(32),
}

type SettingService struct{}

func (s *SettingService) GetAllSetting() (map[string]string, error) {
	db := database.GetDB()
	var settings []model.Setting
	err := db.Find(&settings).Error
	if err != nil {
		return nil, err
	}
	all := map[string]string{}
	for k, v := range defaultSettings {
		all[k] = v
	}
	for _, setting := range settings {
		all[setting.Key] = setting.Value
	}
	return all, nil
}

func (s *SettingService) getSetting(key string) (string, error) {
	db := database.GetDB()
	setting := &model.Setting{}
	err := db.Model(model.Setting{}).Where("key = ?", key).First(setting).Error
	if err != nil {
		if database.IsNotFound(err) {
			if value, ok := defaultSettings[key]; ok {
				return value, nil
			}
		}
		return "", err
	}
	return setting.Value, nil
}

func (s *SettingService) saveSetting(key string, value string) error {
	db := database.GetDB()
	var setting model.Setting
	err := db.Model(model.Setting{}).Where("key = ?", key).First(&setting).Error
	if database.IsNotFound(err) {
		return db.Create(&model.Setting{Key: key, Value: value}).Error
	} else if err != nil {
		return err
	}
	setting.Value = value
	return db.Save(&setting).Error
}

func (s *SettingService) getString(key string) string {
	value, err := s.getSetting(key)
	if err != nil {
		return defaultSettings[key]
	}
	return value
}

func (s *SettingService) getInt(key string) int {
	value, err := strconv.Atoi(s.getString(key))
	if err != nil {
		value, _ = strconv.Atoi(defaultSettings[key])
	}
	return value
}

// GetPanelHost returns the externally reachable hostname clients use to
// dial back to this panel. Empty until the operator sets it.
func (s *SettingService) GetPanelHost() string {
	return s.getString("panelHost")
}

func (s *SettingService) SetPanelHost(host string) error {
	return s.saveSetting("panelHost", host)
}

func (s *SettingService) GetListen() string {
	if listen := config.GetEnvListen(); listen != "" {
		return listen
	}
	return s.getString("webListen")
}

func (s *SettingService) GetPort() int {
	if port := config.GetEnvWebPort(); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return s.getInt("webPort")
}

func (s *SettingService) GetSessionMaxAge() int {
	return s.getInt("sessionMaxAge")
}

// GetSecret returns the cookie-signing secret, generating and persisting
// one on first use.
func (s *SettingService) GetSecret() string {
	secret, err := s.getSetting("secret")
	if err == nil && secret != "" {
		return secret
	}
	secret = defaultSettings["secret"]
	if err := s.saveSetting("secret", secret); err != nil {
		return secret
	}
	return secret
}

func (s *SettingService) Update(changes map[string]string) error {
	for key, value := range changes {
		if _, ok := defaultSettings[key]; !ok {
			return common.NewErrorf("unknown setting: %s", key)
		}
		if err := s.saveSetting(key, value); err != nil {
			return err
		}
	}
	return nil
}
