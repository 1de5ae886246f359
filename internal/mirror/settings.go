package mirror

import (
	"github.com/01moynul/souq-catalog/internal/models"
)

// Settings returns the site settings. The first read persists the defaults.
func (s *Store) Settings() (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadSettings()
}

func (s *Store) loadSettings() (models.Settings, error) {
	_, ok, err := s.kv.Get(KeySettings)
	if err != nil {
		return models.Settings{}, err
	}
	if !ok {
		def := models.DefaultSettings()
		if err := s.put(KeySettings, def); err != nil {
			return models.Settings{}, err
		}
		return def, nil
	}
	return load(s, KeySettings, models.DefaultSettings())
}

// SaveSettings overwrites the singleton and propagates it.
func (s *Store) SaveSettings(v models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.put(KeySettings, v); err != nil {
		return err
	}
	s.prop.SettingsSaved(v)
	return nil
}

// ApplyRemoteSettings lays a server patch over the current local settings
// and stores the result without propagating it back.
func (s *Store) ApplyRemoteSettings(p models.SettingsPatch) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	base, err := s.loadSettings()
	if err != nil {
		return models.Settings{}, err
	}
	merged := base.Merge(p)
	if err := s.put(KeySettings, merged); err != nil {
		return models.Settings{}, err
	}
	return merged, nil
}
