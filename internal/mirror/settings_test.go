package mirror

import (
	"testing"

	"github.com/01moynul/souq-catalog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsDefaultsArePersisted(t *testing.T) {
	s, rec := newTestStore(t)

	_, ok, err := s.kv.Get(KeySettings)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.Settings()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), got)

	_, ok, err = s.kv.Get(KeySettings)
	require.NoError(t, err)
	assert.True(t, ok, "first read stores the defaults")
	assert.Empty(t, rec.calls, "defaults are not pushed to the server")
}

func TestSaveSettingsPropagates(t *testing.T) {
	s, rec := newTestStore(t)
	v := models.DefaultSettings()
	v.Header.SiteName = models.L("كتالوج", "Catalog")
	require.NoError(t, s.SaveSettings(v))

	got, err := s.Settings()
	require.NoError(t, err)
	assert.Equal(t, "Catalog", got.Header.SiteName.EN)
	assert.Equal(t, []string{"settings.put"}, rec.calls)
}

func TestApplyRemoteSettingsMergesWithoutPropagating(t *testing.T) {
	s, rec := newTestStore(t)
	name := "Remote"
	hide := false
	merged, err := s.ApplyRemoteSettings(models.SettingsPatch{
		ShowStock: &hide,
		Header: &models.HeaderPatch{
			SiteName: &models.LocalizedPatch{EN: &name},
		},
	})
	require.NoError(t, err)

	def := models.DefaultSettings()
	assert.False(t, merged.ShowStock)
	assert.Equal(t, "Remote", merged.Header.SiteName.EN)
	assert.Equal(t, def.Header.BgColor, merged.Header.BgColor)
	assert.Equal(t, def.WhatsApp, merged.WhatsApp)

	stored, err := s.Settings()
	require.NoError(t, err)
	assert.Equal(t, merged, stored)
	assert.Empty(t, rec.calls)
}
