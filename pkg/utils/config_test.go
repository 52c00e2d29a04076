package utils

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("with nil values", func(t *testing.T) {
		config := NewConfig(nil)
		require.NotNil(t, config)
		assert.False(t, config.Has("anything"))
	})

	t.Run("copies values", func(t *testing.T) {
		values := map[string]string{"API_PORT": "9000"}
		config := NewConfig(values)

		values["API_PORT"] = "modified"
		assert.Equal(t, "9000", config.Get("API_PORT"))
	})
}

func TestNewConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, ".env.first")
	second := filepath.Join(dir, ".env.second")

	require.NoError(t, os.WriteFile(first, []byte("CHATBOT_TEST_A=first\n"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("CHATBOT_TEST_A=second\nCHATBOT_TEST_B=second\n"), 0644))

	config := NewConfigFromEnv(first, second, filepath.Join(dir, "missing.env"))

	assert.Equal(t, "first", config.Get("CHATBOT_TEST_A"))
	assert.Equal(t, "second", config.Get("CHATBOT_TEST_B"))
}

func TestNewConfigFromEnv_ProcessEnvWins(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("CHATBOT_TEST_C=file\n"), 0644))
	t.Setenv("CHATBOT_TEST_C", "process")

	config := NewConfigFromEnv(file)
	assert.Equal(t, "process", config.Get("CHATBOT_TEST_C"))
}

func TestConfigGetWithDefault(t *testing.T) {
	config := NewConfig(map[string]string{
		"existing": "value",
		"empty":    "",
	})

	assert.Equal(t, "value", config.GetWithDefault("existing", "default"))
	assert.Equal(t, "default", config.GetWithDefault("missing", "default"))
	assert.Equal(t, "default", config.GetWithDefault("empty", "default"))
}

func TestConfigGetBoolWithDefault(t *testing.T) {
	config := NewConfig(map[string]string{
		"true_bool":  "true",
		"yes":        "YES",
		"off":        "off",
		"invalid":    "maybe",
		"empty":      "",
		"enabled":    "enabled",
		"disabled_0": "0",
	})

	tests := []struct {
		key          string
		defaultValue bool
		expected     bool
	}{
		{"true_bool", false, true},
		{"yes", false, true},
		{"off", true, false},
		{"invalid", true, true},
		{"empty", true, true},
		{"missing", false, false},
		{"enabled", false, true},
		{"disabled_0", true, false},
	}

	for _, test := range tests {
		t.Run(test.key, func(t *testing.T) {
			assert.Equal(t, test.expected, config.GetBoolWithDefault(test.key, test.defaultValue))
		})
	}
}

func TestConfigNumbers(t *testing.T) {
	config := NewConfig(map[string]string{
		"int":       "42",
		"negative":  "-3",
		"float":     "0.75",
		"bad":       "abc",
		"minutes":   "15",
		"minutes_0": "0",
	})

	assert.Equal(t, 42, config.GetIntWithDefault("int", 1))
	assert.Equal(t, -3, config.GetIntWithDefault("negative", 1))
	assert.Equal(t, 7, config.GetIntWithDefault("bad", 7))
	assert.Equal(t, 7, config.GetIntWithDefault("missing", 7))

	assert.InDelta(t, 0.75, config.GetFloatWithDefault("float", 1), 1e-9)
	assert.InDelta(t, 42.0, config.GetFloatWithDefault("int", 1), 1e-9)
	assert.InDelta(t, 1.5, config.GetFloatWithDefault("bad", 1.5), 1e-9)

	assert.Equal(t, 15*time.Minute, config.GetMinutesWithDefault("minutes", time.Hour))
	assert.Equal(t, time.Duration(0), config.GetMinutesWithDefault("minutes_0", time.Hour))
	assert.Equal(t, time.Hour, config.GetMinutesWithDefault("missing", time.Hour))
	assert.Equal(t, time.Hour, config.GetMinutesWithDefault("negative", time.Hour))
}

func TestConfigGetList(t *testing.T) {
	config := NewConfig(map[string]string{
		"origins": "http://a.test, http://b.test,,",
	})

	assert.Equal(t, []string{"http://a.test", "http://b.test"}, config.GetList("origins"))
	assert.Equal(t, []string{"*"}, config.GetList("missing", "*"))
	assert.Nil(t, config.GetList("missing"))
}

func TestConfigSetAndHas(t *testing.T) {
	config := NewConfig(map[string]string{"key1": "value1", "blank": ""})

	assert.True(t, config.Has("key1"))
	assert.False(t, config.Has("blank"))
	assert.False(t, config.Has("missing"))

	config.Set("missing", "now set")
	assert.True(t, config.Has("missing"))
	assert.Equal(t, "now set", config.Get("missing"))

	config.Set("key1", "")
	assert.False(t, config.Has("key1"))
	assert.Equal(t, "fallback", config.GetWithDefault("key1", "fallback"))
}

func TestConfigThreadSafety(t *testing.T) {
	config := NewConfig(map[string]string{"counter": "0"})

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for range 100 {
				config.Set("key", "value")
				config.Get("key")
				config.GetIntWithDefault("counter", 0)
				config.GetBoolWithDefault("counter", false)
				config.Has("key")
			}
		}(i)
	}
	wg.Wait()
}

func TestEnvFile(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	assert.Equal(t, ".env", EnvFile())

	t.Setenv("ENV_FILE", ".env.test")
	assert.Equal(t, ".env.test", EnvFile())
}
