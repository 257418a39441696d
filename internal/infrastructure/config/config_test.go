package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T, yaml string) *viper.Viper {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	if yaml != "" {
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBufferString(yaml)))
	}
	return v
}

func TestUnmarshal_Defaults(t *testing.T) {
	cfg, err := unmarshal(newViper(t, ""))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, ":3000", cfg.Server.Addr())
	assert.Equal(t, DriverMongo, cfg.Storage.Driver)
	assert.Equal(t, "books", cfg.Mongo.Collection)
	assert.Equal(t, 10*time.Second, cfg.Mongo.Timeout)
	assert.False(t, cfg.MQ.Enabled)
}

func TestUnmarshal_YAMLOverridesDefaults(t *testing.T) {
	cfg, err := unmarshal(newViper(t, `
server:
  port: 8080
  mode: debug
storage:
  driver: mysql
database:
  host: db
  loc: Asia/Shanghai
`))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverMySQL, cfg.Storage.Driver)
	assert.Equal(t, "root:@tcp(db:3306)/bookstore?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai", cfg.Database.DSN())
}

func TestUnmarshal_EnvOverrides(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://mongo:27017/test")
	t.Setenv("PORT", "4000")
	t.Setenv("BOOKSTORE_LOG_LEVEL", "debug")

	cfg, err := unmarshal(newViper(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "mongodb://mongo:27017/test", cfg.Mongo.URI)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"非法端口":    "server:\n  port: 70000\n",
		"非法模式":    "server:\n  mode: prod\n",
		"未知驱动":    "storage:\n  driver: redis\n",
		"缺少Mongo": "mongo:\n  uri: \"\"\n",
		"MQ缺少URL": "mq:\n  enabled: true\n  url: \"\"\n",
	}
	for name, yaml := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := unmarshal(newViper(t, yaml))
			assert.Error(t, err)
		})
	}
}
