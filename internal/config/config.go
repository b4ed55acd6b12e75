package config

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-ap/errors"
	"github.com/ilyakaznacheev/cleanenv"

	"git.sr.ht/~mariusor/hackcal/auth"
)

// DefaultFile is looked up in the data path when no file is passed.
const DefaultFile = "config.yaml"

type Server struct {
	Host    string `yaml:"host" env:"HACKCAL_HOST" env-default:"localhost"`
	Port    int    `yaml:"port" env:"HACKCAL_PORT" env-default:"9999"`
	BaseURL string `yaml:"base_url" env:"HACKCAL_BASE_URL"`
}

type Credentials struct {
	Username string `yaml:"username" env:"HACKCAL_USERNAME" env-default:"hacker"`
	Password string `yaml:"password" env:"HACKCAL_PASSWORD" env-default:"htn2025"`
}

type Config struct {
	URLs    []string      `yaml:"urls" env:"HACKCAL_URLS" env-default:"https://api.hackthenorth.com/v3/events"`
	Path    string        `yaml:"path" env:"HACKCAL_PATH"`
	Timeout time.Duration `yaml:"timeout" env:"HACKCAL_TIMEOUT" env-default:"10s"`
	Server  Server        `yaml:"server"`
	Auth    Credentials   `yaml:"auth"`
}

func (c Config) Credentials() auth.Credentials {
	return auth.Credentials{Username: c.Auth.Username, Password: c.Auth.Password}
}

func (c Config) Listen() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Load reads the configuration from file, when it is not empty, and then
// from the environment. Environment values override the file.
func Load(file string) (Config, error) {
	conf := Config{}
	if file == "" {
		if err := cleanenv.ReadEnv(&conf); err != nil {
			return conf, errors.Annotatef(err, "unable to read configuration from environment")
		}
		return conf, nil
	}
	if err := cleanenv.ReadConfig(file, &conf); err != nil {
		return conf, errors.Annotatef(err, "unable to read configuration from %s", file)
	}
	return conf, nil
}

// Find returns the configuration file to use: file when set, otherwise the
// default one in dataPath if it exists.
func Find(file, dataPath string) string {
	if file != "" {
		return file
	}
	def := filepath.Join(dataPath, DefaultFile)
	if fi, err := os.Stat(def); err == nil && !fi.IsDir() {
		return def
	}
	return ""
}
