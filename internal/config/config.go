package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	API         API         `koanf:"api"`
	Credentials Credentials `koanf:"credentials"`
	Export      Export      `koanf:"export"`
}

type API struct {
	BaseURL string `koanf:"baseurl"`
	// MediaBaseURL is the origin against which relative avatar paths
	// returned by the service are resolved.
	MediaBaseURL string        `koanf:"mediabaseurl"`
	Timeout      time.Duration `koanf:"timeout"`
}

type Credentials struct {
	Path string `koanf:"path"`
}

type Export struct {
	Dir string `koanf:"dir"`
}

func defaults() Application {
	return Application{
		API: API{
			BaseURL:      "http://localhost:8000/api",
			MediaBaseURL: "http://0.0.0.0:8000",
			Timeout:      10 * time.Second,
		},
		Credentials: Credentials{
			Path: defaultCredentialsPath(),
		},
		Export: Export{
			Dir: ".",
		},
	}
}

func defaultCredentialsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "finview-credentials.json")
	}
	return filepath.Join(dir, "finview", "credentials.json")
}

func Load(path string) (Application, error) {
	// A .env file in the working directory takes effect before the env
	// provider reads the process environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Debugf("no .env file loaded: %v", err)
	}

	var k = koanf.New(".")

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Debugf("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "FINVIEW_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "FINVIEW_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
