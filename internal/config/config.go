// Package config loads the ini run configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"

	"github.com/edp1096/toy-machine/pkg/errs"
	"github.com/edp1096/toy-machine/pkg/lut"
)

// EEC overrides the deck's .temp and .skin cards when a key is present.
type EEC struct {
	SkinEffect *bool
	Tsta       *float64
	Trot       *float64
}

type Loss struct {
	MeshSolution bool
	Parallel     bool
}

type Log struct {
	Level string
	JSON  bool
}

type Server struct {
	Addr string
}

type Store struct {
	Backend string // memory or sqlite
	Path    string
}

type Config struct {
	LUT    lut.Options
	EEC    EEC
	Loss   Loss
	Log    Log
	Server Server
	Store  Store
}

func Default() Config {
	cfg, _ := loadCfg(ini.Empty())
	return cfg
}

// Load reads path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		log.WithField("path", path).Debug("config file not found, using defaults")
		return Default(), nil
	}
	file, err := ini.Load(path)
	if err != nil {
		return Config{}, fmt.Errorf("loading config %s: %v", path, err)
	}
	return loadCfg(file)
}

func Parse(data []byte) (Config, error) {
	file, err := ini.Load(data)
	if err != nil {
		return Config{}, fmt.Errorf("parsing config: %v", err)
	}
	return loadCfg(file)
}

func loadCfg(file *ini.File) (Config, error) {
	def := lut.DefaultOptions()
	lutSec := file.Section("lut")
	eecSec := file.Section("eec")
	lossSec := file.Section("loss")

	cfg := Config{
		Loss: Loss{
			MeshSolution: lossSec.Key("mesh_solution").MustBool(true),
			Parallel:     lossSec.Key("parallel").MustBool(false),
		},
		Log: Log{
			Level: file.Section("log").Key("level").MustString("info"),
			JSON:  file.Section("log").Key("json").MustBool(false),
		},
		Server: Server{
			Addr: file.Section("server").Key("addr").MustString(":8080"),
		},
		Store: Store{
			Backend: strings.ToLower(file.Section("store").Key("backend").MustString("memory")),
			Path:    file.Section("store").Key("path").MustString("toymachine.db"),
		},
	}

	var err error
	cfg.LUT.Interpolation, err = lut.ParseInterpolation(lutSec.Key("interpolation").MustString(def.Interpolation.String()))
	if err != nil {
		return Config{}, err
	}
	cfg.LUT.Extrapolation, err = lut.ParseExtrapolation(lutSec.Key("extrapolation").MustString(def.Extrapolation.String()))
	if err != nil {
		return Config{}, err
	}
	cfg.LUT.Degree = lutSec.Key("degree").MustInt(def.Degree)

	if eecSec.HasKey("skin_effect") {
		v, err := eecSec.Key("skin_effect").Bool()
		if err != nil {
			return Config{}, errs.Configf("[eec] skin_effect: %v", err)
		}
		cfg.EEC.SkinEffect = &v
	}
	for _, k := range []struct {
		name string
		dst  **float64
	}{
		{"tsta", &cfg.EEC.Tsta},
		{"trot", &cfg.EEC.Trot},
	} {
		if !eecSec.HasKey(k.name) {
			continue
		}
		v, err := eecSec.Key(k.name).Float64()
		if err != nil {
			return Config{}, errs.Configf("[eec] %s: %v", k.name, err)
		}
		*k.dst = &v
	}

	switch cfg.Store.Backend {
	case "memory", "sqlite":
	default:
		return Config{}, errs.Configf("[store] unknown backend %q", cfg.Store.Backend)
	}

	return cfg, nil
}

// SetupLogging applies the [log] section to the logrus standard logger.
func (c Config) SetupLogging() error {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return errs.Configf("[log] level: %v", err)
	}
	log.SetLevel(level)
	if c.Log.JSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
