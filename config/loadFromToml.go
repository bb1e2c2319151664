package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/aandrx/portfolio/dlog"
)

// DefaultConfigFile is config.toml in the same dir as the binary.
func DefaultConfigFile() string {
	exe, err := os.Executable()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(filepath.Dir(exe), "config.toml")
}

// step1: load config from file
func LoadConfig_FromFile(tomlFile string) error {
	if tomlFile == "" {
		tomlFile = DefaultConfigFile()
	}
	_, err := toml.DecodeFile(tomlFile, &Cfg)
	if err == nil {
		dlog.Info().Str("filename", tomlFile).Msg("LoadConfigFromFile success")
		return nil
	}
	//file exists but with bad format
	if !errors.Is(err, fs.ErrNotExist) {
		dlog.Error().Err(err).Str("filename", tomlFile).Msg("LoadConfigFromFile failed, see example format in config.demo.toml")
		return err
	}
	writeDemoConfig(filepath.Join(filepath.Dir(tomlFile), "config.demo.toml"))
	return nil
}

func writeDemoConfig(demoConfigFile string) {
	demo := Default()
	demo.Redis = append(demo.Redis, &ConfigRedis{Name: "default", Host: "localhost", Port: 6379, DB: 0})
	demo.Jwt.Secret = "change-me"

	writer, err := os.OpenFile(demoConfigFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		dlog.Warn().Err(err).Str("filename", demoConfigFile).Msg("save demo toml config file failed")
		return
	}
	defer writer.Close()
	if err := toml.NewEncoder(writer).Encode(demo); err != nil {
		dlog.Error().Err(err).Str("filename", demoConfigFile).Msg("toml Encode demo toml config file failed")
	}
}
