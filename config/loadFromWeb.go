package config

import (
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/aandrx/portfolio/dlog"
	"github.com/rs/zerolog"
)

var (
	webRefresh = time.Minute
	webMu      sync.Mutex
	webTimer   *time.Timer
	// local is the config after file and env, the web toml is decoded over a copy of it
	local Configuration
)

func webConfigUrl(base *Configuration) string {
	//env first, then the configuration file
	if configUrl := os.Getenv("CONFIG_URL"); configUrl != "" {
		return configUrl
	}
	return base.ConfigUrl
}

// LoadConfig_FromWeb layers the toml at CONFIG_URL over the file and env
// settings. ok is false when no url is set or the fetch failed.
func LoadConfig_FromWeb() (_Cfg Configuration, ok bool) {
	webMu.Lock()
	_Cfg = local
	webMu.Unlock()

	configUrl := webConfigUrl(&_Cfg)
	if !strings.HasPrefix(strings.ToLower(configUrl), "http") {
		return _Cfg, false
	}
	httpClient := &http.Client{Timeout: time.Second * 6}
	resp, err := httpClient.Get(configUrl)
	if err != nil {
		dlog.Error().Err(err).Str("Url", configUrl).Msg("LoadConfig_FromWeb failed")
		return _Cfg, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		dlog.Error().Int("status", resp.StatusCode).Str("Url", configUrl).Msg("LoadConfig_FromWeb failed")
		return _Cfg, false
	}
	//redis clients are connected once at startup, keep the web toml away from them
	redisList := _Cfg.Redis
	_Cfg.Redis = nil
	if _, err = toml.NewDecoder(resp.Body).Decode(&_Cfg); err != nil {
		dlog.Error().Err(err).Str("Url", configUrl).Msg("LoadConfig_FromWeb failed")
		return _Cfg, false
	}
	//keep the url, to prevent url drift, which is hard to trace
	_Cfg.ConfigUrl = configUrl
	_Cfg.Redis = redisList
	normalize(&_Cfg)
	return _Cfg, true
}

// startWebRefresh reloads the web config every webRefresh and publishes it
// through Current. Cfg itself is never written by the refresh.
func startWebRefresh() {
	webMu.Lock()
	defer webMu.Unlock()
	if webTimer != nil {
		webTimer.Stop()
		webTimer = nil
	}
	if !strings.HasPrefix(strings.ToLower(webConfigUrl(&local)), "http") {
		return
	}
	var timer *time.Timer
	timer = time.AfterFunc(webRefresh, func() {
		if cfg, ok := LoadConfig_FromWeb(); ok {
			publish(cfg)
			zerolog.SetGlobalLevel(zerolog.Level(cfg.Settings.LogLevel))
		}
		webMu.Lock()
		defer webMu.Unlock()
		if webTimer == timer {
			timer.Reset(webRefresh)
		}
	})
	webTimer = timer
}

// StopWebRefresh ends the periodic web config reload.
func StopWebRefresh() {
	webMu.Lock()
	defer webMu.Unlock()
	if webTimer != nil {
		webTimer.Stop()
		webTimer = nil
	}
}
