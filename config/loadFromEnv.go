package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

func LoadConfig_FromEnv() (err error) {
	var envMap = map[string]string{}

	for _, env := range os.Environ() {
		kvs := strings.SplitN(env, "=", 2)
		if len(kvs) == 2 && len(kvs[0]) > 0 && len(kvs[1]) > 0 {
			envMap[kvs[0]] = kvs[1]
		}
	}
	//load redis items, i.g. REDIS_default={"Host":"localhost","Port":6379}
	for key, val := range envMap {
		var rdsCfg = &ConfigRedis{}
		if strings.Index(key, "REDIS") != 0 || len(key) <= 6 || key[5] != '_' {
			continue
		}
		if val = strings.TrimSpace(val); len(val) < 2 || val[0] != '{' || val[len(val)-1] != '}' {
			continue
		}
		if err := json.Unmarshal([]byte(val), rdsCfg); err != nil {
			return fmt.Errorf("load env %s, correct format {Username,Password,Host,Port,DB}: %w", key, err)
		}
		rdsCfg.Name = key[6:]
		Cfg.Redis = upsertRedis(Cfg.Redis, rdsCfg)
	}

	sections := []struct {
		env    string
		target interface{}
	}{
		{"JWT", &Cfg.Jwt},
		{"HTTP", &Cfg.Http},
		{"DATABASE", &Cfg.Database},
		{"LAYOUT", &Cfg.Layout},
		{"RATELIMIT", &Cfg.RateLimit},
	}
	for _, s := range sections {
		if v, ok := envMap[s.env]; ok && len(v) > 0 {
			if err := json.Unmarshal([]byte(v), s.target); err != nil {
				return fmt.Errorf("load env %s: %w", s.env, err)
			}
		}
	}

	if logLevelEnv, ok := envMap["LogLevel"]; ok && len(logLevelEnv) > 0 {
		if logLevel, err := strconv.ParseInt(logLevelEnv, 10, 8); err == nil {
			Cfg.Settings.LogLevel = int8(logLevel)
		}
	}
	return nil
}

func upsertRedis(list []*ConfigRedis, item *ConfigRedis) []*ConfigRedis {
	for i, r := range list {
		if r.Name == item.Name {
			list[i] = item
			return list
		}
	}
	return append(list, item)
}
