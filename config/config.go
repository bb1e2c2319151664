package config

import (
	"bytes"
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aandrx/portfolio/dlog"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type ConfigHttp struct {
	CORES string
	Port  int64
	//PublicDir holds the site images served under /, empty to disable
	PublicDir string
	//MaxBufferSize is the max size of a request body in bytes, default 1M
	MaxBufferSize int64
	//RequestTimeout in seconds
	RequestTimeout int64
	//TrustProxy keys the form rate limit on X-Forwarded-For / X-Real-Ip
	//instead of the connection address. Enable only behind a proxy that sets them
	TrustProxy bool
}
type ConfigRedis struct {
	Name     string
	Username string
	Password string
	Host     string
	Port     int64
	DB       int64
}
type ConfigDatabase struct {
	//Driver is the database/sql driver name, "sqlite" for modernc
	Driver string
	DSN    string
}
type ConfigJWT struct {
	Secret string
	//Fields lists the claims copied into api params, "*" for all
	Fields string
}
type ConfigLayout struct {
	ViewportHeight int
	ColumnWidth    float64
	ColumnGap      float64
}
type ConfigRateLimit struct {
	//PerMinute is the max form posts per ip per minute, 0 to disable
	PerMinute int64
}
type ConfigSettings struct {
	//{"DebugLevel": 0,"InfoLevel": 1,"WarnLevel": 2,"ErrorLevel": 3,"FatalLevel": 4,"PanicLevel": 5,"NoLevel": 6,"Disabled": 7	  }
	LogLevel   int8
	LogToRedis bool
}

type Configuration struct {
	ConfigUrl string
	Redis     []*ConfigRedis
	Database  ConfigDatabase
	Jwt       ConfigJWT
	Http      ConfigHttp
	Layout    ConfigLayout
	RateLimit ConfigRateLimit
	Settings  ConfigSettings
}

func hideCharsButLast4(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

func (c Configuration) String() string {
	var (
		c1  Configuration
		buf bytes.Buffer
	)
	//use gob to deep copy, to prevent modification of the original secret
	if err := gob.NewEncoder(&buf).Encode(c); err != nil {
		return "error: " + err.Error() + " when encoding config to gob string"
	}
	gob.NewDecoder(&buf).Decode(&c1)
	c1.Jwt.Secret = hideCharsButLast4(c1.Jwt.Secret)
	for _, rds := range c1.Redis {
		rds.Password = hideCharsButLast4(rds.Password)
	}
	jsonstr, _ := json.Marshal(c1)
	return string(jsonstr)
}

func Default() Configuration {
	return Configuration{
		ConfigUrl: "",
		Redis:     []*ConfigRedis{},
		Database:  ConfigDatabase{Driver: "sqlite", DSN: "portfolio.db"},
		Jwt:       ConfigJWT{Secret: "", Fields: "*"},
		Http:      ConfigHttp{CORES: "*", Port: 80, PublicDir: "public", MaxBufferSize: 1 << 20, RequestTimeout: 120},
		Layout:    ConfigLayout{ViewportHeight: 900, ColumnWidth: 200, ColumnGap: 40},
		RateLimit: ConfigRateLimit{PerMinute: 5},
		Settings:  ConfigSettings{LogLevel: 1},
	}
}

// set default values
var Cfg Configuration = Default()

// current is the published config, swapped whole when the web config refreshes
var current atomic.Pointer[Configuration]

// Current is the latest loaded config. Request handlers read it instead of Cfg,
// which is only written while loading.
func Current() *Configuration {
	if c := current.Load(); c != nil {
		return c
	}
	return &Cfg
}

func publish(c Configuration) {
	current.Store(&c)
}

func normalize(c *Configuration) {
	if c.Jwt.Fields != "" {
		c.Jwt.Fields = strings.ToLower(c.Jwt.Fields)
	}
}

var (
	rds   = map[string]*redis.Client{}
	rdsMu sync.RWMutex
)

func GetRdsClientByName(name string) (rc *redis.Client, err error) {
	var ok bool
	rdsMu.RLock()
	defer rdsMu.RUnlock()
	if rc, ok = rds[name]; !ok {
		return nil, fmt.Errorf("redis client with name %s not defined in environment", name)
	}
	return rc, nil
}

// SetRdsClient registers a client under name, replacing any previous one.
func SetRdsClient(name string, rc *redis.Client) {
	rdsMu.Lock()
	defer rdsMu.Unlock()
	rds[name] = rc
}

// Load applies config file, env and web config in that order, then connects redis.
// The web config keeps refreshing until StopWebRefresh.
func Load(ctx context.Context, tomlFile string) error {
	StopWebRefresh()
	dlog.Info().Msg("Step1.0: App Start! load config")
	if err := LoadConfig_FromFile(tomlFile); err != nil {
		return err
	}
	dlog.Info().Str("Step1.1.1 Current config after apply config.toml", Cfg.String()).Send()
	if err := LoadConfig_FromEnv(); err != nil {
		return err
	}
	dlog.Info().Str("Step1.1.2 Current config after apply enviroment json", Cfg.String()).Send()
	normalize(&Cfg)
	webMu.Lock()
	local = Cfg
	webMu.Unlock()
	//web config overwrites local config
	if web, ok := LoadConfig_FromWeb(); ok {
		Cfg = web
		dlog.Info().Str("Step1.1.3 Current config after apply web config toml", Cfg.String()).Send()
	}
	publish(Cfg)
	startWebRefresh()

	zerolog.SetGlobalLevel(zerolog.Level(Cfg.Settings.LogLevel))
	if err := ConnectRedis(ctx); err != nil {
		return err
	}
	if rc, err := GetRdsClientByName("default"); err == nil && Cfg.Settings.LogToRedis {
		dlog.RdsClientToLog = rc
	}
	dlog.Info().Msg("Step1.E: App loaded done")
	return nil
}

func ConnectRedis(ctx context.Context) error {
	dlog.Info().Str("Step1.2 Checking Redis", "Start").Send()
	for _, rdsCfg := range Cfg.Redis {
		redisOption := &redis.Options{
			Addr:         rdsCfg.Host + ":" + strconv.Itoa(int(rdsCfg.Port)),
			Username:     rdsCfg.Username,
			Password:     rdsCfg.Password,
			DB:           int(rdsCfg.DB),
			PoolSize:     50,
			DialTimeout:  time.Second * 10,
			ReadTimeout:  time.Second * 5,
			WriteTimeout: time.Second * 5,
		}
		rdsClient := redis.NewClient(redisOption)
		if _, err := rdsClient.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("redis %s ping %s: %w", rdsCfg.Name, rdsCfg.Host, err)
		}
		dlog.Info().Str("Step1.3 Redis Load ", "Success").Any("RedisName", rdsCfg.Name).Any("RedisHost", rdsCfg.Host).Any("RedisPort", rdsCfg.Port).Send()
		SetRdsClient(rdsCfg.Name, rdsClient)
	}
	if _, err := GetRdsClientByName("default"); err != nil {
		dlog.Warn().Msg("Step1.2 \"default\" redis server missing in Configuration. rate limit and count cache are disabled")
	}
	return nil
}
