package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	minH3Res = 0
	maxH3Res = 15
)

type CoverCfg struct {
	// MaxCells bounds a single cover; larger covers are coarsened.
	MaxCells  int
	LRUSize   int
	TTL       time.Duration
	Namespace string
}

type Config struct {
	Addr             string
	LogLevel         string
	LogConsole       bool
	LogSampleN       int
	RedisAddr        string
	RedisPoolSize    int
	RedisDialTimeout time.Duration
	RedisReadTimeout time.Duration
	H3Res            int
	H3ResMin         int
	H3ResMax         int
	CacheOpTimeout   time.Duration
	Cover            CoverCfg
}

func FromEnv() Config {
	minRes := clampRes(getint("H3_RES_MIN", minH3Res))
	maxRes := clampRes(getint("H3_RES_MAX", maxH3Res))
	if minRes > maxRes {
		minRes, maxRes = maxRes, minRes
	}
	res := getint("H3_RES", 8)
	res = max(minRes, min(res, maxRes))

	return Config{
		Addr:             getenv("ADDR", ":8090"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		LogConsole:       getbool("LOG_CONSOLE", false),
		LogSampleN:       getint("LOG_SAMPLE_N", 0),
		RedisAddr:        strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPoolSize:    max(1, getint("REDIS_POOL_SIZE", 16)),
		RedisDialTimeout: getduration("REDIS_DIAL_TIMEOUT", 2*time.Second),
		RedisReadTimeout: getduration("REDIS_READ_TIMEOUT", time.Second),
		H3Res:            res,
		H3ResMin:         minRes,
		H3ResMax:         maxRes,
		CacheOpTimeout:   getduration("CACHE_OP_TIMEOUT", 250*time.Millisecond),
		Cover: CoverCfg{
			MaxCells:  max(1, getint("COVER_MAX_CELLS", 4096)),
			LRUSize:   max(1, getint("COVER_LRU_SIZE", 1024)),
			TTL:       getduration("COVER_TTL", 10*time.Minute),
			Namespace: getenv("COVER_NAMESPACE", "geom"),
		},
	}
}

func clampRes(r int) int {
	return max(minH3Res, min(r, maxH3Res))
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil && d >= 0 {
			return d
		}
	}
	return def
}
