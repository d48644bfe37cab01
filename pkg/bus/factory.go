package bus

import (
	"fmt"

	"nekocmd/pkg/config"
	"nekocmd/pkg/logger"
)

// BusType names a bus backend as written in the bus.type setting.
type BusType string

const (
	BusTypeLocal BusType = "local"
	BusTypeRedis BusType = "redis"
)

const defaultBufferSize = 100

// NewBus builds the backend selected by the bus section. The redis section
// is only read for the redis backend, whose channel prefix comes from
// bus.prefix.
func NewBus(log *logger.Logger, busCfg config.BusConfig, redisCfg config.RedisConfig) (Bus, error) {
	switch BusType(busCfg.Type) {
	case BusTypeLocal, "":
		size := busCfg.BufferSize
		if size <= 0 {
			size = defaultBufferSize
		}
		return NewLocalBus(log, size), nil

	case BusTypeRedis:
		if redisCfg.Addr == "" {
			return nil, fmt.Errorf("redis.addr is required for the redis bus")
		}
		return NewRedisBus(log, &RedisBusConfig{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
			Prefix:   busCfg.Prefix,
		})

	default:
		return nil, fmt.Errorf("unknown bus type: %s", busCfg.Type)
	}
}
