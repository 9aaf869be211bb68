package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hyp3rd/sigma"
	"github.com/hyp3rd/sigma/internal/constants"
	"github.com/hyp3rd/sigma/pkg/backend"
	"github.com/hyp3rd/sigma/pkg/backend/redis"
)

const (
	cacheCapacity = 20
	ttl           = time.Minute
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout*2)
	defer cancel()

	redisStore, err := redis.New(
		redis.WithAddr("localhost:6379"),
		redis.WithDB(0),
	)
	if err != nil {
		panic(err)
	}

	conf := sigma.NewConfig(constants.RedisBackend)
	conf.RedisOptions = append(conf.RedisOptions,
		backend.WithRedisClient(redisStore.Client),
		backend.WithCapacity[backend.Redis](cacheCapacity),
		backend.WithTTL(ttl),
	)

	calc, err := sigma.New(ctx, conf)
	if err != nil {
		panic(err)
	}

	defer calc.Stop(ctx)

	for range 3 {
		res, err := calc.Calculate(ctx, "10 20 30 40")
		if err != nil {
			fmt.Fprintln(os.Stderr, sigma.Describe(err).Text)

			return
		}

		fmt.Fprintln(os.Stdout, "σ =", res.FormattedStdDev())
	}

	fmt.Fprintln(os.Stdout, "cached results:", calc.CacheCount(ctx))

	for name, stat := range calc.GetStats() {
		fmt.Fprintf(os.Stdout, "%s: %d\n", name, stat.Count)
	}
}
