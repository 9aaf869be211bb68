package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/hyp3rd/sigma"
	"github.com/hyp3rd/sigma/internal/constants"
	"github.com/hyp3rd/sigma/pkg/middleware"
)

func main() {
	var svc sigma.Service

	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
	defer cancel()

	calc, err := sigma.New(ctx, sigma.NewConfig(constants.InMemoryBackend))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		return
	}

	defer calc.Stop(ctx)

	// assign statsCollector of the calculator to use it in middleware
	statsCollector := calc.StatsCollector
	svc = calc

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		return
	}

	defer logger.Sync()

	// apply middleware in the same order as you want to execute them
	svc = sigma.ApplyMiddleware(svc,
		func(next sigma.Service) sigma.Service {
			return middleware.NewLoggingMiddleware(next, logger.Sugar())
		},
		func(next sigma.Service) sigma.Service {
			return middleware.NewStatsCollectorMiddleware(next, statsCollector)
		},
	)

	for _, raw := range []string{"2, 4, 4, 4, 5, 5, 7, 9", "2 4 4 4 5 5 7 9", "1, 2, x, 4"} {
		res, err := svc.Calculate(ctx, raw)
		if err != nil {
			fmt.Fprintln(os.Stderr, sigma.Describe(err).Text)

			continue
		}

		fmt.Fprintln(os.Stdout, res.Report())
	}

	for name, stat := range svc.GetStats() {
		fmt.Fprintf(os.Stdout, "%s: count=%d mean=%.2f\n", name, stat.Count, stat.Mean)
	}
}
