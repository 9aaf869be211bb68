package main

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/hyp3rd/sigma"
	"github.com/hyp3rd/sigma/internal/constants"
	"github.com/hyp3rd/sigma/pkg/middleware"
)

// This example shows how to wrap the calculator with OpenTelemetry middleware.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
	defer cancel()

	calc, err := sigma.NewDefault(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		return
	}

	// Build a service from the calculator to apply middleware.
	svc := sigma.Service(calc)

	// Use noop providers for a minimal example. Replace with real SDK providers in production.
	meter := noop.NewMeterProvider().Meter("sigma/examples")
	tracer := tracenoop.NewTracerProvider().Tracer("sigma/examples")

	svc = sigma.ApplyMiddleware(svc,
		func(next sigma.Service) sigma.Service {
			return middleware.NewOTelTracingMiddleware(next, tracer, middleware.WithCommonAttributes(
				attribute.String("component", "sigma"),
			))
		},
		func(next sigma.Service) sigma.Service {
			mw, _ := middleware.NewOTelMetricsMiddleware(next, meter)

			return mw
		},
	)
	defer svc.Stop(ctx)

	res, err := svc.Calculate(ctx, "1 2 3 4")
	if err != nil {
		fmt.Fprintln(os.Stderr, sigma.Describe(err).Text)

		return
	}

	fmt.Println(res.Steps())
}
