package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hyp3rd/ewrap"
	"github.com/spf13/cobra"

	"github.com/hyp3rd/sigma"
	"github.com/hyp3rd/sigma/internal/constants"
	"github.com/hyp3rd/sigma/internal/libs/serializer"
)

const formatText = "text"

func buildCalcCmd(a *app) *cobra.Command {
	var (
		format string
		check  bool
	)

	cmd := &cobra.Command{
		Use:   "calc [--] [numbers...]",
		Short: "Calculate σ, μ and σ² of the given integers, or of stdin when none are given",
		Long: "Calculate σ, μ and σ² of the given integers, or of stdin when none are given.\n" +
			"Flags go before the numbers; \"--\" may separate them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readRaw(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			if check {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), sigma.HintLine(raw))

				return err
			}

			s, err := a.settings()
			if err != nil {
				return err
			}

			return runCalc(cmd.Context(), cmd, s.StatsCollector, raw, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text, json, msgpack or cbor")
	cmd.Flags().BoolVar(&check, "check", false, "Only print the input hint, without calculating")

	return cmd
}

func readRaw(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", ewrap.Wrap(err, "reading stdin")
	}

	return string(data), nil
}

func runCalc(ctx context.Context, cmd *cobra.Command, statsCollector, raw, format string) error {
	cfg := sigma.NewConfig(constants.NoBackend)
	cfg.CalculatorOptions = append(cfg.CalculatorOptions, sigma.WithStatsCollector(statsCollector))

	calc, err := sigma.New(ctx, cfg)
	if err != nil {
		return err
	}

	defer func() { _ = calc.Stop(ctx) }()

	res, err := calc.Calculate(ctx, raw)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), sigma.Describe(err).Text)

		return reportedError{err: err}
	}

	out := cmd.OutOrStdout()

	if format == formatText {
		_, err = fmt.Fprintf(out, "%s%s\n", res.Report(), sigma.StatusLine(res.Count))

		return err
	}

	ser, err := serializer.New(format)
	if err != nil {
		return err
	}

	data, err := ser.Marshal(res)
	if err != nil {
		return ewrap.Wrapf(err, "encoding result as %s", format)
	}

	_, err = out.Write(data)

	return err
}
