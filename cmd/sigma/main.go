// Package main contains the sigma command line tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hyp3rd/sigma/internal/settings"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root := buildRootCmd()
	root.SetArgs(numbersAsArgs(os.Args[1:]))

	err := execute(ctx, root)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

// reportedError wraps an error whose message was already shown to the user.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }

func (e reportedError) Unwrap() error { return e.err }

// execute runs root and prints any error it returns that was not reported yet.
func execute(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var reported reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	}

	return err
}

// numberArg matches a calc argument starting with a negative integer, such as "-1" or "-1,2".
var numberArg = regexp.MustCompile(`^-[0-9][0-9,]*$`)

// numbersAsArgs inserts "--" before the first negative number following "calc",
// so that a list like "calc -1 2" is not parsed as flags.
// Arguments are left untouched when a flag follows the numbers or "--" is already there.
func numbersAsArgs(args []string) []string {
	calc := -1

	for i, arg := range args {
		if arg == "--" {
			return args
		}

		if arg == "calc" && calc < 0 {
			calc = i
		}
	}

	if calc < 0 {
		return args
	}

	first := -1

	for i := calc + 1; i < len(args); i++ {
		arg := args[i]

		switch {
		case numberArg.MatchString(arg):
			if first < 0 {
				first = i
			}
		case first >= 0 && len(arg) > 1 && arg[0] == '-':
			// a flag after the numbers: let cobra report it
			return args
		}
	}

	if first < 0 {
		return args
	}

	out := make([]string, 0, len(args)+1)
	out = append(out, args[:first]...)
	out = append(out, "--")

	return append(out, args[first:]...)
}

// app carries what every subcommand needs once flags are parsed.
type app struct {
	v          *viper.Viper
	configFile string
}

func (a *app) settings() (*settings.Settings, error) {
	return settings.Load(a.v, a.configFile)
}

func buildRootCmd() *cobra.Command {
	a := &app{v: settings.New()}

	root := &cobra.Command{
		Use:           "sigma",
		Short:         "Population mean, variance and standard deviation of a list of integers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Specify configuration file location")
	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	_ = a.v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(buildCalcCmd(a), buildServeCmd(a))

	return root
}
