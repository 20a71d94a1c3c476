package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// bindEnvVars binds environment variables to the flags of cmd. Variable
// names are FOLIO_<FLAG_NAME>, with the flag name in upper case and dashes
// replaced by underscores:
//   - Flag "log-level" becomes "FOLIO_LOG_LEVEL".
//   - Flag "per-page" becomes "FOLIO_PER_PAGE".
//
// Arguments take precedence over environment variables, which take
// precedence over default values. A flag set from the environment counts as
// changed, so it also overrides the configuration file.
func bindEnvVars(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.VisitAll(func(flag *pflag.Flag) {
		bindFlagToEnv(flags, flag)
	})

	persistent := cmd.PersistentFlags()
	persistent.VisitAll(func(flag *pflag.Flag) {
		bindFlagToEnv(persistent, flag)
	})
}

func bindFlagToEnv(flags *pflag.FlagSet, flag *pflag.Flag) {
	envName := flagToEnvName(flag.Name)

	// Show the variable in the help output.
	if !strings.Contains(flag.Usage, envName) {
		flag.Usage = fmt.Sprintf("%s ($%s)", flag.Usage, envName)
	}

	if flag.Changed {
		return
	}

	envValue, ok := os.LookupEnv(envName)
	if !ok {
		return
	}

	err := flags.Set(flag.Name, envValue)
	if err != nil {
		// Keep the default value.
		slog.Error("failed to set flag from environment variable",
			slog.String("flag", flag.Name),
			slog.String("env", envName),
			slog.String("value", envValue),
			slog.Any("err", err),
		)
	}
}

// flagToEnvName converts a flag name to its environment variable name.
func flagToEnvName(flagName string) string {
	envName := strings.ReplaceAll(flagName, "-", "_")

	return strings.ToUpper(cmdName + "_" + envName)
}
