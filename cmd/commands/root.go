package commands

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	quiet   bool
	noColor bool
	logJSON bool

	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "synprobe",
	Short: "Multi-technique raw-socket port scanner",
	Long: `synprobe sends SYN, NULL, ACK, FIN, XMAS, and UDP probes directly over
raw sockets and classifies each port from the responses it correlates back.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.synprobe.yaml)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "output logs in JSON format")

	rootCmd.PersistentFlags().Bool("pprof", false, "enable pprof profiling")
	rootCmd.PersistentFlags().Bool("trace", false, "enable execution tracing")
	_ = rootCmd.PersistentFlags().MarkHidden("pprof")
	_ = rootCmd.PersistentFlags().MarkHidden("trace")

	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("no_color", rootCmd.PersistentFlags().Lookup("no-color"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".synprobe")
	}

	viper.SetEnvPrefix("SYNPROBE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if !quiet {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func initLogging() {
	if quiet {
		log.SetLevel(logrus.WarnLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	if logJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	log.SetOutput(os.Stderr)
}
