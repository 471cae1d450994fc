package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/panhunt/mailcore/pkg/malog"
)

var log = &malog.CLI{}

var (
	flagVerbose bool
	flagDebug   bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "mailutil",
	Short: "Inspect and export Compound File Binary (.msg) and PST mail containers",
	Long: `mailutil opens .msg and PST mail containers and lets you list their
folders and messages, dump a message's properties, and export
attachments or folder summaries to disk.`,
}

func commandInit() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default $HOME/.mailutil.yaml)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if flagConfig != "" {
			viper.SetConfigFile(flagConfig)
			if err := viper.ReadInConfig(); err != nil {
				return err
			}
		}
		viper.SetEnvPrefix("MAILUTIL")
		viper.AutomaticEnv()

		log.IsDebug = flagDebug || viper.GetBool("debug")
		if flagVerbose || viper.GetBool("verbose") {
			logrus.SetLevel(logrus.DebugLevel)
		}
		logrus.SetFormatter(log)
		return nil
	}

	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(foldersCmd)
	rootCmd.AddCommand(messagesCmd)
	rootCmd.AddCommand(propsCmd)
	rootCmd.AddCommand(exportAttachmentsCmd)
	rootCmd.AddCommand(exportFoldersCmd)
}
