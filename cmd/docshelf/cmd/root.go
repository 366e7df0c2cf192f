// Copyright © 2018 One Concern

package cmd

import (
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/oneconcern/docshelf/pkg/dlogger"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docshelf",
	Short: "Docshelf manages several versions of a static documentation site",
	Long: `Docshelf manages several versions of a static documentation site on a git branch.

Each deployed version lives in its own directory of the branch, next to a versions.json file
listing the deployed versions, their titles and aliases. Every change is recorded in a single commit,
ready to be pushed and served by a static host such as GitHub Pages.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := docshelfFlags.root.logLevel
		if level == "" {
			level = config.LogLevel
		}
		l, err := dlogger.GetLogger(level)
		if err != nil {
			wrapFatalln("invalid log level", err)
			return
		}
		logger = l
	},
}

var (
	config *CLIConfig
	logger = zap.NewNop()

	// appFs is the file system holding docs configs and built sites
	appFs = afero.NewOsFs()
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		wrapFatalln(err.Error(), nil)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	addRemoteFlag(rootCmd)
	addBranchFlag(rootCmd)
	addMessageFlag(rootCmd)
	addPushFlag(rootCmd)
	addAllowEmptyFlag(rootCmd)
	addIgnoreRemoteStatusFlag(rootCmd)
	addRebaseFlag(rootCmd)
	addDeployPrefixFlag(rootCmd)
	addConfigFileFlag(rootCmd)
	addLogLevel(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("remote", "")
	viper.SetDefault("branch", "")
	viper.SetDefault("loglevel", dlogger.LogLevelWarn)
	viper.SetDefault("builder", defaultBuilder)
	viper.SetDefault("deploy_prefix", "")
	viper.SetDefault("alias_type", "")
	if os.Getenv("DOCSHELF_CONFIG") != "" {
		viper.SetConfigFile(os.Getenv("DOCSHELF_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.docshelf")
		viper.AddConfigPath("/etc/docshelf")
		viper.SetConfigName("docshelf")
	}

	viper.SetEnvPrefix("docshelf")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		logger.Debug("using config file", zap.String("file", viper.ConfigFileUsed()))
	}

	var err error
	config, err = newConfig()
	if err != nil {
		wrapFatalln("invalid configuration", err)
		return
	}
}
