/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "0.1.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "docalign",
	Short: "Parallel-corpus builder for custom translation models",
	Long: `A CLI application that aligns source documents with their human
translations into a tab-separated parallel corpus, and drives the dataset
import and model training workflow of the translation service.

Use "docalign align --help" for alignment options.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default $HOME/.docalign.yaml)")
	rootCmd.PersistentFlags().StringP("credentials", "c", "", "Path to Google Cloud credentials JSON")
	rootCmd.PersistentFlags().StringP("project", "p", "", "Google Cloud project ID")
	rootCmd.PersistentFlags().String("location", "us-central1", "Service location")
	rootCmd.PersistentFlags().StringP("bucket", "b", "", "Cloud Storage bucket holding the documents")
	rootCmd.PersistentFlags().String("db", "./data/docalign.db", "Database path for run history")

	viper.BindPFlag("credentials", rootCmd.PersistentFlags().Lookup("credentials"))
	viper.BindPFlag("project", rootCmd.PersistentFlags().Lookup("project"))
	viper.BindPFlag("location", rootCmd.PersistentFlags().Lookup("location"))
	viper.BindPFlag("bucket", rootCmd.PersistentFlags().Lookup("bucket"))
	viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".docalign")
		}
	}

	viper.SetEnvPrefix("DOCALIGN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}
