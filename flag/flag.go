// Package flag provides getters for pomerge flags and options.
package flag

import (
	"github.com/spf13/viper"
)

// DryRun returns value of "--dryrun" option.
func DryRun() bool {
	return viper.GetBool("dryrun")
}

// Quiet returns value of "--quiet" option.
func Quiet() int {
	return viper.GetInt("quiet")
}

// Verbose returns value of "--verbose" option.
func Verbose() int {
	return viper.GetInt("verbose")
}

// ConfigFile returns value of "--config" option.
func ConfigFile() string {
	return viper.GetString("config")
}

// NoColor returns value of "--no-color" option.
func NoColor() bool {
	return viper.GetBool("no-color")
}
