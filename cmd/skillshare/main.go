package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "skillshare",
	Short: "SkillShare — skill-sharing session marketplace API",
	Long:  "SkillShare is the backend for a skill-sharing marketplace: users sign in, create timed teaching sessions, browse and filter them, and join or leave sessions with capacity enforcement.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: built-in defaults + env)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
