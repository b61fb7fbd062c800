package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "face-auth",
	Short: "Password and face login service",
	Long: `face-auth enrolls identities with a password and a face photo and lets
them log in with either. Face login compares a descriptor of the submitted
photo against every enrolled descriptor and accepts the closest one under
the configured distance threshold.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
