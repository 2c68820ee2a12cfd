package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	env     string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stratsched",
	Short: "전략 요일 배정 스케줄러",
	Long: `Strategy Scheduler CLI

전략마다 평일 하나를 배정해 요일별 부하를 균등하게 유지합니다.
가장 가벼운 요일을 고르고, 동률이면 무작위로 선택합니다.

Usage:
  go run ./cmd/stratsched [command]

Examples:
  go run ./cmd/stratsched api
  go run ./cmd/stratsched assign momentum-us --weight 2.5
  go run ./cmd/stratsched loads
  go run ./cmd/stratsched scheduler start`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment override (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
