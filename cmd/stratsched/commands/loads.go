package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/strategy-scheduler/internal/contracts"
)

var (
	loadsCmd = &cobra.Command{
		Use:   "loads",
		Short: "요일별 부하 분포 조회",
		RunE:  runLoads,
	}

	rosterCmd = &cobra.Command{
		Use:   "roster [weekday]",
		Short: "요일별 실행 대상 전략 조회",
		Long: `지정한 요일에 배정된 전략 목록을 출력합니다.

weekday: 1-5, mon..fri, monday..friday

Example:
  go run ./cmd/stratsched roster tue
  go run ./cmd/stratsched roster 3`,
		Args: cobra.ExactArgs(1),
		RunE: runRoster,
	}
)

func init() {
	rootCmd.AddCommand(loadsCmd)
	rootCmd.AddCommand(rosterCmd)
}

func runLoads(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	dist, err := a.service.Distribution(cmd.Context())
	if err != nil {
		return fmt.Errorf("❌ load distribution: %w", err)
	}

	candidates := make(map[contracts.Weekday]bool, len(dist.Candidates))
	for _, d := range dist.Candidates {
		candidates[d] = true
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("  Weekly Load Distribution")
	fmt.Println("───────────────────────────────────────────────────────────")
	for _, d := range contracts.AllWeekdays {
		marker := " "
		if candidates[d] {
			marker = "*"
		}
		fmt.Printf("  %s %-10s %8.2f  (%d strategies)\n", marker, d, dist.Loads[d], len(dist.Strategies[d]))
	}
	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("  Total  : %.2f\n", dist.Total)
	fmt.Printf("  Mean   : %.2f\n", dist.Mean)
	fmt.Printf("  StdDev : %.2f\n", dist.StdDev)
	fmt.Printf("  Spread : %.2f\n", dist.Spread)
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("  * next assignment candidates")

	return nil
}

func runRoster(cmd *cobra.Command, args []string) error {
	day, err := contracts.ParseWeekday(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	ids, err := a.service.Roster(cmd.Context(), day)
	if err != nil {
		return fmt.Errorf("❌ roster: %w", err)
	}

	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}

	fmt.Printf("%s (%d)\n", day, len(ids))
	if len(names) > 0 {
		fmt.Printf("  %s\n", strings.Join(names, "\n  "))
	}
	return nil
}
