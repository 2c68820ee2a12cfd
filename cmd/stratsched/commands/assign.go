package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/strategy-scheduler/internal/contracts"
)

var (
	assignCmd = &cobra.Command{
		Use:   "assign [strategy_id]",
		Short: "전략에 요일 배정",
		Long: `가장 부하가 낮은 평일을 골라 전략에 배정합니다.

--weight 를 생략하면 설정된 가중치 소스(티커 수 + overrides 파일)를 사용합니다.
이미 배정된 전략은 자신의 부하를 제외하고 다시 배정됩니다.

Example:
  go run ./cmd/stratsched assign momentum-us
  go run ./cmd/stratsched assign momentum-us --weight 2.5`,
		Args: cobra.ExactArgs(1),
		RunE: runAssign,
	}

	unassignCmd = &cobra.Command{
		Use:   "unassign [strategy_id]",
		Short: "전략 요일 배정 해제",
		Args:  cobra.ExactArgs(1),
		RunE:  runUnassign,
	}

	onboardCmd = &cobra.Command{
		Use:   "onboard",
		Short: "미배정 활성 전략 일괄 배정",
		RunE:  runOnboard,
	}

	deactivateCmd = &cobra.Command{
		Use:   "deactivate [strategy_id]",
		Short: "전략 비활성화 및 배정 해제",
		Args:  cobra.ExactArgs(1),
		RunE:  runDeactivate,
	}
)

var assignWeight float64

func init() {
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(unassignCmd)
	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(deactivateCmd)

	assignCmd.Flags().Float64Var(&assignWeight, "weight", 0, "전략 가중치 (생략 시 가중치 소스 사용)")
}

func runAssign(cmd *cobra.Command, args []string) error {
	id := contracts.StrategyID(args[0])

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	var (
		day    contracts.Weekday
		weight = assignWeight
	)
	if cmd.Flags().Changed("weight") {
		day, err = a.service.Assign(cmd.Context(), id, weight)
	} else {
		day, weight, err = a.service.AssignFromSource(cmd.Context(), id)
	}
	if err != nil {
		return fmt.Errorf("❌ assign %s: %w", id, err)
	}

	fmt.Printf("✅ %s → %s (weight %.2f)\n", id, day, weight)
	return nil
}

func runUnassign(cmd *cobra.Command, args []string) error {
	id := contracts.StrategyID(args[0])

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.service.Unassign(cmd.Context(), id); err != nil {
		return fmt.Errorf("❌ unassign %s: %w", id, err)
	}

	fmt.Printf("✅ %s unscheduled\n", id)
	return nil
}

func runOnboard(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	assigned, err := a.service.AssignUnscheduled(cmd.Context())
	for _, s := range assigned {
		fmt.Printf("  %-24s → %s\n", s.StrategyID, s.Weekday)
	}
	fmt.Printf("\nAssigned: %d\n", len(assigned))

	if err != nil {
		return fmt.Errorf("❌ onboarding incomplete: %w", err)
	}
	return nil
}

func runDeactivate(cmd *cobra.Command, args []string) error {
	id := contracts.StrategyID(args[0])

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.registry.SetActive(cmd.Context(), id, false); err != nil {
		return fmt.Errorf("❌ deactivate %s: %w", id, err)
	}
	if err := a.service.Unassign(cmd.Context(), id); err != nil {
		return fmt.Errorf("❌ unassign %s: %w", id, err)
	}

	fmt.Printf("✅ %s deactivated\n", id)
	return nil
}
