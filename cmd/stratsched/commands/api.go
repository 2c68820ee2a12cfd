package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/strategy-scheduler/internal/api"
	"github.com/wonny/strategy-scheduler/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET    /health                          - Health check
  GET    /api/schedules                   - 전체 배정 조회
  GET    /api/schedules/loads             - 요일별 부하 분포
  GET    /api/schedules/roster/{weekday}  - 요일별 실행 대상
  POST   /api/schedules/{id}/assign       - 요일 배정
  DELETE /api/schedules/{id}              - 배정 해제

Example:
  go run ./cmd/stratsched api
  go run ./cmd/stratsched api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Strategy Scheduler API Server ===")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	// Override port if flag is set
	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	handler := handlers.NewScheduleHandler(a.service, a.log)
	router := api.NewRouter(handler, a.cfg.API, a.log)
	server := api.New(a.cfg, a.log, router)

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	if err := server.Run(ctx, 30*time.Second); err != nil {
		return err
	}

	a.log.Info("Server stopped")
	return nil
}
