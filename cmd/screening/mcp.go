package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	screening "github.com/amparo-health/screening"
	mcpadapter "github.com/amparo-health/screening/internal/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the screening engine as an MCP server",
	Long: `Serves the assessment flow over the Model Context Protocol so
agent hosts can start sessions, fetch questions, record answers and
read triggered actions as tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// Stdio carries the protocol itself, so logs must not hit stdout.
		logger := loggerFromFlags(cmd, true)
		cat, err := catalogFromFlags(cmd)
		if err != nil {
			return err
		}
		sessions, err := sessionManagerFromFlags(cmd, logger)
		if err != nil {
			return err
		}

		engine := screening.New(
			screening.WithCatalog(cat),
			screening.WithSessionManager(sessions),
			screening.WithLogger(logger),
		)
		srv := mcpadapter.NewServer(engine)

		switch transport {
		case "stdio":
			return srv.ServeStdio()
		case "sse":
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			logger.Info("mcp server listening", "transport", "sse", "port", port)
			return srv.ServeSSE(ctx, port)
		default:
			return fmt.Errorf("unknown transport %q (want stdio or sse)", transport)
		}
	},
}

func init() {
	mcpCmd.Flags().String("transport", "stdio", "MCP transport (stdio or sse)")
	mcpCmd.Flags().Int("port", 8765, "Port for the SSE transport")
	rootCmd.AddCommand(mcpCmd)
}
