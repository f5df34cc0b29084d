package cli

import (
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/adapters/driving/mcp"
	"github.com/custodia-labs/docqa/internal/logger"
)

var (
	mcpPort int
	mcpHost string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose docqa to assistants over the Model Context Protocol",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve ingest_files, ask and reset as MCP tools",
	Long: `Serve docqa as an MCP server with its own in-memory session.

Documents sent to ingest_files are answered by ask until the next
ingest_files call or reset replaces them. The session stored by
'docqa ingest' is not shared with the server.

Without --port the server speaks JSON-RPC over stdin/stdout, which is what
desktop assistants launch:

  {"mcpServers": {"docqa": {"command": "docqa", "args": ["mcp", "serve"]}}}

With --port it serves streamable HTTP, with a liveness probe at /healthz:

  docqa mcp serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "serve HTTP on this port instead of stdio")
	mcpServeCmd.Flags().StringVar(&mcpHost, "host", "localhost", "interface to bind with --port")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	p, err := buildPipeline(true)
	if err != nil {
		return err
	}
	defer p.Close()

	server, err := mcp.NewServer(&mcp.Ports{
		Session:  p.Session(),
		Settings: settingsService,
	})
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if mcpPort == 0 {
		logger.Debug("mcp: serving on stdio")
		return server.Run(ctx)
	}

	addr := net.JoinHostPort(mcpHost, strconv.Itoa(mcpPort))
	cmd.PrintErrf("MCP server listening on http://%s\n", addr)
	return server.RunHTTP(ctx, addr)
}
