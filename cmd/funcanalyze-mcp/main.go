// cmd/funcanalyze-mcp/main.go — Model Context Protocol server exposing
// the function analyzer as agent tools.
//
// Usage:
//   go run ./cmd/funcanalyze-mcp            # stdio transport
//   go run ./cmd/funcanalyze-mcp -port 8081 # HTTP transport
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/njchilds90/funcanalyze"
)

func main() {
	port := flag.Int("port", 0, "TCP port to listen on (0 for stdio)")
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	analyzer := &funcanalyze.Analyzer{Timeout: funcanalyze.DefaultStageTimeout, Log: log}

	s := server.NewMCPServer(
		"funcanalyze-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithLogging(),
		server.WithRecovery(),
	)

	addAnalyzeFunctionTool(s, analyzer)
	addEvaluatePointTool(s, analyzer)
	addSamplePlotTool(s)

	if *port == 0 {
		if err := server.ServeStdio(s); err != nil {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
		return
	}
	httpServer := server.NewStreamableHTTPServer(s)
	log.Info("listening", "port", *port)
	if err := httpServer.Start(fmt.Sprintf(":%d", *port)); err != nil {
		log.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func addAnalyzeFunctionTool(s *server.MCPServer, analyzer *funcanalyze.Analyzer) {
	tool := mcp.NewTool("analyze_function",
		mcp.WithDescription("Analyze a single-variable real function: domain restrictions, best-effort range, axis intercepts, each with reasoning steps"),
		mcp.WithString("function",
			mcp.Required(),
			mcp.Description("The function in x, e.g. '(x+1)/(x-2)' or 'log(x+1)'"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		fn, ok := args["function"].(string)
		if !ok {
			return mcp.NewToolResultError("function is required"), nil
		}
		rep, err := analyzer.Analyze(fn, "")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
		}
		return mcp.NewToolResultText(rep.Render()), nil
	})
}

func addEvaluatePointTool(s *server.MCPServer, analyzer *funcanalyze.Analyzer) {
	tool := mcp.NewTool("evaluate_point",
		mcp.WithDescription("Evaluate a function at a point, with a domain-membership check and a step-by-step trace"),
		mcp.WithString("function",
			mcp.Required(),
			mcp.Description("The function in x"),
		),
		mcp.WithString("x",
			mcp.Required(),
			mcp.Description("The x value: integer, decimal, p/q rational, pi or e"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		fn, ok := args["function"].(string)
		if !ok {
			return mcp.NewToolResultError("function is required"), nil
		}
		x, ok := args["x"].(string)
		if !ok {
			return mcp.NewToolResultError("x is required"), nil
		}
		rep, err := analyzer.Analyze(fn, x)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("evaluation failed: %v", err)), nil
		}
		if rep.Evaluation == nil {
			return mcp.NewToolResultError("no evaluation was produced"), nil
		}
		data, err := json.MarshalIndent(rep.Evaluation, "", "  ")
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

func addSamplePlotTool(s *server.MCPServer) {
	tool := mcp.NewTool("sample_plot",
		mcp.WithDescription("Sample a function uniformly over a window for plotting; undefined points are marked as gaps"),
		mcp.WithString("function",
			mcp.Required(),
			mcp.Description("The function in x"),
		),
		mcp.WithNumber("from",
			mcp.Description("Window lower bound (default -10)"),
		),
		mcp.WithNumber("to",
			mcp.Description("Window upper bound (default 10)"),
		),
		mcp.WithNumber("samples",
			mcp.Description("Number of samples (default 1000)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		fn, ok := args["function"].(string)
		if !ok {
			return mcp.NewToolResultError("function is required"), nil
		}
		lo := funcanalyze.DefaultPlotLo
		if v, ok := args["from"].(float64); ok {
			lo = v
		}
		hi := funcanalyze.DefaultPlotHi
		if v, ok := args["to"].(float64); ok {
			hi = v
		}
		n := funcanalyze.DefaultPlotN
		if v, ok := args["samples"].(float64); ok {
			n = int(v)
		}
		points, err := funcanalyze.SamplePlot(funcanalyze.Normalize(fn), lo, hi, n)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("sampling failed: %v", err)), nil
		}
		data, err := json.Marshal(points)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}
