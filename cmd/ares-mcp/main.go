// Command ares-mcp serves the Czech ARES business registry as MCP tools.
package main

import "github.com/ares-mcp/ares-mcp-server/cmd/ares-mcp/cmd"

func main() {
	cmd.Execute()
}
