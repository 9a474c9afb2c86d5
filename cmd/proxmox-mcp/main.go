package main

import "github.com/devnullvoid/proxmox-mcp/internal/cli"

func main() {
	cli.Execute()
}
