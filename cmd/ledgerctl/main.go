package main

import "github.com/SscSPs/ledger_integrity/internal/cli"

func main() {
	cli.Execute()
}
