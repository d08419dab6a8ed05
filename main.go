// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package main is the entry point for the Tripdesk CLI.
package main

import (
	"tripdesk/cli/cmd"
)

func main() {
	cmd.Execute()
}
