// Copyright © 2026 The Tilelisp authors

package main

import "github.com/tilelisp/tilelisp/cmd"

func main() {
	cmd.Execute()
}
