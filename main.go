// Package main is the entry point for the turbo-ncu CLI.
package main

import "github.com/ajxudir/turboncu/cmd"

func main() {
	cmd.Execute()
}
