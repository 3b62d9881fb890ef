/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/ssargent/fortrec/cmd/fortrec/cmd"
)

func main() {
	cmd.Execute()
}
