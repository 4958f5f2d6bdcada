package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"declscan/internal/analysis"
)

var langsCmd = &cobra.Command{
	Use:     "langs",
	Aliases: []string{"languages"},
	Short:   "List supported languages and their extensions",
	Run: func(cmd *cobra.Command, args []string) {
		for _, lang := range analysis.NewRegistry().Languages() {
			fmt.Printf("%-12s %s\n", lang.Name(), strings.Join(lang.Extensions(), " "))
		}
	},
}

func init() {
	rootCmd.AddCommand(langsCmd)
}
