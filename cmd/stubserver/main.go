package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptops/steward/service/gateway/stub"
)

func main() {
	var addr string
	cmd := &cobra.Command{
		Use:          "stubserver",
		Short:        "Serve canned conversation tools for local development",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Serving stub tools on %s\n", addr)
			return http.ListenAndServe(addr, stub.Handler())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8090", "listen address")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
