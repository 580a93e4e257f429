// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "strix",
	Short: "Strix - IPv4 ingress admission filter",
	Long: `Strix is the ingress admission-control stage of an embedded-style IPv4
network stack: for every frame arriving from the link layer it decides
whether the frame is well-formed, addressed to this node, and safe to hand
to upper-layer protocol processing, or must be silently discarded.

It can run against a live interface (libpcap or AF_PACKET) or replay a
pcap file, and exposes per-reason discard counters over Prometheus.`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "/etc/strix/config.yml",
		"config file path")

	rootCmd.AddCommand(runCmd)
}

// exitWithError prints error message and exits with code 1
func exitWithError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}
