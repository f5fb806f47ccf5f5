package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/EasterCompany/dex-voice-service/app"
	"github.com/EasterCompany/dex-voice-service/config"
	logger "github.com/EasterCompany/dex-voice-service/log"
	"github.com/EasterCompany/dex-voice-service/utils"
	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.version=...".
var (
	version   string
	branch    string
	commit    string
	buildDate string
)

var (
	configPath string
	addr       string
	verbose    bool
)

func main() {
	utils.SetVersion(version, branch, commit, buildDate, runtime.GOARCH)

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "dex-voice-service",
		Short:        "Voice assistant backend: speech recognition, dialogue and speech synthesis",
		SilenceUsage: true,
		RunE:         runServe,
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and websocket server",
		RunE:  runServe,
	}

	for _, cmd := range []*cobra.Command{root, serve} {
		cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default ~/Dexter/config/voice-service.json)")
		cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
		cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), utils.GetVersion().String())
		},
	}

	root.AddCommand(serve, versionCmd)
	return root
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("fatal error loading config: %w", err)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	a, err := app.NewApp(cmd.Context(), cfg, verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	return a.Run(cmd.Context())
}

