package main

import (
	"github.com/spf13/cobra"

	"github.com/edp1096/toy-machine/pkg/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve <deck>",
	Short: "Answer EEC and loss queries over a websocket",
	Long: `Load the deck once and answer queries on ws://<addr>/ws.

Requests:
  {"type":"eec","op":{"id":-50,"iq":50,"n0":3000}}
  {"type":"loss"}

Replies carry the result as a JSON string in "content", or type "error".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, sim, err := loadSimulation(args[0])
		if err != nil {
			return err
		}
		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		return server.NewServer(addr, sim).Serve()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, overrides [server] addr")
	rootCmd.AddCommand(serveCmd)
}
