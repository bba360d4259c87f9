package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/strandbit/node-rpc-gateway/cmd/flags"
	"github.com/strandbit/node-rpc-gateway/common"
	"github.com/strandbit/node-rpc-gateway/gateway"
	"github.com/strandbit/node-rpc-gateway/httpserver"
	"github.com/strandbit/node-rpc-gateway/rpcserver"
)

var cliFlags = append([]cli.Flag{
	flags.ListenAddrFlag,
	flags.RPCUserFlag,
	flags.RPCPasswordFlag,
	flags.RPCCredentialsFileFlag,
	flags.RPCAuthRequiredFlag,
}, flags.CommonFlags...)

func main() {
	app := &cli.App{
		Name:    "noded",
		Usage:   "Serve authenticated JSON-RPC for the node",
		Version: common.Version,
		Flags:   cliFlags,
		Action:  runNode,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runNode(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)

	username := cCtx.String(flags.RPCUserFlag.Name)
	password := cCtx.String(flags.RPCPasswordFlag.Name)
	if credsPath := cCtx.String(flags.RPCCredentialsFileFlag.Name); credsPath != "" {
		credsFile, err := gateway.LoadCredentialsFile(credsPath)
		if err != nil {
			logger.Error("Failed to load RPC credentials file", "err", err, "path", credsPath)
			return err
		}
		username = credsFile.Username
		password = credsFile.Password
	}

	table := rpcserver.NewTable(logger)
	rpcserver.RegisterNodeMethods(table, logger)

	srv, err := httpserver.New(flags.ConfigureServer(cCtx, logger), table)
	if err != nil {
		logger.Error("Failed to create HTTP server", "err", err)
		return err
	}

	gw := gateway.New(&gateway.Config{
		Username:           username,
		Password:           password,
		RequireCredentials: cCtx.Bool(flags.RPCAuthRequiredFlag.Name),
		Log:                logger,
	}, srv, srv.EventLoop(), table)

	if err := gw.Start(); err != nil {
		logger.Error("Unable to start HTTP RPC gateway", "err", err)
		return err
	}

	srv.RunInBackground()

	table.SetWarmupStatus("Loading node state")
	if err := table.SetWarmupFinished(); err != nil {
		logger.Error("Failed to finish warmup", "err", err)
		return err
	}
	logger.Info("Node RPC is ready", "listenAddress", cCtx.String(flags.ListenAddrFlag.Name))

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
	<-exit
	logger.Info("Shutting down")

	gw.Interrupt()
	srv.Shutdown()
	gw.Stop()
	return nil
}
