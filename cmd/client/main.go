package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"gitlab.com/fcv-2025.net/fileget/internal/adapter/logging"
	"gitlab.com/fcv-2025.net/fileget/internal/client"
	"gitlab.com/fcv-2025.net/fileget/internal/config"
	"gitlab.com/fcv-2025.net/fileget/internal/static/errs"
)

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintf(os.Stderr, "usage: %s <server_addr> <port> <filename>\n", os.Args[0])
		os.Exit(1)
	}
	host, port, name := os.Args[1], os.Args[2], os.Args[3]

	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}
	sysCfg := config.NewSystemConfig()

	logger := logging.NewZapLoggerWithLevel(sysCfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := fetch(ctx, net.JoinHostPort(host, port), name, sysCfg.ClientConfig, logger)
	stop()
	logger.Sync()

	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			fmt.Fprintln(os.Stderr, "file not found")
		} else {
			fmt.Fprintf(os.Stderr, "fetch %s failed: %v\n", name, err)
		}
		os.Exit(1)
	}
}

func fetch(ctx context.Context, address, name string, cfg *config.ClientConfig, logger *logging.ZapLogger) error {
	session, err := client.Dial(ctx, address, cfg, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	res, err := session.Fetch(ctx, name)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d bytes, modified %s\n", res.Path, res.Meta.Size, res.Meta.ModTimeUTC().Format("2006-01-02 15:04:05 MST"))
	return nil
}
