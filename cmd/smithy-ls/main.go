// Command smithy-ls is the Smithy language server. It speaks LSP over
// stdio by default, or over a single TCP connection when a port is given
// as the sole positional argument.
//
// Environment:
//
//	SMITHY_MAVEN_CACHE  dependency cache directory
//	SMITHY_MAVEN_REPOS  pipe-separated repository URLs (default: Maven Central)
package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.lsp.dev/jsonrpc2"

	"github.com/smithy-lang/smithy-language-server-sub001/internal/lspserver"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/manager"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/project"
)

const version = "0.1.0"

func main() {
	app := &cli.App{
		Name:      "smithy-ls",
		Usage:     "Language server for the Smithy interface-definition language",
		Version:   version,
		ArgsUsage: "[port]",
		Action:    run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	// Anything we print on stdout would corrupt the LSP framing, so all
	// logging goes to stderr regardless of transport.
	log.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stream, cleanup, err := openStream(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer cleanup()

	srv := lspserver.NewServer(manager.New(nil), project.SeverityWarning)
	if err := srv.Serve(ctx, stream); err != nil {
		return cli.Exit(fmt.Sprintf("serve: %v", err), 1)
	}
	return nil
}

func openStream(c *cli.Context) (jsonrpc2.Stream, func(), error) {
	if c.Args().Len() == 0 {
		return jsonrpc2.NewStream(lspserver.Stdio{}), func() {}, nil
	}
	if c.Args().Len() > 1 {
		return nil, nil, fmt.Errorf("expected at most one argument, got %d", c.Args().Len())
	}

	port, err := strconv.Atoi(c.Args().First())
	if err != nil || port <= 0 || port > 65535 {
		return nil, nil, fmt.Errorf("invalid port %q", c.Args().First())
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, nil, fmt.Errorf("listen on port %d: %w", port, err)
	}
	log.Printf("smithy-ls: waiting for editor connection on port %d", port)

	conn, err := ln.Accept()
	if err != nil {
		_ = ln.Close()
		return nil, nil, fmt.Errorf("accept: %w", err)
	}
	cleanup := func() {
		_ = conn.Close()
		_ = ln.Close()
	}
	return jsonrpc2.NewStream(conn), cleanup, nil
}
