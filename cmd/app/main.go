// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/tokengate/cmd/app/commands"
	cryptoService "github.com/allisson/tokengate/internal/crypto/service"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "tokengate",
		Usage:   "Ephemeral token service",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "create-master-key",
				Usage: "Generate a new master key for token encryption",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "id",
						Aliases: []string{"i"},
						Value:   "",
						Usage:   "Master key ID (e.g., prod-master-key-2026)",
					},
					&cli.StringFlag{
						Name:  "kms-provider",
						Value: "",
						Usage: "KMS provider used to wrap the key (e.g., hashivault, localsecrets)",
					},
					&cli.StringFlag{
						Name:  "kms-key-uri",
						Value: "",
						Usage: "KMS key URI (e.g., base64key://<32-byte-base64-key>)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateMasterKey(
						ctx,
						cryptoService.NewKMSService(),
						os.Stdout,
						cmd.String("id"),
						cmd.String("kms-provider"),
						cmd.String("kms-key-uri"),
					)
				},
			},
			{
				Name:  "derive-master-key",
				Usage: "Derive a master key from a password using PBKDF2",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "id",
						Aliases: []string{"i"},
						Value:   "",
						Usage:   "Master key ID (e.g., derived-master-key-2026)",
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Required: true,
						Usage:    "Password to derive the key from",
					},
					&cli.StringFlag{
						Name:    "salt",
						Aliases: []string{"s"},
						Value:   "",
						Usage:   "Base64-encoded salt (omit to generate a new one)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunDeriveMasterKey(
						os.Stdout,
						cmd.String("id"),
						cmd.String("password"),
						cmd.String("salt"),
					)
				},
			},
			{
				Name:  "rotate-blob",
				Usage: "Re-encrypt an encrypted blob from an old master key to a new one",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "old-key",
						Required: true,
						Usage:    "Old master key entry in 'id:base64-key' format",
					},
					&cli.StringFlag{
						Name:     "new-key",
						Required: true,
						Usage:    "New master key entry in 'id:base64-key' format",
					},
					&cli.StringFlag{
						Name:     "blob",
						Aliases:  []string{"b"},
						Required: true,
						Usage:    "Base64-encoded encrypted blob to rotate",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunRotateBlob(
						os.Stdout,
						cmd.String("old-key"),
						cmd.String("new-key"),
						cmd.String("blob"),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
