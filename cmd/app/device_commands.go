package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/allisson/sporeid/cmd/app/commands"
	"github.com/allisson/sporeid/internal/app"
	"github.com/allisson/sporeid/internal/config"
	deviceDomain "github.com/allisson/sporeid/internal/device/domain"
	"github.com/allisson/sporeid/internal/deviceid/service"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func deviceIDFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "id",
		Aliases:  []string{"i"},
		Required: true,
		Usage:    "Device identifier (e.g., MASH-A1-CAL25-D5A91B)",
	}
}

// identifierFlags are the fields shared by offline generation and provisioning.
func identifierFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "brand",
			Aliases: []string{"b"},
			Usage:   "Brand tag (defaults to DEVICE_BRAND)",
		},
		&cli.StringFlag{
			Name:    "model",
			Aliases: []string{"m"},
			Value:   "A",
			Usage:   "Model letter: A (alpha), B (beta) or R (release)",
		},
		&cli.IntFlag{
			Name:  "version",
			Value: 1,
			Usage: "Hardware version number",
		},
		&cli.StringFlag{
			Name:     "location",
			Aliases:  []string{"l"},
			Required: true,
			Usage:    "Three character location code",
		},
		&cli.IntFlag{
			Name:  "year",
			Value: time.Now().Year(),
			Usage: "Manufacture year (only the last two digits are encoded)",
		},
	}
}

func provisionInputFromFlags(cmd *cli.Command) (*deviceDomain.ProvisionInput, error) {
	version := cmd.Int("version")
	year := cmd.Int("year")
	if version < 0 || year < 0 {
		return nil, fmt.Errorf("version and year must not be negative")
	}
	return &deviceDomain.ProvisionInput{
		Brand:    cmd.String("brand"),
		Model:    cmd.String("model"),
		Version:  uint(version),
		Location: cmd.String("location"),
		Year:     uint(year),
	}, nil
}

func getDeviceIDCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "generate-device-id",
			Usage: "Generate device identifiers without registering them",
			Flags: append(identifierFlags(),
				&cli.IntFlag{
					Name:    "count",
					Aliases: []string{"c"},
					Value:   1,
					Usage:   "Number of identifiers to generate",
				},
				formatFlag(),
			),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				codec, err := container.Codec()
				if err != nil {
					return err
				}

				input, err := provisionInputFromFlags(cmd)
				if err != nil {
					return err
				}
				if input.Brand == "" {
					input.Brand = cfg.DeviceBrand
				}

				return commands.RunGenerateDeviceID(
					codec,
					commands.DefaultIO().Writer,
					service.BuildInput{
						Brand:    input.Brand,
						Model:    input.Model,
						Version:  input.Version,
						Location: input.Location,
						Year:     input.Year,
					},
					int(cmd.Int("count")),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "parse-device-id",
			Usage: "Decode a device identifier into its components",
			Flags: []cli.Flag{deviceIDFlag(), formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				codec, err := container.Codec()
				if err != nil {
					return err
				}

				return commands.RunParseDeviceID(
					codec,
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "validate-device-id",
			Usage: "Check the structure and checksum of a device identifier",
			Flags: []cli.Flag{deviceIDFlag(), formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				codec, err := container.Codec()
				if err != nil {
					return err
				}

				return commands.RunValidateDeviceID(
					codec,
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.String("format"),
				)
			},
		},
	}
}

func getDeviceCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "provision-device",
			Usage: "Generate and register a device identifier",
			Flags: append(identifierFlags(), formatFlag()),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.DeviceUseCase()
				if err != nil {
					return err
				}

				input, err := provisionInputFromFlags(cmd)
				if err != nil {
					return err
				}

				return commands.RunProvisionDevice(
					ctx,
					useCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					input,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "provision-batch",
			Usage: "Register a batch of devices sharing the same fields",
			Flags: append(identifierFlags(),
				&cli.IntFlag{
					Name:     "count",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "Number of devices to provision",
				},
				formatFlag(),
			),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.DeviceUseCase()
				if err != nil {
					return err
				}

				input, err := provisionInputFromFlags(cmd)
				if err != nil {
					return err
				}

				return commands.RunProvisionBatch(
					ctx,
					useCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					input,
					int(cmd.Int("count")),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "list-devices",
			Usage: "List registered devices, newest first",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "offset",
					Value: 0,
					Usage: "Number of devices to skip",
				},
				&cli.IntFlag{
					Name:  "limit",
					Value: 50,
					Usage: "Maximum number of devices to list",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.DeviceUseCase()
				if err != nil {
					return err
				}

				return commands.RunListDevices(
					ctx,
					useCase,
					commands.DefaultIO().Writer,
					int(cmd.Int("offset")),
					int(cmd.Int("limit")),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "revoke-device",
			Usage: "Permanently revoke a registered device",
			Flags: []cli.Flag{deviceIDFlag(), formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.DeviceUseCase()
				if err != nil {
					return err
				}

				return commands.RunRevokeDevice(
					ctx,
					useCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.String("format"),
				)
			},
		},
	}
}
