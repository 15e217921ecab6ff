package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/peawormsworth/Finance-BitPay-API/pkg/bitpay"
	"github.com/peawormsworth/Finance-BitPay-API/pkg/qr"
	"github.com/peawormsworth/Finance-BitPay-API/pkg/telemetry"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
)

func Invoice(isDebug *bool) *cli.Command {
	return &cli.Command{
		Name:  "invoice",
		Usage: "create and inspect invoices on the payment gateway",
		Subcommands: []*cli.Command{
			InvoiceCreate(isDebug),
			InvoiceGet(isDebug),
		},
		Before: telemetry.BeforeCommand,
		After:  telemetry.AfterCommand,
	}
}

func InvoiceCreate(isDebug *bool) *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "create a new invoice and print its payment URL",
		Flags: append([]cli.Flag{
			&cli.Float64Flag{
				Name:     "price",
				Aliases:  []string{"p"},
				Usage:    "the amount to charge, in the given currency",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "currency",
				Aliases:  []string{"c"},
				Usage:    "the three-letter code of the pricing currency, e.g. USD or BTC",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "pos-data",
				Usage: "a passthru field echoed back on every status notification",
			},
			&cli.StringFlag{
				Name:  "notification-url",
				Usage: "the URL the gateway calls when the invoice status changes",
			},
			&cli.StringFlag{
				Name:  "notification-email",
				Usage: "the email address to notify on status changes",
			},
			&cli.StringFlag{
				Name:  "redirect-url",
				Usage: "where the buyer is sent after completing the payment",
			},
			&cli.StringFlag{
				Name:  "speed",
				Usage: "the confirmation speed, possible values are: high, medium, low",
			},
			&cli.BoolFlag{
				Name:  "full-notifications",
				Usage: "notify on every status change instead of only on confirmation",
			},
			&cli.StringFlag{
				Name:  "order-id",
				Usage: "the merchant order id to show on the invoice",
			},
			&cli.StringFlag{
				Name:  "item-desc",
				Usage: "a description of the purchased item",
			},
			&cli.StringFlag{
				Name:  "item-code",
				Usage: "the merchant item code",
			},
			&cli.BoolFlag{
				Name:  "physical",
				Usage: "mark the purchase as a physical good",
			},
			&cli.StringFlag{
				Name:  "buyer-name",
				Usage: "the buyer's full name",
			},
			&cli.StringFlag{
				Name:  "buyer-email",
				Usage: "the buyer's email address",
			},
			&cli.StringFlag{
				Name:  "buyer-address1",
				Usage: "the first line of the buyer's address",
			},
			&cli.StringFlag{
				Name:  "buyer-address2",
				Usage: "the second line of the buyer's address",
			},
			&cli.StringFlag{
				Name:  "buyer-city",
				Usage: "the buyer's city",
			},
			&cli.StringFlag{
				Name:  "buyer-state",
				Usage: "the buyer's state or province",
			},
			&cli.StringFlag{
				Name:  "buyer-zip",
				Usage: "the buyer's postal code",
			},
			&cli.StringFlag{
				Name:  "buyer-country",
				Usage: "the buyer's country",
			},
			&cli.StringFlag{
				Name:  "buyer-phone",
				Usage: "the buyer's phone number",
			},
			&cli.StringFlag{
				Name:  "qr",
				Usage: "write a QR code of the payment URL to the given PNG file",
			},
			&cli.IntFlag{
				Name:  "qr-size",
				Usage: "the size of the QR code in pixels",
				Value: qr.DefaultSize,
			},
		}, gatewayFlags()...),
		Before: telemetry.BeforeCommand,
		After:  telemetry.AfterCommand,
		Action: func(c *cli.Context) error {
			defer RecoverFromPanic()
			output := strings.ToLower(c.String("output"))

			client, err := setUpGatewayClient(c, *isDebug)
			if err != nil {
				return err
			}

			req := &bitpay.InvoiceCreateRequest{
				Price:    c.Float64("price"),
				Currency: strings.ToUpper(c.String("currency")),

				PosData:           c.String("pos-data"),
				NotificationURL:   c.String("notification-url"),
				TransactionSpeed:  c.String("speed"),
				FullNotifications: c.Bool("full-notifications"),
				NotificationEmail: c.String("notification-email"),
				RedirectURL:       c.String("redirect-url"),

				OrderID:  c.String("order-id"),
				ItemDesc: c.String("item-desc"),
				ItemCode: c.String("item-code"),
				Physical: c.Bool("physical"),

				BuyerName:     c.String("buyer-name"),
				BuyerAddress1: c.String("buyer-address1"),
				BuyerAddress2: c.String("buyer-address2"),
				BuyerCity:     c.String("buyer-city"),
				BuyerState:    c.String("buyer-state"),
				BuyerZip:      c.String("buyer-zip"),
				BuyerCountry:  c.String("buyer-country"),
				BuyerEmail:    c.String("buyer-email"),
				BuyerPhone:    c.String("buyer-phone"),
			}

			invoice, err := client.CreateInvoice(c.Context, req)
			if err != nil {
				printError(err, output, "Failed to create the invoice")
				return cli.Exit("", 1)
			}

			if output == "json" {
				js, err := json.Marshal(invoice)
				if err != nil {
					printErrorJSON(err)
					return cli.Exit("", 1)
				}
				fmt.Println(string(js))
			} else {
				fmt.Println()
				successPrinter.Println("Invoice created successfully.")
				fmt.Println()
				printInvoice(invoice)
			}

			if qrPath := c.String("qr"); qrPath != "" {
				png, err := qr.Encode(invoice.URL, c.Int("qr-size"))
				if err != nil {
					printError(err, output, "Failed to render the payment QR code")
					return cli.Exit("", 1)
				}

				if err := afero.WriteFile(fs, qrPath, png, 0o644); err != nil {
					printError(err, output, "Failed to write the QR code to "+qrPath)
					return cli.Exit("", 1)
				}

				printSuccessForOutput(output, "QR code written to "+qrPath)
			}

			return nil
		},
	}
}

func InvoiceGet(isDebug *bool) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "fetch the current state of an invoice",
		ArgsUsage: "[invoice id]",
		Flags:     gatewayFlags(),
		Before:    telemetry.BeforeCommand,
		After:     telemetry.AfterCommand,
		Action: func(c *cli.Context) error {
			defer RecoverFromPanic()
			output := strings.ToLower(c.String("output"))

			if c.Args().Len() != 1 {
				printError(errors.New("please give an invoice id, e.g. `bitpay invoice get <invoice-id>`"), output, "Failed to fetch the invoice")
				return cli.Exit("", 1)
			}

			client, err := setUpGatewayClient(c, *isDebug)
			if err != nil {
				return err
			}

			invoice, err := client.GetInvoice(c.Context, c.Args().First())
			if err != nil {
				printError(err, output, "Failed to fetch the invoice")
				return cli.Exit("", 1)
			}

			if output == "json" {
				js, err := json.Marshal(invoice)
				if err != nil {
					printErrorJSON(err)
					return cli.Exit("", 1)
				}
				fmt.Println(string(js))
				return nil
			}

			fmt.Println()
			printInvoice(invoice)

			return nil
		},
	}
}

// gatewayFlags are shared by every command that talks to the gateway.
func gatewayFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "environment",
			Aliases: []string{"env"},
			Usage:   "the environment to use as defined in .bitpay.yml",
		},
		&cli.BoolFlag{
			Name:  "force",
			Usage: "do not ask for confirmation in a production environment",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "the output type, possible values are: plain, json",
		},
		&cli.StringFlag{
			Name:  "config-file",
			Usage: "the path to the .bitpay.yml file",
		},
	}
}

// setUpGatewayClient loads the configuration, applies the environment choice
// and builds an authenticated client out of it.
func setUpGatewayClient(c *cli.Context, isDebug bool) (*bitpay.Client, error) {
	output := strings.ToLower(c.String("output"))
	logger := makeLogger(isDebug)

	cm, err := loadConfig(c)
	if err != nil {
		printError(err, output, "Failed to load the configuration")
		return nil, cli.Exit("", 1)
	}

	if err := switchEnvironment(c.String("environment"), c.Bool("force"), cm, os.Stdin); err != nil {
		return nil, err
	}

	client, err := clientFromEnvironment(cm.SelectedEnvironment, logger)
	if err != nil {
		printError(err, output, "Failed to set up the gateway client")
		return nil, cli.Exit("", 1)
	}

	return client, nil
}

func printInvoice(invoice *bitpay.Invoice) {
	fmt.Printf("  %s %s\n", faint("ID:"), invoice.ID)
	fmt.Printf("  %s %s\n", faint("URL:"), invoice.URL)
	fmt.Printf("  %s %s\n", faint("Status:"), formatStatus(invoice.Status))
	fmt.Printf("  %s %s %s\n", faint("Price:"), invoice.Price.String(), invoice.Currency)
	fmt.Printf("  %s %s BTC\n", faint("BTC price:"), invoice.BTCPrice.String())

	if invoice.BTCPaid != "" && invoice.BTCPaid != "0" {
		fmt.Printf("  %s %s BTC\n", faint("BTC paid:"), invoice.BTCPaid.String())
	}

	if !invoice.ExpirationTime.IsZero() {
		fmt.Printf("  %s %s\n", faint("Expires:"), invoice.ExpirationTime.Format(time.RFC3339))
	}

	if invoice.ExceptionStatus != bitpay.ExceptionNone {
		warningPrinter.Printf("  The invoice has a payment exception: %s\n", invoice.ExceptionStatus)
	}
}

func formatStatus(status bitpay.InvoiceStatus) string {
	switch status {
	case bitpay.InvoiceStatusPaid, bitpay.InvoiceStatusConfirmed, bitpay.InvoiceStatusComplete:
		return successPrinter.Sprint(string(status))
	case bitpay.InvoiceStatusExpired, bitpay.InvoiceStatusInvalid:
		return errorPrinter.Sprint(string(status))
	case bitpay.InvoiceStatusNew:
		return infoPrinter.Sprint(string(status))
	default:
		return string(status)
	}
}
