package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/peawormsworth/Finance-BitPay-API/pkg/bitpay"
	"github.com/peawormsworth/Finance-BitPay-API/pkg/telemetry"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func Ledger(isDebug *bool) *cli.Command {
	return &cli.Command{
		Name:  "ledger",
		Usage: "fetch the merchant ledger entries for a currency",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "currency",
				Aliases:  []string{"c"},
				Usage:    "the currency of the ledger to fetch, e.g. USD or BTC",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "start-date",
				Usage: "the first day to include, in the YYYY-MM-DD format",
			},
			&cli.StringFlag{
				Name:  "end-date",
				Usage: "the last day to include, in the YYYY-MM-DD format",
			},
			&cli.BoolFlag{
				Name:  "export",
				Usage: "export the entries to a CSV file",
			},
		}, gatewayFlags()...),
		Before: telemetry.BeforeCommand,
		After:  telemetry.AfterCommand,
		Action: func(c *cli.Context) error {
			defer RecoverFromPanic()
			output := strings.ToLower(c.String("output"))

			startDate, err := parseLedgerDate(c.String("start-date"))
			if err != nil {
				printError(err, output, "Failed to read the start date")
				return cli.Exit("", 1)
			}

			endDate, err := parseLedgerDate(c.String("end-date"))
			if err != nil {
				printError(err, output, "Failed to read the end date")
				return cli.Exit("", 1)
			}

			client, err := setUpGatewayClient(c, *isDebug)
			if err != nil {
				return err
			}

			entries, err := client.GetLedger(c.Context, &bitpay.LedgerRequest{
				Currency:  strings.ToUpper(c.String("currency")),
				StartDate: startDate,
				EndDate:   endDate,
			})
			if err != nil {
				printError(err, output, "Failed to fetch the ledger")
				return cli.Exit("", 1)
			}

			if c.Bool("export") {
				if len(entries) == 0 {
					printWarningForOutput(output, "The ledger has no entries for the given range, nothing to export.")
					return nil
				}

				exportPath, err := exportLedgerToCSV(entries)
				if err != nil {
					printError(err, output, "Failed to export the ledger to CSV")
					return cli.Exit("", 1)
				}

				printSuccessForOutput(output, "Ledger exported to "+exportPath)
				return nil
			}

			if output == "json" {
				js, err := json.Marshal(entries)
				if err != nil {
					printErrorJSON(err)
					return cli.Exit("", 1)
				}
				fmt.Println(string(js))
				return nil
			}

			rows := make([][]interface{}, len(entries))
			for i, entry := range entries {
				rows[i] = []interface{}{
					entry.Code,
					entry.Amount,
					entry.Type,
					entry.Description,
					entry.Timestamp,
					entry.InvoiceID,
				}
			}
			printTable([]string{"Code", "Amount", "Type", "Description", "Timestamp", "Invoice"}, rows)

			return nil
		},
	}
}

func parseLedgerDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, errors.Errorf("dates must be given in the YYYY-MM-DD format, got '%s'", value)
	}

	return t, nil
}

func exportLedgerToCSV(entries []bitpay.LedgerEntry) (string, error) {
	exportPath := fmt.Sprintf("bitpay_ledger_%s.csv", time.Now().Format("2006-01-02_15-04-05"))

	file, err := os.Create(exportPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err = writer.Write([]string{"code", "amount", "type", "description", "timestamp", "tx_type", "invoice_id", "invoice_amount", "invoice_currency"}); err != nil {
		return "", err
	}

	for _, entry := range entries {
		row := []string{
			entry.Code,
			entry.Amount.String(),
			entry.Type,
			entry.Description,
			entry.Timestamp,
			entry.TxType,
			entry.InvoiceID,
			entry.InvoiceAmount.String(),
			entry.InvoiceCurrency,
		}
		if err = writer.Write(row); err != nil {
			return "", err
		}
	}

	return exportPath, nil
}
