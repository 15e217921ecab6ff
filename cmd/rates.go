package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/peawormsworth/Finance-BitPay-API/pkg/telemetry"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func Rates(isDebug *bool) *cli.Command {
	return &cli.Command{
		Name:  "rates",
		Usage: "list the current bitcoin exchange rates quoted by the gateway",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "currency",
				Aliases: []string{"c"},
				Usage:   "only show the rate for the given currency code",
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

			rates, err := client.GetRates(c.Context)
			if err != nil {
				printError(err, output, "Failed to fetch the exchange rates")
				return cli.Exit("", 1)
			}

			if code := c.String("currency"); code != "" {
				rate, ok := rates.Get(code)
				if !ok {
					printError(errors.Errorf("the gateway does not quote '%s'", code), output, "Failed to find the currency")
					return cli.Exit("", 1)
				}

				if output == "json" {
					js, err := json.Marshal(rate)
					if err != nil {
						printErrorJSON(err)
						return cli.Exit("", 1)
					}
					fmt.Println(string(js))
					return nil
				}

				fmt.Printf("1 BTC = %v %s %s\n", rate.Rate, rate.Code, faint("("+rate.Name+")"))
				return nil
			}

			if output == "json" {
				js, err := json.Marshal(rates)
				if err != nil {
					printErrorJSON(err)
					return cli.Exit("", 1)
				}
				fmt.Println(string(js))
				return nil
			}

			rows := make([][]interface{}, len(rates))
			for i, rate := range rates {
				rows[i] = []interface{}{rate.Code, rate.Name, rate.Rate}
			}
			printTable([]string{"Code", "Name", "Rate"}, rows)

			return nil
		},
	}
}

func printTable(columnNames []string, rows [][]interface{}) {
	if len(rows) == 0 {
		fmt.Println("No data available")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)

	headers := make(table.Row, len(columnNames))
	for i, colName := range columnNames {
		headers[i] = colName
	}
	t.AppendHeader(headers)

	for _, row := range rows {
		rowData := make(table.Row, len(row))
		for i, cell := range row {
			rowData[i] = fmt.Sprintf("%v", cell)
		}
		t.AppendRow(rowData)
	}

	t.SetStyle(table.StyleLight)
	t.Render()
}
