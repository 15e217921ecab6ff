package cmd

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peawormsworth/Finance-BitPay-API/pkg/bitpay"
)

func TestParseLedgerDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr string
	}{
		{
			name:  "empty value means no bound",
			value: "",
			want:  time.Time{},
		},
		{
			name:  "valid date",
			value: "2014-01-31",
			want:  time.Date(2014, 1, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "wrong ordering",
			value:   "31-01-2014",
			wantErr: "dates must be given in the YYYY-MM-DD format, got '31-01-2014'",
		},
		{
			name:    "not a date at all",
			value:   "yesterday",
			wantErr: "dates must be given in the YYYY-MM-DD format, got 'yesterday'",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseLedgerDate(tt.value)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

//nolint:paralleltest // the test changes the working directory
func TestExportLedgerToCSV(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer func() { require.NoError(t, os.Chdir(cwd)) }()

	entries := []bitpay.LedgerEntry{
		{
			Code:            "USD",
			Amount:          json.Number("11.28"),
			Type:            "Invoice",
			Description:     "Payment for order 1234",
			Timestamp:       "2014-01-15T19:02:22.520Z",
			TxType:          "sale",
			InvoiceID:       "5TuiNoW4zkgoCvSi2nSGAD",
			InvoiceAmount:   json.Number("11.28"),
			InvoiceCurrency: "USD",
		},
		{
			Code:        "USD",
			Amount:      json.Number("-0.55"),
			Type:        "Fee",
			Description: "Processing fee",
			Timestamp:   "2014-01-15T19:02:22.520Z",
		},
	}

	exportPath, err := exportLedgerToCSV(entries)
	require.NoError(t, err)
	assert.Contains(t, exportPath, "bitpay_ledger_")

	file, err := os.Open(exportPath)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"code", "amount", "type", "description", "timestamp", "tx_type", "invoice_id", "invoice_amount", "invoice_currency"}, records[0])
	assert.Equal(t, []string{"USD", "11.28", "Invoice", "Payment for order 1234", "2014-01-15T19:02:22.520Z", "sale", "5TuiNoW4zkgoCvSi2nSGAD", "11.28", "USD"}, records[1])
	assert.Equal(t, []string{"USD", "-0.55", "Fee", "Processing fee", "2014-01-15T19:02:22.520Z", "", "", "", ""}, records[2])
}
