// internal/report/csv.go
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"expense-ledger/internal/balance"
)

const (
	BalanceSheetFilename    = "balance_sheet.csv"
	BalanceSheetContentType = "text/csv"
)

var balanceSheetHeader = []string{"User", "Balance"}

// WriteBalanceSheet writes the header row and one row per user, sorted by
// user name. Balances keep their full stored precision.
func WriteBalanceSheet(w io.Writer, sheet balance.Sheet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(balanceSheetHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range sheet.Rows() {
		if err := cw.Write([]string{row.User, row.Balance.String()}); err != nil {
			return fmt.Errorf("write row for %q: %w", row.User, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// BalanceSheetCSV renders the sheet into memory.
func BalanceSheetCSV(sheet balance.Sheet) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteBalanceSheet(&buf, sheet); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
