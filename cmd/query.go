package cmd

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"agridash/database"
	"agridash/dataset"
)

var queryCmd = &cobra.Command{
	Use:   "query SQL [ARG...]",
	Short: "Run a read-only query against the warehouse and print the result",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	params := make([]any, 0, len(args)-1)
	for _, a := range args[1:] {
		params = append(params, dataset.Infer(a).Interface())
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	t, err := database.NewWarehouse(&cfg.Warehouse, log).RunQuery(ctx, args[0], params...)
	if err != nil {
		return err
	}
	if t.Width() == 0 {
		return errors.New("query returned no columns")
	}
	renderTable(t)
	return nil
}

func renderTable(t *dataset.Table) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(t.ColumnNames())
	table.SetAutoFormatHeaders(false)
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		cells := make([]string, len(row))
		for j, v := range row {
			if v.IsNull() {
				cells[j] = "NULL"
				continue
			}
			cells[j] = strings.ReplaceAll(v.Text(), "\n", " ")
		}
		table.Append(cells)
	}
	table.Render()
}
