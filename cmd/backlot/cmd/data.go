package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"backlot/internal/logger"
	"backlot/market"
	"backlot/store"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Manage the local bar cache",
}

var dataImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import bars from a CSV or Parquet file into the SQLite cache",
	Args:  cobra.ExactArgs(1),
	RunE:  runDataImport,
}

var dataExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export cached bars to a CSV or Parquet file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDataExport,
}

var dataListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached symbols and their date ranges",
	RunE:  runDataList,
}

var (
	dataDBPath   string
	dataSymbol   string
	dataInterval string
)

func init() {
	rootCmd.AddCommand(dataCmd)
	dataCmd.AddCommand(dataImportCmd, dataExportCmd, dataListCmd)

	dataCmd.PersistentFlags().StringVarP(&dataDBPath, "db", "d", "./bars.sqlite", "path to the SQLite bar cache")
	dataCmd.PersistentFlags().StringVarP(&dataSymbol, "symbol", "s", "", "symbol (required for import/export)")
	dataCmd.PersistentFlags().StringVarP(&dataInterval, "interval", "i", "1d", "bar interval (1d, 1w, 1h)")
}

func runDataImport(cmd *cobra.Command, args []string) error {
	if dataSymbol == "" {
		return fmt.Errorf("--symbol is required")
	}
	path := args[0]
	interval := market.Interval(dataInterval)

	var series *market.Series
	var err error
	switch {
	case strings.HasSuffix(path, ".parquet"):
		series, err = store.ImportParquet(path, dataSymbol, interval)
	default:
		series, err = store.LoadCSV(path, dataSymbol, interval)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	db, err := store.OpenSQLite(dataDBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.SaveBars(series)
	if err != nil {
		return fmt.Errorf("save bars: %w", err)
	}
	logger.Info().Str("symbol", dataSymbol).Int("bars", n).Str("db", dataDBPath).Msg("imported")
	return nil
}

func runDataExport(cmd *cobra.Command, args []string) error {
	if dataSymbol == "" {
		return fmt.Errorf("--symbol is required")
	}
	path := args[0]

	db, err := store.OpenSQLite(dataDBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	series, err := db.LoadBars(dataSymbol, market.Interval(dataInterval))
	if err != nil {
		return err
	}
	if series.Len() == 0 {
		return fmt.Errorf("no cached bars for %s/%s", dataSymbol, dataInterval)
	}

	switch {
	case strings.HasSuffix(path, ".parquet"):
		err = store.ExportParquet(path, series)
	default:
		err = store.WriteCSV(path, series)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.Info().Str("symbol", dataSymbol).Int("bars", series.Len()).Str("file", path).Msg("exported")
	return nil
}

func runDataList(cmd *cobra.Command, args []string) error {
	db, err := store.OpenSQLite(dataDBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	symbols, err := db.Symbols()
	if err != nil {
		return err
	}
	if len(symbols) == 0 {
		fmt.Println("no cached bars")
		return nil
	}

	interval := market.Interval(dataInterval)
	for _, sym := range symbols {
		first, last, err := db.DateRange(sym, interval)
		if err != nil {
			fmt.Printf("%-12s (no %s bars)\n", sym, interval)
			continue
		}
		fmt.Printf("%-12s %s .. %s\n", sym, first.Format("2006-01-02"), last.Format("2006-01-02"))
	}
	return nil
}
