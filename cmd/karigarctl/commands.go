package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/Renal37/karigar-desk/internal/design"
	"github.com/Renal37/karigar-desk/internal/ingest"
	"github.com/Renal37/karigar-desk/internal/mapping"
	"github.com/Renal37/karigar-desk/internal/models"
	"github.com/Renal37/karigar-desk/internal/sheet"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "karigarctl",
		Usage: "проверка файлов заказов и справочника дизайнов до загрузки",
		Commands: []*cli.Command{
			{
				Name:      "parse",
				Usage:     "разобрать файл заказов и показать заказы и ошибки строк",
				ArgsUsage: "<orders.xlsx|orders.csv>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "lenient", Usage: "lenient или strict"},
					&cli.StringFlag{Name: "invalid-type", Value: "reject", Usage: "reject или default-rb"},
				},
				Action: parseCommand,
			},
			{
				Name:      "mappings",
				Usage:     "показать справочник дизайнов из файла (колонки A, B, C)",
				ArgsUsage: "<master.xlsx|master.csv>",
				Action:    mappingsCommand,
			},
			{
				Name:      "unmapped",
				Usage:     "заказы, для которых справочник не даёт названия или каригара",
				ArgsUsage: "<orders.xlsx|orders.csv>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "master", Required: true, Usage: "файл справочника дизайнов"},
				},
				Action: unmappedCommand,
			},
			{
				Name:      "export",
				Usage:     "разобрать файл заказов, подставить справочник и записать плоскую таблицу",
				ArgsUsage: "<orders.xlsx|orders.csv>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "master", Usage: "файл справочника дизайнов"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "csv", Usage: "xlsx или csv"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Required: true, Usage: "куда записать результат"},
				},
				Action: exportCommand,
			},
			{
				Name:      "normalize",
				Usage:     "привести коды дизайнов к каноническому виду",
				ArgsUsage: "<code>...",
				Action:    normalizeCommand,
			},
		},
	}
}

func parseCommand(c *cli.Context) error {
	result, err := parseOrdersFile(c.Context, c.Args().First(), c.String("mode"), c.String("invalid-type"))
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(c.App.Writer)
	table.Header("Order ID", "Type", "Design", "Product", "Qty", "Weight", "Order Date")
	for _, order := range result.Orders {
		if err := table.Append([]string{
			order.OrderID,
			string(order.OrderType),
			order.Design,
			order.Product,
			strconv.FormatInt(order.Quantity, 10),
			strconv.FormatFloat(order.Weight, 'f', -1, 64),
			orderDate(order),
		}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	if err := printRowErrors(c.App.Writer, result.Errors); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "строк: %d, заказов: %d, ошибок: %d\n", result.Total, len(result.Orders), len(result.Errors))
	return nil
}

func mappingsCommand(c *cli.Context) error {
	mappings, err := readMappingsFile(c.Args().First())
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(c.App.Writer)
	table.Header("Design", "Generic Name", "Karigar")
	for _, m := range mappings {
		if err := table.Append([]string{m.DesignCode, m.GenericName, m.KarigarName}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "дизайнов: %d\n", mapping.NewTable(mappings).Len())
	return nil
}

func unmappedCommand(c *cli.Context) error {
	mappings, err := readMappingsFile(c.String("master"))
	if err != nil {
		return err
	}
	result, err := parseOrdersFile(c.Context, c.Args().First(), ingest.ModeLenient.String(), "")
	if err != nil {
		return err
	}

	report := mapping.NewTable(mappings).UnmappedReport(result.Orders)

	table := tablewriter.NewWriter(c.App.Writer)
	table.Header("Design", "Orders", "No Generic Name", "No Karigar")
	for _, group := range report {
		if err := table.Append([]string{
			group.DesignCode,
			strconv.Itoa(group.Count),
			yesNo(group.MissingGenericName),
			yesNo(group.MissingKarigarName),
		}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "дизайнов без справочника: %d\n", len(report))
	return nil
}

func exportCommand(c *cli.Context) error {
	format, err := sheet.ParseFormat(c.String("format"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	result, err := parseOrdersFile(c.Context, c.Args().First(), ingest.ModeLenient.String(), "")
	if err != nil {
		return err
	}

	orders := result.Orders
	if master := c.String("master"); master != "" {
		mappings, err := readMappingsFile(master)
		if err != nil {
			return err
		}
		table := mapping.NewTable(mappings)
		for i := range orders {
			orders[i] = table.Enrich(orders[i])
		}
	}

	out, err := os.Create(c.String("out"))
	if err != nil {
		return err
	}
	defer out.Close()

	if err := sheet.WriteOrders(out, format, orders); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "записано заказов: %d\n", len(orders))
	return out.Close()
}

func normalizeCommand(c *cli.Context) error {
	for _, code := range c.Args().Slice() {
		fmt.Fprintf(c.App.Writer, "%s\t%s\n", code, design.Normalize(code))
	}
	return nil
}

func parseOrdersFile(ctx context.Context, path, mode, invalidType string) (ingest.Result, error) {
	if path == "" {
		return ingest.Result{}, cli.Exit("не указан файл заказов", 2)
	}

	parseMode, err := ingest.ParseMode(mode)
	if err != nil {
		return ingest.Result{}, cli.Exit(err.Error(), 2)
	}
	policy, err := ingest.ParseInvalidTypePolicy(invalidType)
	if err != nil {
		return ingest.Result{}, cli.Exit(err.Error(), 2)
	}

	rows, err := readRows(path)
	if err != nil {
		return ingest.Result{}, err
	}

	return ingest.Parse(ctx, rows, ingest.Options{
		Mode:        parseMode,
		InvalidType: policy,
		Now:         time.Now,
	})
}

func readRows(path string) ([]ingest.Row, error) {
	format, err := sheet.DetectFormat(path)
	if err != nil {
		return nil, cli.Exit(err.Error(), 2)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return sheet.ReadOrders(file, format)
}

func readMappingsFile(path string) ([]models.DesignMapping, error) {
	if path == "" {
		return nil, cli.Exit("не указан файл справочника", 2)
	}

	format, err := sheet.DetectFormat(path)
	if err != nil {
		return nil, cli.Exit(err.Error(), 2)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return sheet.ReadMappings(file, format)
}

func printRowErrors(w io.Writer, errs []ingest.ParseError) error {
	if len(errs) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Row", "Field", "Message")
	for _, e := range errs {
		if err := table.Append([]string{strconv.Itoa(e.Row), e.Field, e.Message}); err != nil {
			return err
		}
	}
	return table.Render()
}

func orderDate(order models.Order) string {
	if order.OrderDate == nil {
		return ""
	}
	return order.OrderDate.Format("2006-01-02")
}

func yesNo(value bool) string {
	if value {
		return "да"
	}
	return ""
}
