package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}

	err := app.Run(append([]string{"karigarctl"}, args...))
	return out.String(), err
}

const ordersCSV = "Order No,Type,Product,Design,Weight,Size,Qty\n" +
	"5001,CO,Ring,a-12,4.5,12,1\n" +
	"5002,XX,Chain,b-7,10,18,2\n" +
	"5003,RB,Bangle,c 1,20,2.6,6\n"

const masterCSV = "Design,Generic Name,Karigar\n" +
	"A-12,Ring,Ravi\n" +
	"C 1,Bangle,\n"

func TestParseCommand(t *testing.T) {
	orders := writeFile(t, "orders.csv", ordersCSV)

	testCases := []struct {
		testName string
		args     []string
		contains []string
		wantErr  bool
	}{
		{
			testName: "Should print orders and row errors",
			args:     []string{"parse", orders},
			contains: []string{"A-12", "C 1", "Order Type", "строк: 3, заказов: 2, ошибок: 1"},
		},
		{
			testName: "Should default invalid type to RB",
			args:     []string{"parse", "--invalid-type", "default-rb", orders},
			contains: []string{"B-7", "строк: 3, заказов: 3, ошибок: 1"},
		},
		{
			testName: "Should reject unknown mode",
			args:     []string{"parse", "--mode", "fast", orders},
			wantErr:  true,
		},
		{
			testName: "Should require file",
			args:     []string{"parse"},
			wantErr:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			out, err := runApp(t, tc.args...)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			for _, s := range tc.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestUnmappedCommand(t *testing.T) {
	orders := writeFile(t, "orders.csv", ordersCSV)
	master := writeFile(t, "master.csv", masterCSV)

	out, err := runApp(t, "unmapped", "--master", master, orders)
	require.NoError(t, err)

	// у C 1 нет каригара, A-12 разрешён полностью
	assert.Contains(t, out, "C 1")
	assert.NotContains(t, out, "A-12")
	assert.Contains(t, out, "дизайнов без справочника: 1")
}

func TestExportCommand(t *testing.T) {
	orders := writeFile(t, "orders.csv", ordersCSV)
	master := writeFile(t, "master.csv", masterCSV)
	target := filepath.Join(t.TempDir(), "out.csv")

	out, err := runApp(t, "export", "--master", master, "--format", "csv", "--out", target, orders)
	require.NoError(t, err)
	assert.Contains(t, out, "записано заказов: 2")

	file, err := os.Open(target)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Contains(t, records[1], "Ravi")
}

func TestNormalizeCommand(t *testing.T) {
	out, err := runApp(t, "normalize", " ab-1 ")
	require.NoError(t, err)
	assert.Equal(t, " ab-1 \tAB-1\n", out)
}
