package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/facturas/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "facturas.xlsx")
	output := filepath.Join(dir, "out", "a3.xlsx")

	require.NoError(t, os.WriteFile(input, testutil.InvoiceWorkbook(t,
		testutil.Invoice(map[string]any{"Residencia": "Nacional", "% IVA 1": 21}),
		testutil.Invoice(map[string]any{"Residencia": "Nacional", "Suplidos": "12,5"}),
	), 0o600))

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"classify", input, "--output", output, "--progress=false"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "IVA 21 & 10")
	assert.Contains(t, stdout.String(), "Suplidos")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	names, _ := testutil.Sheets(t, data)
	assert.Equal(t, []string{"IVA 21 & 10", "Suplidos"}, names)
}
