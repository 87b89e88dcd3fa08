package main

import (
	"fmt"
	"io"
	"strings"
)

// printTablesLine writes `.tables` output: names space-separated, in
// catalog order (§6).
func printTablesLine(w io.Writer, names []string) {
	fmt.Fprintln(w, strings.Join(names, " "))
}

// printDBInfo writes `.dbinfo` output (§6: N counts every schema row).
func printDBInfo(w io.Writer, rowCount int) {
	fmt.Fprintf(w, "number of tables: %d\n", rowCount)
}

// printCount writes the `SELECT COUNT(*)` result: a bare decimal integer.
func printCount(w io.Writer, n int) {
	fmt.Fprintln(w, n)
}

// printRows writes one line per row, columns pipe-joined, values rendered
// with Value.Display (§6).
func printRows(w io.Writer, rows [][]Value) {
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = v.Display()
		}
		fmt.Fprintln(w, strings.Join(cells, "|"))
	}
}
