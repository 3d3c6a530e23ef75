//go:build !noxls

package parser

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/extrame/xls"
)

// XLSAvailable reports whether this build can read legacy .xls workbooks.
const XLSAvailable = true

func readXLS(content []byte) (sheets []sheet, err error) {
	wb, err := xls.OpenReader(bytes.NewReader(content), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	if wb == nil {
		return nil, errors.New("open workbook: no workbook stream")
	}

	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		sh := sheet{name: ws.Name}
		for r := 0; r <= int(ws.MaxRow); r++ {
			if row, ok := xlsRow(ws, r); ok {
				sh.rows = append(sh.rows, row)
			}
		}
		sheets = append(sheets, sh)
	}
	return sheets, nil
}

// xlsRow reads one row. The reader panics on rows that hold no cells, so
// those are reported as absent.
func xlsRow(ws *xls.WorkSheet, r int) (cells []string, ok bool) {
	defer func() {
		if recover() != nil {
			cells, ok = nil, false
		}
	}()

	row := ws.Row(r)
	if row == nil {
		return nil, false
	}
	last := row.LastCol()
	cells = make([]string, 0, last+1)
	for c := 0; c <= last; c++ {
		cells = append(cells, row.Col(c))
	}
	return cells, true
}
