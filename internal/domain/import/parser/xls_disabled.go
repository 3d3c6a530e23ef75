//go:build noxls

package parser

// XLSAvailable reports whether this build can read legacy .xls workbooks.
const XLSAvailable = false

func readXLS([]byte) ([]sheet, error) {
	return nil, errNoXLSReader
}
