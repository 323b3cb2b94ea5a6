package widget

import "strconv"

// FormatMB renders a byte count in MiB with two decimals, e.g. "2.00".
func FormatMB(size int64) string {
	return strconv.FormatFloat(float64(size)/(1024*1024), 'f', 2, 64)
}

// FormatKB renders a byte count in KiB with two decimals, e.g. "1.00".
func FormatKB(size int64) string {
	return strconv.FormatFloat(float64(size)/1024, 'f', 2, 64)
}
