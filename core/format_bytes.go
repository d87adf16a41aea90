package core

import "fmt"

// Binary size units, largest first. The report prints VRAM the way
// nvidia-smi and NVML count it, in 1024 steps.
const (
	KiB int64 = 1 << 10
	MiB int64 = 1 << 20
	GiB int64 = 1 << 30
	TiB int64 = 1 << 40
)

var sizeUnits = []struct {
	size   int64
	suffix string
}{
	{TiB, "TB"},
	{GiB, "GB"},
	{MiB, "MB"},
	{KiB, "KB"},
}

// FormatBytes renders n with two decimals in the largest unit that fits,
// e.g. 25769803776 as "24.00 GB". Sizes under 1 KiB print as plain bytes and
// negative sizes as "0 B".
func FormatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	for _, u := range sizeUnits {
		if n >= u.size {
			return fmt.Sprintf("%.2f %s", float64(n)/float64(u.size), u.suffix)
		}
	}
	return fmt.Sprintf("%d B", n)
}
