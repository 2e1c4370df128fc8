package profiler

import (
	"fmt"
	"io"
	"strings"

	"mishell/internal/process/result"
)

const recordHeader = "===== profiling result: command: "

// FormatReport renders the interactive four-line report.
func FormatReport(r result.UsageReport) string {
	var b strings.Builder
	writeReport(&b, r)
	return b.String()
}

// FormatRecord renders one log record: header, report and a separating
// blank line.
func FormatRecord(r result.UsageReport) string {
	var b strings.Builder
	b.WriteString(recordHeader)
	b.WriteString(r.CommandLine())
	b.WriteByte('\n')
	writeReport(&b, r)
	b.WriteByte('\n')
	return b.String()
}

// WriteReport writes the interactive report to w.
func WriteReport(w io.Writer, r result.UsageReport) error {
	_, err := io.WriteString(w, FormatReport(r))
	return err
}

func writeReport(b *strings.Builder, r result.UsageReport) {
	fmt.Fprintf(b, "real: %.6f s\n", r.Wall.Seconds())
	fmt.Fprintf(b, "user: %.6f s\n", r.Usage.UserCPU.Seconds())
	fmt.Fprintf(b, "sys:  %.6f s\n", r.Usage.SystemCPU.Seconds())
	fmt.Fprintf(b, "maxrss: %d\n", r.Usage.MaxRSS)
}
