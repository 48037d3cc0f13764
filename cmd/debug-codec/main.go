// Debug tool to run single values through the time codec
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/thesavant42/timerange-clipboard/internal/models"
	"github.com/thesavant42/timerange-clipboard/internal/timerange"
)

func main() {
	pattern := pflag.StringP("format", "f", "", "timeFormat pattern, e.g. YYYY-MM-DDTHH:mm:ssZ")
	oneSecond := pflag.Int64P("one-second", "s", 0, "timeOneSecond, e.g. 1000 for epoch milliseconds")
	offset := pflag.StringP("offset", "o", "", "timeUtcOffset, minutes or +HH:MM")
	unit := pflag.StringP("unit", "u", "", "duration unit under --format")
	isDuration := pflag.BoolP("duration", "d", false, "treat values as durations")
	encode := pflag.BoolP("encode", "e", false, "encode epoch ms values instead of decoding")
	pflag.Parse()

	if (*pattern == "") == (*oneSecond == 0) {
		fmt.Fprintln(os.Stderr, "exactly one of --format and --one-second is required")
		os.Exit(2)
	}
	spec := models.EpochUnit(*oneSecond)
	if *pattern != "" {
		spec = models.Pattern(*pattern)
	}

	var utcOffset *models.UTCOffset
	if *offset != "" {
		if n, err := strconv.ParseFloat(*offset, 64); err == nil {
			utcOffset = models.OffsetMinutes(n)
		} else {
			utcOffset = models.OffsetText(*offset)
		}
	}
	minutes := timerange.ResolveOffset(utcOffset)

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
	})
	engine := timerange.NewEngine(logger)

	fmt.Printf("Spec: %+v\n", spec)
	fmt.Printf("Offset: %q -> %d minutes\n", *offset, minutes)

	failed := false
	for _, raw := range pflag.Args() {
		switch {
		case *encode:
			ms, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				fmt.Printf("  %s: ERROR: not epoch ms: %v\n", raw, err)
				failed = true
				continue
			}
			if *isDuration {
				fmt.Printf("  %s -> %q\n", raw, engine.EncodeDuration(ms, spec, *unit))
			} else {
				fmt.Printf("  %s (%s) -> %q\n", raw, time.UnixMilli(ms).UTC().Format(time.RFC3339Nano),
					engine.EncodeInstant(ms, spec, minutes))
			}
		case *isDuration:
			ms, ok := engine.DecodeDuration(raw, spec, *unit)
			if !ok {
				fmt.Printf("  %q: not a duration\n", raw)
				failed = true
				continue
			}
			fmt.Printf("  %q -> %d ms (%s)\n", raw, ms, time.Duration(ms)*time.Millisecond)
		default:
			ms, ok := engine.DecodeInstant(raw, spec, minutes)
			if !ok {
				fmt.Printf("  %q: not a time\n", raw)
				failed = true
				continue
			}
			fmt.Printf("  %q -> %d (%s)\n", raw, ms, time.UnixMilli(ms).UTC().Format(time.RFC3339Nano))
		}
	}
	if failed {
		os.Exit(1)
	}
}
