package flags

import (
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

const defaultHTTPTimeout = 10 * time.Second

// SplitCommaSeparated splits a comma separated flag value, dropping empty entries.
func SplitCommaSeparated(value string) []string {
	var out []string
	for _, v := range strings.Split(value, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// CorsDomains returns the allowed origins of the HTTP API.
func CorsDomains(ctx *cli.Context) []string {
	return SplitCommaSeparated(ctx.String(HTTPCorsDomainFlag.Name))
}
