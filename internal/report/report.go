package report

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/clddup/F-Proxy/internal/subscribe"
)

const version = "1.2.0"

// Banner prints the startup banner.
func Banner() {
	color.New(color.FgHiCyan).Println(`  ___     ___
 | __|___| _ \_ _ _____ ___  _
 | _|___ |  _/ '_/ _ \ \ / || |
 |_|     |_| |_| \___/_\_\\_, |
                          |__/`)
	color.New(color.FgHiYellow).Printf(" F-Proxy v%s — subscription link hunter\n\n", version)
}

// Print writes the verification outcome to the console: one block per
// valid subscription and a closing count summary. Failed links stay
// silent here; their reasons were already logged at debug level.
// Returns the number of valid subscriptions.
func Print(results []subscribe.VerificationResult) int {
	green := color.New(color.FgGreen)
	valid := 0

	for _, r := range results {
		if !r.OK {
			continue
		}
		valid++
		green.Printf("[+] %s\n", r.Link)
		fmt.Printf("    source: %s\n", subscribe.BuildFullURL(r.Host, ""))
		fmt.Printf("    usage:  %s\n", r.UsageInfo)
	}

	if valid == 0 {
		color.New(color.FgYellow).Println("no valid subscriptions found")
	}
	fmt.Printf("\nchecked %d links, %d valid\n", len(results), valid)

	return valid
}
