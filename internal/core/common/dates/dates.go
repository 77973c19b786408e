// Package dates produces the IST timestamps the passbook APIs expect.
package dates

import "time"

const gatewayTimeLayout = "2006-01-02T15:04:05-07:00"

var ist = time.FixedZone("IST", 5*3600+1800)

// Now returns the current time formatted as the gateway's
// YYYY-MM-DDTHH:mm:ss+05:30 timestamp.
func Now() string {
	return time.Now().In(ist).Format(gatewayTimeLayout)
}

// DaysBack returns the timestamp n days before now, in the same format.
func DaysBack(n int) string {
	return time.Now().In(ist).AddDate(0, 0, -n).Format(gatewayTimeLayout)
}

// Parse reads a gateway-formatted timestamp.
func Parse(s string) (time.Time, error) {
	return time.Parse(gatewayTimeLayout, s)
}

// WithinWindow reports whether from..to parses and spans at most maxDays.
func WithinWindow(from, to string, maxDays int) bool {
	start, err := Parse(from)
	if err != nil {
		return false
	}
	end, err := Parse(to)
	if err != nil {
		return false
	}
	if end.Before(start) {
		return false
	}
	return end.Sub(start) <= time.Duration(maxDays)*24*time.Hour
}
