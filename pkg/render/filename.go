package render

import (
	"fmt"
	"strconv"
	"strings"
)

// Filename builds the screenshot file name for one (record, mode) pair:
//
//	trip_{index}_{duration}min_{miles}miles_v{version}_{mode}.png
//
// Numbers use their shortest decimal form with any decimal point replaced
// by an underscore, so fractional values stay filesystem-safe.
func Filename(tripIndex int, walkingMinutes, miles float64, version int, mode string) string {
	return fmt.Sprintf("trip_%d_%smin_%smiles_v%d_%s.png",
		tripIndex,
		formatNumber(walkingMinutes),
		formatNumber(miles),
		version,
		mode)
}

func formatNumber(v float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(v, 'f', -1, 64), ".", "_")
}
