package model

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usdPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatMinorUnits は 279700 → "$2,797.00"。
// 計算は整数のまま行い、ここでだけ表示用に変換する。
func FormatMinorUnits(amount int64) string {
	sign := ""
	units := uint64(amount)
	if amount < 0 {
		sign = "-"
		units = uint64(-(amount + 1)) + 1
	}
	return fmt.Sprintf("%s$%s.%02d", sign, usdPrinter.Sprintf("%d", int64(units/100)), units%100)
}
