package cli

import (
	"fmt"
	"strings"
	"time"
)

// FormatScore formats a final score with one decimal place.
func FormatScore(score float64) string {
	return fmt.Sprintf("%.1f", score)
}

// FormatPercent formats a fraction as a percentage.
func FormatPercent(value float64) string {
	return fmt.Sprintf("%.1f%%", value*100)
}

// FormatDuration formats seconds as a compact mm:ss string.
func FormatDuration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}

// FormatConfidence formats a confidence fraction.
func FormatConfidence(conf float64) string {
	return fmt.Sprintf("%.0f%%", conf*100)
}

// FormatGrade decorates a letter grade with its score band.
func FormatGrade(grade string, score float64) string {
	return fmt.Sprintf("%s (%.1f)", grade, score)
}

// TruncateString truncates a string to maxLen with an ellipsis.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// PadRight pads a string to the given length.
func PadRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
