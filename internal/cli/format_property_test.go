package cli

import (
	"regexp"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestProperty_FormatDurationShape(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	mmss := regexp.MustCompile(`^\d{2,}:\d{2}$`)

	properties.Property("FormatDuration always renders mm:ss", prop.ForAll(
		func(seconds float64) bool {
			formatted := FormatDuration(seconds)
			if !mmss.MatchString(formatted) {
				t.Logf("FormatDuration(%f) = %s", seconds, formatted)
				return false
			}
			secPart := formatted[strings.LastIndex(formatted, ":")+1:]
			return secPart >= "00" && secPart <= "59"
		},
		gen.Float64Range(0, 7200),
	))

	properties.TestingRun(t)
}

func TestProperty_TruncateAndPad(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("TruncateString never exceeds the limit", prop.ForAll(
		func(s string, maxLen int) bool {
			return len(TruncateString(s, maxLen)) <= maxLen
		},
		gen.AlphaString(),
		gen.IntRange(1, 40),
	))

	properties.Property("TruncateString preserves short strings", prop.ForAll(
		func(s string) bool {
			return TruncateString(s, len(s)+1) == s
		},
		gen.AlphaString(),
	))

	properties.Property("PadRight reaches at least the target length", prop.ForAll(
		func(s string, length int) bool {
			padded := PadRight(s, length)
			if len(padded) < length {
				return false
			}
			return strings.HasPrefix(padded, s)
		},
		gen.AlphaString(),
		gen.IntRange(0, 40),
	))

	properties.TestingRun(t)
}

func TestFormatExamples(t *testing.T) {
	if got := FormatScore(87.654); got != "87.7" {
		t.Errorf("FormatScore = %s", got)
	}
	if got := FormatPercent(0.8); got != "80.0%" {
		t.Errorf("FormatPercent = %s", got)
	}
	if got := FormatDuration(125); got != "02:05" {
		t.Errorf("FormatDuration = %s", got)
	}
	if got := FormatConfidence(0.725); got != "72%" {
		t.Errorf("FormatConfidence = %s", got)
	}
	if got := FormatGrade("A", 82.5); got != "A (82.5)" {
		t.Errorf("FormatGrade = %s", got)
	}
	if got := TruncateString("divergence detection", 10); got != "diverge..." {
		t.Errorf("TruncateString = %s", got)
	}
	if got := PadRight("S", 4); got != "S   " {
		t.Errorf("PadRight = %q", got)
	}
}
