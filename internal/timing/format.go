package timing

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
)

const bytesInMiB = 1024 * 1024

// FormatSummary renders every stopped timer as a Server-Timing metric, joined
// in completion order. It returns an empty string when nothing was stopped.
func (r *Registry) FormatSummary() string {
	segments := lo.Map(r.durationOrder, func(name string, _ int) string {
		return fmt.Sprintf(`%s;dur=%.2f;desc="%s"`, name, r.durations[name].Duration, r.description(name))
	})
	return strings.Join(segments, ", ")
}

// MemoryUsageHeader describes the whole process memory at the moment of the
// call. It is empty when memory is not tracked.
func (r *Registry) MemoryUsageHeader() string {
	if r.memory == nil {
		return ""
	}
	return fmt.Sprintf("Current: %.2f MB; Peak: %.2f MB",
		float64(r.memory.Usage())/bytesInMiB,
		float64(r.memory.Peak())/bytesInMiB,
	)
}

func (r *Registry) description(name string) string {
	if r.memory != nil {
		return fmt.Sprintf("Memory Usage: %.2f KB, Peak Memory: %.2f KB", r.MemoryUsageKB(name), r.PeakMemoryKB(name))
	}
	return Label(name)
}

// Label turns a timer name into a readable description: every rune that is
// not a letter or digit becomes an underscore and the first letter is upper
// cased.
func Label(name string) string {
	label := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, name)

	first, size := utf8.DecodeRuneInString(label)
	if first == utf8.RuneError {
		return label
	}
	return string(unicode.ToUpper(first)) + label[size:]
}
