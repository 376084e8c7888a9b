package lyrics

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/lunamir/aria/internal/core"
)

// lrcLine matches one timestamped LRC line: [mm:ss] or [mm:ss.xx] or
// [mm:ss.xxx] followed by the lyric text.
var lrcLine = regexp.MustCompile(`\[(\d{2}):(\d{2})(?:\.(\d{2,3}))?\](.*)`)

// ParseLRC parses an LRC-format payload into synced lyric lines, sorted
// ascending by time. Lines with empty text are dropped.
func ParseLRC(raw string) *core.Lyrics {
	var lines []core.LyricLine
	for _, match := range lrcLine.FindAllStringSubmatch(raw, -1) {
		minutes, _ := strconv.Atoi(match[1])
		seconds, _ := strconv.Atoi(match[2])
		millis := 0
		if match[3] != "" {
			frac := match[3]
			for len(frac) < 3 {
				frac += "0"
			}
			millis, _ = strconv.Atoi(frac)
		}

		text := strings.TrimSpace(match[4])
		if text == "" {
			continue
		}

		lines = append(lines, core.LyricLine{
			Time: float64(minutes*60+seconds) + float64(millis)/1000,
			Text: text,
		})
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Time < lines[j].Time
	})

	return &core.Lyrics{Synced: true, Lines: lines}
}

// FormatLRCTime renders a seconds offset in LRC timestamp form, mm:ss.xx.
func FormatLRCTime(seconds float64) string {
	mins := int(seconds) / 60
	secs := int(seconds) % 60
	hundredths := int((seconds - float64(int(seconds))) * 100)
	return pad2(mins) + ":" + pad2(secs) + "." + pad2(hundredths)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
